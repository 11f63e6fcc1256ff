package services

import (
	"context"

	"herdview/internal/database"
	"herdview/internal/logger"

	"gorm.io/gorm"
)

type transactionKey struct{}

// TransactionService scopes gorm transactions to a context so
// repositories can join an ambient transaction without knowing about
// it.
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

func (s *TransactionService) Execute(ctx context.Context, fn func(txCtx context.Context) error) error {
	return s.db.SQLWithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, transactionKey{}, tx))
	})
}

// GetTransaction returns the ambient transaction, if any.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(transactionKey{}).(*gorm.DB)
	return tx, ok
}
