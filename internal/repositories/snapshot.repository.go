package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"herdview/internal/database"
	"herdview/internal/logger"
	. "herdview/internal/models"
	"herdview/internal/services"

	"gorm.io/gorm"
)

// SnapshotRepository keeps the last successfully fetched copy of each
// upstream collection. When a refresh fails, the list page serves the
// snapshot instead of going blank.
type SnapshotRepository interface {
	Save(ctx context.Context, resource, scope string, generation uint64, collection any) error
	Load(ctx context.Context, resource, scope string, dest any) (time.Time, bool, error)
}

type snapshotRepository struct {
	db           database.DB
	transactions *services.TransactionService
	log          logger.Logger
}

func NewSnapshot(db database.DB, transactions *services.TransactionService) SnapshotRepository {
	return &snapshotRepository{
		db:           db,
		transactions: transactions,
		log:          logger.New("snapshotRepository"),
	}
}

func (r *snapshotRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// Save runs as one transaction so two concurrent saves for the same
// (resource, scope) cannot interleave the lookup and the write.
func (r *snapshotRepository) Save(ctx context.Context, resource, scope string, generation uint64, collection any) error {
	log := r.log.Function("Save")

	payload, err := json.Marshal(collection)
	if err != nil {
		return log.Err("failed to encode snapshot", err, "resource", resource, "scope", scope)
	}

	return r.transactions.Execute(ctx, func(txCtx context.Context) error {
		var existing CollectionSnapshot
		err := r.getDB(txCtx).
			Where("resource = ? AND scope = ?", resource, scope).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			snapshot := CollectionSnapshot{
				Resource:   resource,
				Scope:      scope,
				Generation: generation,
				FetchedAt:  time.Now(),
				Payload:    payload,
			}
			if err := r.getDB(txCtx).Create(&snapshot).Error; err != nil {
				return log.Err("failed to create snapshot", err, "resource", resource, "scope", scope)
			}
			return nil

		case err != nil:
			return log.Err("failed to look up snapshot", err, "resource", resource, "scope", scope)
		}

		// Never let an old in-flight load clobber a newer snapshot.
		if existing.Generation > generation {
			log.Debug("discarding stale snapshot", "resource", resource, "scope", scope,
				"generation", generation, "current", existing.Generation)
			return nil
		}

		existing.Generation = generation
		existing.FetchedAt = time.Now()
		existing.Payload = payload
		if err := r.getDB(txCtx).Save(&existing).Error; err != nil {
			return log.Err("failed to update snapshot", err, "resource", resource, "scope", scope)
		}

		return nil
	})
}

func (r *snapshotRepository) Load(ctx context.Context, resource, scope string, dest any) (time.Time, bool, error) {
	log := r.log.Function("Load")

	var snapshot CollectionSnapshot
	err := r.getDB(ctx).
		Where("resource = ? AND scope = ?", resource, scope).
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, log.Err("failed to load snapshot", err, "resource", resource, "scope", scope)
	}

	if err := json.Unmarshal(snapshot.Payload, dest); err != nil {
		return time.Time{}, false, log.Err("failed to decode snapshot", err, "resource", resource, "scope", scope)
	}

	return snapshot.FetchedAt, true, nil
}
