package repositories

import (
	"context"
	"time"

	"herdview/internal/database"
	"herdview/internal/logger"
)

const collectionCacheTTL = 30 * time.Second

// CollectionRepository is a short-TTL read cache over the upstream's
// full collections. Only the unrestricted (admin/supervisor) scope is
// cached; farmer-scoped fetches always hit the upstream so the managed
// cow set is fresh on every page load.
type CollectionRepository interface {
	GetAll(ctx context.Context, resource string, dest any) (bool, error)
	SetAll(ctx context.Context, resource string, collection any) error
}

type collectionRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCollection(db database.DB) CollectionRepository {
	return &collectionRepository{
		db:  db,
		log: logger.New("collectionRepository"),
	}
}

func (r *collectionRepository) GetAll(ctx context.Context, resource string, dest any) (bool, error) {
	found, err := database.NewCacheBuilder(r.db.Cache.Collections, "collection:"+resource).
		WithContext(ctx).
		Get(dest)
	if err != nil {
		return false, r.log.Function("GetAll").
			Err("failed to read collection cache", err, "resource", resource)
	}
	return found, nil
}

func (r *collectionRepository) SetAll(ctx context.Context, resource string, collection any) error {
	if err := database.NewCacheBuilder(r.db.Cache.Collections, "collection:"+resource).
		WithStruct(collection).
		WithTTL(collectionCacheTTL).
		WithContext(ctx).
		Set(); err != nil {
		return r.log.Function("SetAll").
			Err("failed to cache collection", err, "resource", resource)
	}
	return nil
}
