package services

import (
	"context"
	"time"

	"herdview/internal/database"
	"herdview/internal/events"
	"herdview/internal/logger"
	"herdview/internal/notify"

	"github.com/google/uuid"
)

// CacheInvalidationService drops cached collections after mutations and
// pushes the resulting popup notices onto the event bus.
type CacheInvalidationService struct {
	db       database.DB
	eventBus *events.EventBus
	log      logger.Logger
}

func NewCacheInvalidationService(
	db database.DB,
	eventBus *events.EventBus,
) *CacheInvalidationService {
	return &CacheInvalidationService{
		db:       db,
		eventBus: eventBus,
		log:      logger.New("CacheInvalidationService"),
	}
}

func collectionCacheKey(resource string) string {
	return "collection:" + resource
}

// InvalidateCollection removes the cached full collection for a
// resource so the next list load refetches it. Farmer-scoped loads are
// never cached, so one key per resource suffices.
func (s *CacheInvalidationService) InvalidateCollection(ctx context.Context, resource string) error {
	log := s.log.Function("InvalidateCollection")

	if err := database.NewCacheBuilder(s.db.Cache.Collections, collectionCacheKey(resource)).
		WithContext(ctx).
		Delete(); err != nil {
		return log.Err("failed to invalidate collection cache", err, "resource", resource)
	}

	return nil
}

// PushNotice publishes a popup notice for one user. Delivery is best
// effort; a bus failure is logged, never propagated, because the
// mutation it narrates already succeeded or failed on its own.
func (s *CacheInvalidationService) PushNotice(userID int, notice notify.Notice) {
	log := s.log.Function("PushNotice")

	event := events.Event{
		ID:        uuid.New().String(),
		Type:      "notice",
		Channel:   "notices",
		UserID:    userID,
		Data:      map[string]any{"level": notice.Level, "text": notice.Text},
		Timestamp: time.Now(),
	}

	if err := s.eventBus.Publish("notices", event); err != nil {
		log.Er("failed to publish notice", err, "userID", userID)
	}
}
