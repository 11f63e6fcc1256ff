package controllers

import (
	"context"
	"time"

	"herdview/internal/farmapi"
	"herdview/internal/logger"
	"herdview/internal/metrics"
	"herdview/internal/notify"
	"herdview/internal/repositories"
	"herdview/internal/services"
)

// BlockedError is an action denied by the role/record gates before any
// upstream request is made. Handlers surface it as a warning popup, not
// a server error.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return e.Reason
}

func Blocked(reason string) error {
	return &BlockedError{Reason: reason}
}

// ValidationError is a client-side rejection caught before any network
// call, so no partial upstream state is ever created.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func Invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// FailureNotice builds the single popup for a failed operation,
// preferring the upstream's own message.
func FailureNotice(err error, fallback string) notify.Notice {
	if msg, ok := farmapi.ServerMessage(err); ok && msg != "" {
		return notify.Error(msg)
	}
	return notify.Error(fallback)
}

// Invalidator is the post-mutation hook: drop the cached collection and
// push the success popup. Satisfied by services.CacheInvalidationService.
type Invalidator interface {
	InvalidateCollection(ctx context.Context, resource string) error
	PushNotice(userID int, notice notify.Notice)
}

// LoadResult is one collection load: live items, or the last-good
// snapshot when the live fetch failed.
type LoadResult[T any] struct {
	Items     []T
	Stale     bool
	FetchedAt time.Time
}

// LoadCollection fetches the live collection and saves it as the new
// snapshot; when the fetch fails it falls back to the stored snapshot
// so the page keeps its prior contents. Each load begins a generation
// keyed by the snapshot it will write, so a slow stale load never
// overwrites a newer snapshot and saves of one resource are never
// judged against another resource's counter.
func LoadCollection[T any](
	ctx context.Context,
	resource, scope string,
	generations *services.GenerationService,
	fetch func(context.Context) ([]T, error),
	snapshots repositories.SnapshotRepository,
	log logger.Logger,
) (LoadResult[T], error) {
	key := resource + ":" + scope
	generation := generations.Begin(key)

	items, err := fetch(ctx)
	if err == nil {
		if !generations.IsCurrent(key, generation) {
			log.Info("discarding superseded collection refresh", "resource", resource, "scope", scope, "generation", generation)
			return LoadResult[T]{Items: items, FetchedAt: time.Now()}, nil
		}
		if saveErr := snapshots.Save(ctx, resource, scope, generation, items); saveErr != nil {
			log.Warn("failed to save collection snapshot", "resource", resource, "scope", scope, "error", saveErr)
		}
		return LoadResult[T]{Items: items, FetchedAt: time.Now()}, nil
	}

	var stored []T
	fetchedAt, found, loadErr := snapshots.Load(ctx, resource, scope, &stored)
	if loadErr != nil || !found {
		return LoadResult[T]{}, err
	}

	metrics.ObserveStaleServe(resource)
	log.Warn("serving last-good snapshot after failed refresh",
		"resource", resource, "scope", scope, "fetchedAt", fetchedAt, "error", err)

	return LoadResult[T]{Items: stored, Stale: true, FetchedAt: fetchedAt}, nil
}
