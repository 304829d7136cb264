package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/noah-isme/sma-timetable-viewer/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-viewer/pkg/errors"
)

// KeyValueStore is satisfied by CacheRepository and MemoryCacheRepository.
type KeyValueStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ViewSessionRepository keeps open views in a key-value store. Each save
// refreshes the session TTL.
type ViewSessionRepository struct {
	store  KeyValueStore
	prefix string
}

// NewViewSessionRepository constructs the repository. Keys are namespaced by prefix.
func NewViewSessionRepository(store KeyValueStore, prefix string) *ViewSessionRepository {
	if prefix == "" {
		prefix = "timetable_viewer"
	}
	return &ViewSessionRepository{store: store, prefix: prefix}
}

// Get loads a view session.
func (r *ViewSessionRepository) Get(ctx context.Context, id string) (*models.ViewSession, error) {
	var session models.ViewSession
	if err := r.store.Get(ctx, r.key(id), &session); err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.ErrViewNotFound
		}
		return nil, fmt.Errorf("load view %s: %w", id, err)
	}
	return &session, nil
}

// Save stores a view session for ttl.
func (r *ViewSessionRepository) Save(ctx context.Context, session *models.ViewSession, ttl time.Duration) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("view session id required")
	}
	if err := r.store.Set(ctx, r.key(session.ID), session, ttl); err != nil {
		return fmt.Errorf("save view %s: %w", session.ID, err)
	}
	return nil
}

// Delete removes a view session.
func (r *ViewSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, r.key(id)); err != nil {
		return fmt.Errorf("delete view %s: %w", id, err)
	}
	return nil
}

func (r *ViewSessionRepository) key(id string) string {
	return fmt.Sprintf("%s:view:%s", r.prefix, id)
}
