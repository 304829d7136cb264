package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-viewer/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-viewer/pkg/errors"
)

type timetableRepository interface {
	FindByID(ctx context.Context, id string) (*models.StoredTimetable, error)
	ListRecent(ctx context.Context, limit int) ([]models.TimetableSummary, error)
}

// TimetableProvider resolves stored timetables by id, reading through the cache.
type TimetableProvider struct {
	repo     timetableRepository
	cache    *CacheService
	prefix   string
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewTimetableProvider constructs a provider. A nil repo disables lookups by id.
func NewTimetableProvider(repo timetableRepository, cache *CacheService, keyPrefix string, cacheTTL time.Duration, logger *zap.Logger) *TimetableProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if keyPrefix == "" {
		keyPrefix = "timetable_viewer"
	}
	return &TimetableProvider{repo: repo, cache: cache, prefix: keyPrefix, cacheTTL: cacheTTL, logger: logger}
}

// Enabled reports whether timetables can be loaded by id.
func (p *TimetableProvider) Enabled() bool {
	return p != nil && p.repo != nil
}

// FindByID returns the timetable stored under id.
func (p *TimetableProvider) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	if !p.Enabled() {
		return nil, appErrors.ErrTimetableSourceDisabled
	}

	key := p.cacheKey(id)
	var cached models.Timetable
	if hit, err := p.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	stored, err := p.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.cache.Set(ctx, key, stored.Payload, p.cacheTTL); err != nil {
		p.logger.Debug("timetable not cached", zap.String("timetable_id", id), zap.Error(err))
	}
	return &stored.Payload, nil
}

// List returns the most recent stored timetables without payloads.
func (p *TimetableProvider) List(ctx context.Context, limit int) ([]models.TimetableSummary, error) {
	if !p.Enabled() {
		return nil, appErrors.ErrTimetableSourceDisabled
	}
	return p.repo.ListRecent(ctx, limit)
}

// Invalidate drops the cached payload of id so the next lookup reads the
// repository again.
func (p *TimetableProvider) Invalidate(ctx context.Context, id string) error {
	if !p.Enabled() {
		return appErrors.ErrTimetableSourceDisabled
	}
	return p.cache.Invalidate(ctx, globEscaper.Replace(p.cacheKey(id)))
}

func (p *TimetableProvider) cacheKey(id string) string {
	return fmt.Sprintf("%s:timetable:%s", p.prefix, id)
}

// globEscaper quotes the metacharacters shared by Redis SCAN MATCH and path.Match.
var globEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)
