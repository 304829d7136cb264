package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-viewer/internal/models"
	"github.com/noah-isme/sma-timetable-viewer/internal/repository"
	appErrors "github.com/noah-isme/sma-timetable-viewer/pkg/errors"
)

type brokenCache struct{}

func (brokenCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("connection refused")
}

func (brokenCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCache) DeleteByPattern(ctx context.Context, pattern string) error {
	return errors.New("connection refused")
}

func TestCacheServiceHitAndMiss(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(repository.NewMemoryCacheRepository(), metrics, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var out string
	hit, err := svc.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "k", "v", 0))
	hit, err = svc.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v", out)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheMisses))
	assert.Equal(t, 0.5, testutil.ToFloat64(metrics.cacheHitRatio))

	require.NoError(t, svc.Invalidate(ctx, "k*"))
	hit, _ = svc.Get(ctx, "k", &out)
	assert.False(t, hit)
}

func TestCacheServiceDisabled(t *testing.T) {
	svc := NewCacheService(brokenCache{}, nil, 0, nil, false)
	var out string
	hit, err := svc.Get(context.Background(), "k", &out)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, svc.Set(context.Background(), "k", "v", 0))
	assert.NoError(t, svc.Invalidate(context.Background(), "*"))
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	svc := NewCacheService(brokenCache{}, nil, 0, nil, true)
	var out string
	_, err := svc.Get(context.Background(), "k", &out)
	assert.Error(t, err)
	assert.Error(t, svc.Set(context.Background(), "k", "v", 0))
}

type timetableRepoStub struct {
	stored map[string]*models.StoredTimetable
	calls  int
}

func (s *timetableRepoStub) FindByID(ctx context.Context, id string) (*models.StoredTimetable, error) {
	s.calls++
	if tt, ok := s.stored[id]; ok {
		return tt, nil
	}
	return nil, errors.New("not found")
}

func (s *timetableRepoStub) ListRecent(ctx context.Context, limit int) ([]models.TimetableSummary, error) {
	out := make([]models.TimetableSummary, 0, len(s.stored))
	for _, tt := range s.stored {
		out = append(out, models.TimetableSummary{ID: tt.ID, Semester: tt.Semester})
	}
	return out, nil
}

func TestTimetableProviderReadsThroughCache(t *testing.T) {
	repo := &timetableRepoStub{stored: map[string]*models.StoredTimetable{
		"tt-1": {ID: "tt-1", Semester: "Fall 2024", Payload: *sampleTimetable()},
	}}
	cache := NewCacheService(repository.NewMemoryCacheRepository(), nil, time.Minute, nil, true)
	provider := NewTimetableProvider(repo, cache, "test", time.Minute, zap.NewNop())
	ctx := context.Background()

	first, err := provider.FindByID(ctx, "tt-1")
	require.NoError(t, err)
	second, err := provider.FindByID(ctx, "tt-1")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, first.Semester, second.Semester)
	assert.Equal(t, "DS", second.Classes[0].Schedule.At("Mon", 0).Subject)
	assert.Nil(t, second.Classes[0].Schedule.At("Mon", 1))

	list, err := provider.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTimetableProviderInvalidateReloadsRegeneratedTimetable(t *testing.T) {
	repo := &timetableRepoStub{stored: map[string]*models.StoredTimetable{
		"tt-1": {ID: "tt-1", Payload: *sampleTimetable()},
		"tt-2": {ID: "tt-2", Payload: *sampleTimetable()},
	}}
	cache := NewCacheService(repository.NewMemoryCacheRepository(), nil, time.Minute, nil, true)
	provider := NewTimetableProvider(repo, cache, "test", time.Minute, nil)
	ctx := context.Background()

	_, err := provider.FindByID(ctx, "tt-1")
	require.NoError(t, err)
	_, err = provider.FindByID(ctx, "tt-2")
	require.NoError(t, err)

	regenerated := sampleTimetable()
	regenerated.Semester = "Spring 2025"
	repo.stored["tt-1"] = &models.StoredTimetable{ID: "tt-1", Payload: *regenerated}

	stale, err := provider.FindByID(ctx, "tt-1")
	require.NoError(t, err)
	assert.Equal(t, "Fall 2024", stale.Semester)

	require.NoError(t, provider.Invalidate(ctx, "tt-1"))
	require.NoError(t, provider.Invalidate(ctx, "tt-*"))

	fresh, err := provider.FindByID(ctx, "tt-1")
	require.NoError(t, err)
	assert.Equal(t, "Spring 2025", fresh.Semester)
	assert.Equal(t, 3, repo.calls)

	_, err = provider.FindByID(ctx, "tt-2")
	require.NoError(t, err)
	assert.Equal(t, 3, repo.calls)
}

func TestTimetableProviderDisabled(t *testing.T) {
	provider := NewTimetableProvider(nil, nil, "", 0, nil)
	assert.False(t, provider.Enabled())
	_, err := provider.FindByID(context.Background(), "tt-1")
	assert.Error(t, err)
	_, err = provider.List(context.Background(), 10)
	assert.Error(t, err)
	assert.ErrorIs(t, provider.Invalidate(context.Background(), "tt-1"), appErrors.ErrTimetableSourceDisabled)
}
