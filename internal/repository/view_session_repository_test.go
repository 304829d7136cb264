package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-viewer/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-viewer/pkg/errors"
)

func TestViewSessionRepositoryRoundTrip(t *testing.T) {
	store := NewMemoryCacheRepository()
	repo := NewViewSessionRepository(store, "test")
	ctx := context.Background()

	session := &models.ViewSession{
		ID:         "v-1",
		Timetable:  &models.Timetable{WorkingDays: []string{"Mon"}},
		ViewType:   models.ViewTypeFaculty,
		SelectedID: "f1",
	}
	require.NoError(t, repo.Save(ctx, session, time.Minute))

	loaded, err := repo.Get(ctx, "v-1")
	require.NoError(t, err)
	assert.Equal(t, models.ViewTypeFaculty, loaded.ViewType)
	assert.Equal(t, "f1", loaded.SelectedID)
	assert.Equal(t, []string{"Mon"}, loaded.Timetable.WorkingDays)

	loaded.SelectedID = "changed"
	again, err := repo.Get(ctx, "v-1")
	require.NoError(t, err)
	assert.Equal(t, "f1", again.SelectedID)

	require.NoError(t, repo.Delete(ctx, "v-1"))
	_, err = repo.Get(ctx, "v-1")
	assert.ErrorIs(t, err, appErrors.ErrViewNotFound)
}

func TestViewSessionRepositoryRequiresID(t *testing.T) {
	repo := NewViewSessionRepository(NewMemoryCacheRepository(), "")
	assert.Error(t, repo.Save(context.Background(), &models.ViewSession{}, time.Minute))
}

func TestMemoryCacheRepositoryExpiry(t *testing.T) {
	store := NewMemoryCacheRepository()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	var out string
	require.NoError(t, store.Get(ctx, "k", &out))
	assert.Equal(t, "v", out)

	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, store.Get(ctx, "k", &out), appErrors.ErrCacheMiss)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryCacheRepositoryDeleteByPattern(t *testing.T) {
	store := NewMemoryCacheRepository()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "tv:timetable:1", 1, 0))
	require.NoError(t, store.Set(ctx, "tv:timetable:2", 2, 0))
	require.NoError(t, store.Set(ctx, "tv:view:1", 3, 0))

	require.NoError(t, store.DeleteByPattern(ctx, "tv:timetable:*"))
	assert.Equal(t, 1, store.Len())
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()
	var out string
	assert.ErrorIs(t, repo.Get(ctx, "k", &out), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "k", "v", time.Minute))
	assert.NoError(t, repo.Delete(ctx, "k"))
	assert.NoError(t, repo.DeleteByPattern(ctx, "*"))
	assert.NoError(t, repo.Close())
}
