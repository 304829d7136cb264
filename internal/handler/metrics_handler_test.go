package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-viewer/internal/models"
	"github.com/noah-isme/sma-timetable-viewer/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-viewer/pkg/errors"
)

func TestMetricsHandlerReady(t *testing.T) {
	h := NewMetricsHandler(nil, map[string]ReadinessCheck{
		"redis": func(ctx context.Context) error { return nil },
	})
	c, w := newGinContext(http.MethodGet, "/ready", nil)
	h.Ready(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"ok"`)

	h = NewMetricsHandler(nil, map[string]ReadinessCheck{
		"postgres": func(ctx context.Context) error { return errors.New("dial tcp: refused") },
	})
	c, w = newGinContext(http.MethodGet, "/ready", nil)
	h.Ready(c)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService().Handler(), nil)
	c, w := newGinContext(http.MethodGet, "/metrics", nil)
	h.Prometheus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "goroutines_total")

	c, w = newGinContext(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(nil, nil).Prometheus(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type timetableListerStub struct {
	items []models.TimetableSummary
	err   error
	limit int
}

func (s *timetableListerStub) List(ctx context.Context, limit int) ([]models.TimetableSummary, error) {
	s.limit = limit
	return s.items, s.err
}

func TestTimetableHandlerList(t *testing.T) {
	stub := &timetableListerStub{items: []models.TimetableSummary{{ID: "tt-1", Semester: "Fall 2024"}}}
	h := NewTimetableHandler(stub)

	c, w := newGinContext(http.MethodGet, "/timetables?limit=5", nil)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, stub.limit)
	assert.Contains(t, w.Body.String(), `"count":1`)

	c, w = newGinContext(http.MethodGet, "/timetables?limit=abc", nil)
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerListDisabled(t *testing.T) {
	h := NewTimetableHandler(&timetableListerStub{err: appErrors.ErrTimetableSourceDisabled})
	c, w := newGinContext(http.MethodGet, "/timetables", nil)
	h.List(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
