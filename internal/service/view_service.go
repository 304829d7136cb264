package service

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-viewer/internal/dto"
	"github.com/noah-isme/sma-timetable-viewer/internal/models"
	"github.com/noah-isme/sma-timetable-viewer/internal/viewer"
	appErrors "github.com/noah-isme/sma-timetable-viewer/pkg/errors"
)

// Transition labels used for metrics and logs.
const (
	TransitionOpen       = "open"
	TransitionSwitchView = "switch_view"
	TransitionSelectItem = "select_item"
	TransitionClose      = "close"
)

const viewLockStripes = 64

type viewSessionStore interface {
	Get(ctx context.Context, id string) (*models.ViewSession, error)
	Save(ctx context.Context, session *models.ViewSession, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type timetableSource interface {
	FindByID(ctx context.Context, id string) (*models.Timetable, error)
	Invalidate(ctx context.Context, id string) error
}

// ViewConfig tunes the view service.
type ViewConfig struct {
	APIPrefix       string
	SessionTTL      time.Duration
	DefaultViewType models.ViewType
}

// ViewService owns the lifecycle of timetable views. Every mutation runs
// load, transition, reconcile and save under a per-view lock and then renders
// the saved state.
type ViewService struct {
	store      viewSessionStore
	timetables timetableSource
	validator  *validator.Validate
	metrics    *MetricsService
	logger     *zap.Logger
	cfg        ViewConfig
	locks      [viewLockStripes]sync.Mutex
	now        func() time.Time
}

// NewViewService constructs a ViewService. timetables may be nil when views
// can only be opened with an inline timetable.
func NewViewService(store viewSessionStore, timetables timetableSource, validate *validator.Validate, metrics *MetricsService, cfg ViewConfig, logger *zap.Logger) *ViewService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.DefaultViewType == "" {
		cfg.DefaultViewType = models.ViewTypeClasses
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	return &ViewService{
		store:      store,
		timetables: timetables,
		validator:  validate,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Open creates a view over an inline or stored timetable.
func (s *ViewService) Open(ctx context.Context, req dto.OpenViewRequest) (*dto.ViewResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid open view payload")
	}

	vt := s.cfg.DefaultViewType
	if req.ViewType != "" {
		parsed, err := viewer.ParseViewType(req.ViewType)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid view type")
		}
		vt = parsed
	}

	tt := req.Timetable
	if tt == nil {
		if s.timetables == nil {
			return nil, appErrors.ErrTimetableSourceDisabled
		}
		if req.Refresh {
			if err := s.timetables.Invalidate(ctx, req.TimetableID); err != nil {
				s.logger.Warn("timetable cache not refreshed", zap.String("timetable_id", req.TimetableID), zap.Error(err))
			}
		}
		loaded, err := s.timetables.FindByID(ctx, req.TimetableID)
		if err != nil {
			return nil, err
		}
		if err := s.validator.Struct(loaded); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "stored timetable is malformed")
		}
		tt = loaded
	}

	state, _ := viewer.Reconcile(viewer.NewState(vt), tt)
	now := s.now().UTC()
	session := &models.ViewSession{
		ID:          uuid.NewString(),
		TimetableID: req.TimetableID,
		Timetable:   tt,
		ViewType:    state.ViewType,
		SelectedID:  state.SelectedID,
		BackURL:     req.BackURL,
		OpenedBy:    req.OpenedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Save(ctx, session, s.cfg.SessionTTL); err != nil {
		return nil, err
	}

	s.metrics.RecordTransition(TransitionOpen)
	s.logger.Info("view opened",
		zap.String("view_id", session.ID),
		zap.String("timetable_id", session.TimetableID),
		zap.String("view_type", string(session.ViewType)),
		zap.String("selected_id", session.SelectedID),
		zap.String("opened_by", session.OpenedBy),
	)
	return renderView(session, s.cfg.APIPrefix), nil
}

// Get renders the current state of a view.
func (s *ViewService) Get(ctx context.Context, id string) (*dto.ViewResponse, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return renderView(session, s.cfg.APIPrefix), nil
}

// SwitchView changes the view type. The selection moves to the first entity of
// the new collection.
func (s *ViewService) SwitchView(ctx context.Context, id string, req dto.SwitchViewRequest) (*dto.ViewResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid view type payload")
	}
	vt, err := viewer.ParseViewType(req.ViewType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid view type")
	}

	return s.transition(ctx, id, TransitionSwitchView, func(state viewer.State, tt *models.Timetable) viewer.State {
		return state.SwitchView(vt, tt)
	})
}

// Select points the view at a class or faculty member. Unknown ids are kept
// and render without a grid.
func (s *ViewService) Select(ctx context.Context, id string, req dto.SelectItemRequest) (*dto.ViewResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid selection payload")
	}

	return s.transition(ctx, id, TransitionSelectItem, func(state viewer.State, _ *models.Timetable) viewer.State {
		return state.SelectItem(req.ID)
	})
}

// Close tears a view down.
func (s *ViewService) Close(ctx context.Context, id string) error {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.RecordTransition(TransitionClose)
	s.logger.Info("view closed", zap.String("view_id", id))
	return nil
}

func (s *ViewService) transition(ctx context.Context, id, kind string, apply func(viewer.State, *models.Timetable) viewer.State) (*dto.ViewResponse, error) {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := viewer.State{ViewType: session.ViewType, SelectedID: session.SelectedID}
	next, _ := viewer.Reconcile(apply(before, session.Timetable), session.Timetable)
	session.ViewType = next.ViewType
	session.SelectedID = next.SelectedID
	session.UpdatedAt = s.now().UTC()

	if err := s.store.Save(ctx, session, s.cfg.SessionTTL); err != nil {
		return nil, err
	}

	s.metrics.RecordTransition(kind)
	s.logger.Debug("view updated",
		zap.String("view_id", id),
		zap.String("transition", kind),
		zap.String("view_type", string(next.ViewType)),
		zap.String("selected_id", next.SelectedID),
		zap.String("previous_selected_id", before.SelectedID),
	)
	return renderView(session, s.cfg.APIPrefix), nil
}

func (s *ViewService) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &s.locks[h.Sum32()%viewLockStripes]
}
