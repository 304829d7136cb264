package service

import (
	"context"
	"sync"
	"time"

	"github.com/noah-isme/sma-timetable-viewer/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-viewer/pkg/errors"
)

func sampleTimetable() *models.Timetable {
	util := 72.5
	total := 3
	return &models.Timetable{
		Semester:    "Fall 2024",
		WorkingDays: []string{"Mon", "Tue"},
		TimeSlots: []models.TimeSlot{
			{Start: "09:00", End: "10:00"},
			{Start: "10:00", End: "11:00"},
		},
		Classes: []models.Class{
			{
				ID:    "c1",
				Name:  "CS101",
				Batch: "A",
				Schedule: models.Schedule{
					"Mon": {{Subject: "DS", Faculty: "Dr.X", Room: "101", Type: "Lecture"}, nil},
				},
			},
			{ID: "c2", Name: "CS102", Batch: "B"},
		},
		Faculty: []models.Faculty{
			{
				ID:   "f1",
				Name: "Dr.X",
				Schedule: models.Schedule{
					"Mon": {{Subject: "DS", Class: "CS101", Batch: "A", Room: "101", Type: "Lecture"}},
				},
			},
		},
		Stats: &models.TimetableStats{TotalClasses: &total, RoomUtilization: &util},
	}
}

type sessionStoreStub struct {
	mu       sync.Mutex
	sessions map[string]models.ViewSession
	saves    int
	saveErr  error
}

func newSessionStoreStub() *sessionStoreStub {
	return &sessionStoreStub{sessions: map[string]models.ViewSession{}}
}

func (s *sessionStoreStub) Get(ctx context.Context, id string) (*models.ViewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, appErrors.ErrViewNotFound
	}
	return &session, nil
}

func (s *sessionStoreStub) Save(ctx context.Context, session *models.ViewSession, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.sessions[session.ID] = *session
	return nil
}

func (s *sessionStoreStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *sessionStoreStub) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

type timetableSourceStub struct {
	timetables  map[string]*models.Timetable
	calls       int
	invalidated []string
}

func (s *timetableSourceStub) Invalidate(ctx context.Context, id string) error {
	s.invalidated = append(s.invalidated, id)
	return nil
}

func (s *timetableSourceStub) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	s.calls++
	tt, ok := s.timetables[id]
	if !ok {
		return nil, appErrors.ErrTimetableNotFound
	}
	return tt, nil
}
