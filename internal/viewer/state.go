// Package viewer derives what a timetable view displays from its view type,
// its selected entity and the timetable payload. Everything here is pure: the
// timetable is never mutated and state transitions return new values.
package viewer

import (
	"fmt"
	"strings"

	"github.com/noah-isme/sma-timetable-viewer/internal/models"
)

// State is the mutable part of a view.
type State struct {
	ViewType   models.ViewType `json:"viewType"`
	SelectedID string          `json:"selectedId"`
}

// ParseViewType converts caller input into a ViewType.
func ParseViewType(raw string) (models.ViewType, error) {
	switch vt := models.ViewType(strings.ToLower(strings.TrimSpace(raw))); vt {
	case models.ViewTypeClasses, models.ViewTypeFaculty:
		return vt, nil
	default:
		return "", fmt.Errorf("unknown view type %q", raw)
	}
}

// ViewTypeLabel is the selector caption for a view type.
func ViewTypeLabel(vt models.ViewType) string {
	switch vt {
	case models.ViewTypeClasses:
		return "Class Timetables"
	case models.ViewTypeFaculty:
		return "Faculty Timetables"
	}
	return string(vt)
}

// NewState returns the initial state of a freshly opened view. The selection
// is left empty; Reconcile fills it.
func NewState(vt models.ViewType) State {
	if vt == "" {
		vt = models.ViewTypeClasses
	}
	return State{ViewType: vt}
}

// SwitchView changes the view type and selects the first entity of the new
// collection, or nothing when that collection is empty.
func (s State) SwitchView(vt models.ViewType, tt *models.Timetable) State {
	return State{ViewType: vt, SelectedID: firstID(vt, tt)}
}

// SelectItem selects id without checking that it exists. Unknown ids resolve
// to no current data.
func (s State) SelectItem(id string) State {
	s.SelectedID = id
	return s
}

// Reconcile fills an empty selection with the first entity of the active
// collection. It reports whether the state changed and is a no-op once a
// selection is present.
func Reconcile(s State, tt *models.Timetable) (State, bool) {
	if s.SelectedID != "" {
		return s, false
	}
	id := firstID(s.ViewType, tt)
	if id == "" {
		return s, false
	}
	s.SelectedID = id
	return s, true
}

func firstID(vt models.ViewType, tt *models.Timetable) string {
	if tt == nil {
		return ""
	}
	switch vt {
	case models.ViewTypeClasses:
		if len(tt.Classes) > 0 {
			return tt.Classes[0].ID
		}
	case models.ViewTypeFaculty:
		if len(tt.Faculty) > 0 {
			return tt.Faculty[0].ID
		}
	}
	return ""
}
