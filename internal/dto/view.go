package dto

import (
	"time"

	"github.com/noah-isme/sma-timetable-viewer/internal/models"
)

// OpenViewRequest opens a view over an inline timetable or a stored one.
type OpenViewRequest struct {
	Timetable   *models.Timetable `json:"timetable" validate:"required_without=TimetableID"`
	TimetableID string            `json:"timetableId" validate:"required_without=Timetable,max=64"`
	ViewType    string            `json:"viewType" validate:"omitempty,oneof=classes faculty"`
	BackURL     string            `json:"backUrl" validate:"omitempty,max=2048"`
	// Refresh bypasses the cached copy of a stored timetable.
	Refresh     bool              `json:"refresh"`
	OpenedBy    string            `json:"-"`
}

// SwitchViewRequest changes the view type.
type SwitchViewRequest struct {
	ViewType string `json:"viewType" validate:"required,oneof=classes faculty"`
}

// SelectItemRequest selects a class or faculty member by id.
type SelectItemRequest struct {
	ID string `json:"id" validate:"required,max=128"`
}

// ViewResponse is a fully rendered view.
type ViewResponse struct {
	ID         string          `json:"id"`
	ViewType   models.ViewType `json:"viewType"`
	SelectedID string          `json:"selectedId"`
	Heading    HeadingDTO      `json:"heading"`
	ViewTypes  []OptionDTO     `json:"viewTypes"`
	Options    []OptionDTO     `json:"options"`
	Grid       *GridDTO        `json:"grid"`
	Summary    SummaryDTO      `json:"summary"`
	Links      ViewLinks       `json:"links"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// HeadingDTO is the title line of a view.
type HeadingDTO struct {
	Semester     string `json:"semester"`
	ClassCount   int    `json:"classCount"`
	FacultyCount int    `json:"facultyCount"`
	Line         string `json:"line"`
}

// OptionDTO is a selector entry.
type OptionDTO struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// GridDTO is the weekly grid of the selected entity. A nil grid means there is
// no current data to show.
type GridDTO struct {
	EntityID string       `json:"entityId"`
	Title    string       `json:"title"`
	Badge    string       `json:"badge"`
	Days     []string     `json:"days"`
	Rows     []GridRowDTO `json:"rows"`
}

// GridRowDTO is one time slot.
type GridRowDTO struct {
	Index     int           `json:"index"`
	Start     string        `json:"start"`
	End       string        `json:"end"`
	Label     string        `json:"label"`
	SlotLabel string        `json:"slotLabel"`
	Cells     []GridCellDTO `json:"cells"`
}

// GridCellDTO is a session or a free period.
type GridCellDTO struct {
	Day     string      `json:"day"`
	Kind    string      `json:"kind"`
	Label   string      `json:"label,omitempty"`
	Session *SessionDTO `json:"session,omitempty"`
}

// SessionDTO carries either Faculty or Class/Batch depending on the view type.
type SessionDTO struct {
	Subject     string `json:"subject"`
	Type        string `json:"type"`
	Room        string `json:"room"`
	Faculty     string `json:"faculty,omitempty"`
	Class       string `json:"class,omitempty"`
	Batch       string `json:"batch,omitempty"`
	Counterpart string `json:"counterpart"`
}

// SummaryDTO is the timetable summary card.
type SummaryDTO struct {
	TotalClasses         int     `json:"totalClasses"`
	TotalSubjects        int     `json:"totalSubjects"`
	TotalFaculty         int     `json:"totalFaculty"`
	RoomUtilization      float64 `json:"roomUtilization"`
	RoomUtilizationLabel string  `json:"roomUtilizationLabel"`
}

// ViewLinks are the actions available from a view.
type ViewLinks struct {
	Self   string `json:"self"`
	Back   string `json:"back,omitempty"`
	Print  string `json:"print"`
	Export string `json:"export"`
}
