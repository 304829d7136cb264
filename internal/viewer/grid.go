package viewer

import (
	"fmt"
	"strings"

	"github.com/noah-isme/sma-timetable-viewer/internal/models"
)

// FreePeriodLabel is shown in cells without a session.
const FreePeriodLabel = "Free Period"

// FacultyBadge is the card badge of a faculty timetable.
const FacultyBadge = "Faculty"

// CellKind tags a grid cell.
type CellKind string

const (
	CellSession CellKind = "session"
	CellFree    CellKind = "free"
)

// Grid is the weekly timetable of the selected entity.
type Grid struct {
	ViewType models.ViewType
	EntityID string
	Title    string
	Badge    string
	Days     []string
	Rows     []Row
}

// Row is one time slot across all working days.
type Row struct {
	Index     int
	Start     string
	End       string
	Label     string
	SlotLabel string
	Cells     []Cell
}

// Cell is either a session or a free period. Session is nil for free periods.
type Cell struct {
	Day     string
	Kind    CellKind
	Session *SessionCell
}

// SessionCell is a session as displayed in the active view.
type SessionCell struct {
	Subject     string
	Type        string
	Room        string
	Counterpart Counterpart
}

// Counterpart is who the session is shared with: the teaching faculty on a
// class timetable, the taught class on a faculty timetable.
type Counterpart interface {
	Label() string
	counterpart()
}

// FacultyCounterpart appears on class timetables.
type FacultyCounterpart struct {
	Name string
}

func (f FacultyCounterpart) Label() string { return f.Name }
func (FacultyCounterpart) counterpart()    {}

// ClassCounterpart appears on faculty timetables.
type ClassCounterpart struct {
	Class string
	Batch string
}

func (c ClassCounterpart) Label() string { return fmt.Sprintf("%s - %s", c.Class, c.Batch) }
func (ClassCounterpart) counterpart()    {}

// Resolve builds the grid for the selected entity of the active view. It
// returns false when there is no current data: an empty collection or a
// selection that does not exist in it.
func Resolve(s State, tt *models.Timetable) (*Grid, bool) {
	if tt == nil || s.SelectedID == "" {
		return nil, false
	}

	var (
		grid     *Grid
		schedule models.Schedule
	)
	switch s.ViewType {
	case models.ViewTypeClasses:
		for i := range tt.Classes {
			if c := &tt.Classes[i]; c.ID == s.SelectedID {
				grid = &Grid{EntityID: c.ID, Title: c.Name, Badge: c.Batch}
				schedule = c.Schedule
				break
			}
		}
	case models.ViewTypeFaculty:
		for i := range tt.Faculty {
			if f := &tt.Faculty[i]; f.ID == s.SelectedID {
				grid = &Grid{EntityID: f.ID, Title: f.Name, Badge: FacultyBadge}
				schedule = f.Schedule
				break
			}
		}
	}
	if grid == nil {
		return nil, false
	}

	grid.ViewType = s.ViewType
	grid.Days = tt.WorkingDays
	grid.Rows = make([]Row, 0, len(tt.TimeSlots))
	for slotIdx, slot := range tt.TimeSlots {
		row := Row{
			Index:     slotIdx,
			Start:     slot.Start,
			End:       slot.End,
			Label:     fmt.Sprintf("%s - %s", slot.Start, slot.End),
			SlotLabel: fmt.Sprintf("Slot %d", slotIdx+1),
			Cells:     make([]Cell, 0, len(tt.WorkingDays)),
		}
		for _, day := range tt.WorkingDays {
			row.Cells = append(row.Cells, resolveCell(s.ViewType, day, schedule.At(day, slotIdx)))
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid, true
}

func resolveCell(vt models.ViewType, day string, session *models.Session) Cell {
	if session == nil {
		return Cell{Day: day, Kind: CellFree}
	}
	cell := &SessionCell{Subject: session.Subject, Type: session.Type, Room: session.Room}
	switch vt {
	case models.ViewTypeClasses:
		cell.Counterpart = FacultyCounterpart{Name: session.Faculty}
	case models.ViewTypeFaculty:
		cell.Counterpart = ClassCounterpart{Class: session.Class, Batch: session.Batch}
	}
	return Cell{Day: day, Kind: CellSession, Session: cell}
}

// Lines returns the display lines of a cell: subject, counterpart, room and
// type for a session, the free period label otherwise.
func (c Cell) Lines() []string {
	if c.Kind == CellFree || c.Session == nil {
		return []string{FreePeriodLabel}
	}
	counterpart := ""
	if c.Session.Counterpart != nil {
		counterpart = c.Session.Counterpart.Label()
	}
	return []string{c.Session.Subject, counterpart, c.Session.Room, c.Session.Type}
}

// Text joins Lines with slashes.
func (c Cell) Text() string {
	return strings.Join(c.Lines(), "/")
}

// ResolveAll builds a grid for every entity of the active view type, in
// payload order. The selection of s is ignored.
func ResolveAll(s State, tt *models.Timetable) []*Grid {
	opts := Options(s.ViewType, tt)
	grids := make([]*Grid, 0, len(opts))
	for _, opt := range opts {
		if grid, ok := Resolve(s.SelectItem(opt.ID), tt); ok {
			grids = append(grids, grid)
		}
	}
	return grids
}
