package service

import (
	"fmt"
	"strings"

	"github.com/noah-isme/sma-timetable-viewer/internal/dto"
	"github.com/noah-isme/sma-timetable-viewer/internal/models"
	"github.com/noah-isme/sma-timetable-viewer/internal/viewer"
)

var viewTypes = []models.ViewType{models.ViewTypeClasses, models.ViewTypeFaculty}

// stateOf returns the reconciled state of a stored session.
func stateOf(session *models.ViewSession) viewer.State {
	state := viewer.State{ViewType: session.ViewType, SelectedID: session.SelectedID}
	state, _ = viewer.Reconcile(state, session.Timetable)
	return state
}

func renderView(session *models.ViewSession, apiPrefix string) *dto.ViewResponse {
	state := stateOf(session)
	tt := session.Timetable

	heading := viewer.Describe(tt)
	summary := viewer.Summarize(tt)
	self := fmt.Sprintf("%s/views/%s", strings.TrimRight(apiPrefix, "/"), session.ID)

	resp := &dto.ViewResponse{
		ID:         session.ID,
		ViewType:   state.ViewType,
		SelectedID: state.SelectedID,
		Heading: dto.HeadingDTO{
			Semester:     heading.Semester,
			ClassCount:   heading.ClassCount,
			FacultyCount: heading.FacultyCount,
			Line:         heading.Line,
		},
		ViewTypes: make([]dto.OptionDTO, 0, len(viewTypes)),
		Options:   make([]dto.OptionDTO, 0),
		Summary: dto.SummaryDTO{
			TotalClasses:         summary.TotalClasses,
			TotalSubjects:        summary.TotalSubjects,
			TotalFaculty:         summary.TotalFaculty,
			RoomUtilization:      summary.RoomUtilization,
			RoomUtilizationLabel: summary.RoomUtilizationLabel,
		},
		Links: dto.ViewLinks{
			Self:   self,
			Back:   session.BackURL,
			Print:  self + "/print",
			Export: self + "/exports",
		},
		UpdatedAt: session.UpdatedAt,
	}

	for _, vt := range viewTypes {
		resp.ViewTypes = append(resp.ViewTypes, dto.OptionDTO{Value: string(vt), Label: viewer.ViewTypeLabel(vt)})
	}
	for _, opt := range viewer.Options(state.ViewType, tt) {
		resp.Options = append(resp.Options, dto.OptionDTO{Value: opt.ID, Label: opt.Label})
	}
	if grid, ok := viewer.Resolve(state, tt); ok {
		resp.Grid = gridDTO(grid)
	}
	return resp
}

func gridDTO(grid *viewer.Grid) *dto.GridDTO {
	out := &dto.GridDTO{
		EntityID: grid.EntityID,
		Title:    grid.Title,
		Badge:    grid.Badge,
		Days:     grid.Days,
		Rows:     make([]dto.GridRowDTO, 0, len(grid.Rows)),
	}
	for _, row := range grid.Rows {
		r := dto.GridRowDTO{
			Index:     row.Index,
			Start:     row.Start,
			End:       row.End,
			Label:     row.Label,
			SlotLabel: row.SlotLabel,
			Cells:     make([]dto.GridCellDTO, 0, len(row.Cells)),
		}
		for _, cell := range row.Cells {
			r.Cells = append(r.Cells, cellDTO(cell))
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

func cellDTO(cell viewer.Cell) dto.GridCellDTO {
	if cell.Kind == viewer.CellFree || cell.Session == nil {
		return dto.GridCellDTO{Day: cell.Day, Kind: string(viewer.CellFree), Label: viewer.FreePeriodLabel}
	}
	session := &dto.SessionDTO{
		Subject: cell.Session.Subject,
		Type:    cell.Session.Type,
		Room:    cell.Session.Room,
	}
	switch cp := cell.Session.Counterpart.(type) {
	case viewer.FacultyCounterpart:
		session.Faculty = cp.Name
		session.Counterpart = cp.Label()
	case viewer.ClassCounterpart:
		session.Class = cp.Class
		session.Batch = cp.Batch
		session.Counterpart = cp.Label()
	}
	return dto.GridCellDTO{Day: cell.Day, Kind: string(viewer.CellSession), Session: session}
}
