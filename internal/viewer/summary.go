package viewer

import (
	"fmt"
	"strconv"

	"github.com/noah-isme/sma-timetable-viewer/internal/models"
)

const defaultSemesterLabel = "Academic"

// Summary holds the aggregate figures of the whole timetable.
type Summary struct {
	TotalClasses         int
	TotalSubjects        int
	TotalFaculty         int
	RoomUtilization      float64
	RoomUtilizationLabel string
}

// Summarize reads the generator stats, defaulting missing figures to zero.
func Summarize(tt *models.Timetable) Summary {
	var summary Summary
	if tt != nil && tt.Stats != nil {
		summary.TotalClasses = intOrZero(tt.Stats.TotalClasses)
		summary.TotalSubjects = intOrZero(tt.Stats.TotalSubjects)
		summary.TotalFaculty = intOrZero(tt.Stats.TotalFaculty)
		if tt.Stats.RoomUtilization != nil {
			summary.RoomUtilization = *tt.Stats.RoomUtilization
		}
	}
	summary.RoomUtilizationLabel = strconv.FormatFloat(summary.RoomUtilization, 'f', -1, 64) + "%"
	return summary
}

// Heading is the title line shown above the selectors.
type Heading struct {
	Semester     string
	ClassCount   int
	FacultyCount int
	Line         string
}

// Describe builds the heading for tt.
func Describe(tt *models.Timetable) Heading {
	h := Heading{Semester: defaultSemesterLabel}
	if tt != nil {
		if tt.Semester != "" {
			h.Semester = tt.Semester
		}
		h.ClassCount = len(tt.Classes)
		h.FacultyCount = len(tt.Faculty)
	}
	h.Line = fmt.Sprintf("%s Semester • %d Classes • %d Faculty", h.Semester, h.ClassCount, h.FacultyCount)
	return h
}

// Option is one entry of the entity selector.
type Option struct {
	ID    string
	Label string
}

// Options lists the selectable entities of a view type in payload order.
func Options(vt models.ViewType, tt *models.Timetable) []Option {
	if tt == nil {
		return nil
	}
	var opts []Option
	switch vt {
	case models.ViewTypeClasses:
		opts = make([]Option, 0, len(tt.Classes))
		for _, c := range tt.Classes {
			opts = append(opts, Option{ID: c.ID, Label: fmt.Sprintf("%s - %s", c.Name, c.Batch)})
		}
	case models.ViewTypeFaculty:
		opts = make([]Option, 0, len(tt.Faculty))
		for _, f := range tt.Faculty {
			opts = append(opts, Option{ID: f.ID, Label: f.Name})
		}
	}
	return opts
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
