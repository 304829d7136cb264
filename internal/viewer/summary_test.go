package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-timetable-viewer/internal/models"
)

func TestSummarizeWithoutStats(t *testing.T) {
	summary := Summarize(exampleTimetable())
	assert.Equal(t, Summary{RoomUtilizationLabel: "0%"}, summary)

	assert.Equal(t, Summary{RoomUtilizationLabel: "0%"}, Summarize(nil))
}

func TestSummarizePartialStats(t *testing.T) {
	tt := exampleTimetable()
	tt.Stats = &models.TimetableStats{TotalClasses: intPtr(12), RoomUtilization: floatPtr(87.5)}

	summary := Summarize(tt)
	assert.Equal(t, 12, summary.TotalClasses)
	assert.Equal(t, 0, summary.TotalSubjects)
	assert.Equal(t, 0, summary.TotalFaculty)
	assert.Equal(t, "87.5%", summary.RoomUtilizationLabel)
}

func TestSummarizeIgnoresSelection(t *testing.T) {
	tt := exampleTimetable()
	tt.Stats = &models.TimetableStats{TotalFaculty: intPtr(2)}
	before := Summarize(tt)

	tt.Classes = nil
	assert.Equal(t, before, Summarize(tt))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Fall 2024 Semester • 1 Classes • 2 Faculty", Describe(exampleTimetable()).Line)
	assert.Equal(t, "Academic Semester • 0 Classes • 0 Faculty", Describe(&models.Timetable{}).Line)
}

func TestOptions(t *testing.T) {
	tt := exampleTimetable()
	assert.Equal(t, []Option{{ID: "c1", Label: "CS101 - A"}}, Options(models.ViewTypeClasses, tt))
	assert.Equal(t, []Option{{ID: "f1", Label: "Dr.X"}, {ID: "f2", Label: "Dr.Y"}}, Options(models.ViewTypeFaculty, tt))
	assert.Nil(t, Options(models.ViewTypeFaculty, nil))
}
