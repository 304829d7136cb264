package viewer

import "github.com/noah-isme/sma-timetable-viewer/internal/models"

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

// exampleTimetable is the two day, two slot timetable with one class and two
// faculty members used across the package tests.
func exampleTimetable() *models.Timetable {
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
		},
		Faculty: []models.Faculty{
			{
				ID:   "f1",
				Name: "Dr.X",
				Schedule: models.Schedule{
					"Mon": {{Subject: "DS", Class: "CS101", Batch: "A", Room: "101", Type: "Lecture"}},
				},
			},
			{ID: "f2", Name: "Dr.Y"},
		},
	}
}
