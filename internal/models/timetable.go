package models

import "time"

// Timetable is a generated timetable as handed over by the scheduler. It is
// read-only for the viewer.
type Timetable struct {
	Semester    string          `json:"semester"`
	WorkingDays []string        `json:"workingDays" validate:"dive,required"`
	TimeSlots   []TimeSlot      `json:"timeSlots" validate:"dive"`
	Classes     []Class         `json:"classes" validate:"unique=ID,dive"`
	Faculty     []Faculty       `json:"faculty" validate:"unique=ID,dive"`
	Stats       *TimetableStats `json:"stats,omitempty"`
}

// TimeSlot is one grid row. Start and End are display labels, not parsed times.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Schedule maps a day name to sessions indexed by time slot position. A nil
// entry, a missing day or a short slice all mean a free period.
type Schedule map[string][]*Session

// At returns the session for the day and slot index, or nil for a free period.
func (s Schedule) At(day string, slot int) *Session {
	sessions, ok := s[day]
	if !ok || slot < 0 || slot >= len(sessions) {
		return nil
	}
	return sessions[slot]
}

// Class is a class/batch timetable.
type Class struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name"`
	Batch    string   `json:"batch"`
	Schedule Schedule `json:"schedule"`
}

// Faculty is a faculty member's timetable.
type Faculty struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name"`
	Schedule Schedule `json:"schedule"`
}

// Session occupies one day/slot cell. Faculty is set on class schedules,
// Class and Batch on faculty schedules.
type Session struct {
	Subject string `json:"subject"`
	Type    string `json:"type"`
	Room    string `json:"room"`
	Faculty string `json:"faculty,omitempty"`
	Class   string `json:"class,omitempty"`
	Batch   string `json:"batch,omitempty"`
}

// TimetableStats are aggregate figures computed by the generator. Every field
// is optional.
type TimetableStats struct {
	TotalClasses    *int     `json:"totalClasses,omitempty"`
	TotalSubjects   *int     `json:"totalSubjects,omitempty"`
	TotalFaculty    *int     `json:"totalFaculty,omitempty"`
	RoomUtilization *float64 `json:"roomUtilization,omitempty"`
}

// StoredTimetable is a generated timetable row as persisted by the scheduler.
type StoredTimetable struct {
	ID        string    `db:"id" json:"id"`
	Semester  string    `db:"semester" json:"semester"`
	Payload   Timetable `db:"-" json:"payload"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// TimetableSummary lists a stored timetable without its payload.
type TimetableSummary struct {
	ID        string    `db:"id" json:"id"`
	Semester  string    `db:"semester" json:"semester"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
