package models

import "time"

// ViewType selects whose timetable is displayed.
type ViewType string

const (
	ViewTypeClasses ViewType = "classes"
	ViewTypeFaculty ViewType = "faculty"
)

// ViewSession is the server side state of one opened timetable view. It lives
// until the caller closes it or the session TTL expires.
type ViewSession struct {
	ID          string     `json:"id"`
	TimetableID string     `json:"timetable_id,omitempty"`
	Timetable   *Timetable `json:"timetable"`
	ViewType    ViewType   `json:"view_type"`
	SelectedID  string     `json:"selected_id"`
	BackURL     string     `json:"back_url,omitempty"`
	OpenedBy    string     `json:"opened_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
