package dto

import "time"

// ExportRequest asks for a downloadable rendering of a view.
type ExportRequest struct {
	Format string `json:"format" validate:"omitempty,oneof=csv xlsx pdf"`
	Scope  string `json:"scope" validate:"omitempty,oneof=all current"`
}

// ExportResponse describes a stored export.
type ExportResponse struct {
	ExportID  string    `json:"exportId"`
	Format    string    `json:"format"`
	Scope     string    `json:"scope"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
