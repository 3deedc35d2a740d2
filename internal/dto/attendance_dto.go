package dto

import "github.com/noah-isme/presensi-go-api/internal/models"

// SelectTypeRequest chooses the activity type for the in-progress draft.
type SelectTypeRequest struct {
	Type models.ActivityType `json:"type" validate:"required"`
}

// AttachLocationRequest carries device-provided coordinates.
type AttachLocationRequest struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lng *float64 `json:"lng" validate:"required"`
}

// SetDescriptionRequest replaces the draft description with hand-written text.
type SetDescriptionRequest struct {
	Description string `json:"description" validate:"required"`
}

// DraftResponse is the current state of a user's in-progress draft.
type DraftResponse struct {
	State       string              `json:"state"`
	Type        models.ActivityType `json:"type,omitempty"`
	Description string              `json:"description,omitempty"`
	Notes       string              `json:"notes,omitempty"`
	Location    *models.Coordinates `json:"location,omitempty"`
	PhotoURL    string              `json:"photo_url,omitempty"`
	AIGenerated bool                `json:"ai_generated_summary"`
}

// RecordListResponse is the newest-first history feed.
type RecordListResponse struct {
	Records []models.AttendanceRecord `json:"records"`
	Total   int                       `json:"total"`
}

// SummaryResponse aggregates the dashboard stat cards.
type SummaryResponse struct {
	Total          int64            `json:"total"`
	CheckedInToday bool             `json:"checked_in_today"`
	ByType         map[string]int64 `json:"by_type"`
}
