package models

import "time"

// ActivityType is the closed set of attendance activities.
type ActivityType string

const (
	TypeCheckIn     ActivityType = "CHECK_IN"
	TypeCheckOut    ActivityType = "CHECK_OUT"
	TypeDailyReport ActivityType = "DAILY_REPORT"
	TypeExtra       ActivityType = "EXTRA"
)

// Valid reports whether the value is a member of the enum.
func (t ActivityType) Valid() bool {
	switch t {
	case TypeCheckIn, TypeCheckOut, TypeDailyReport, TypeExtra:
		return true
	}
	return false
}

// RequiresDescription reports whether records of this type must carry a
// non-empty description.
func (t ActivityType) RequiresDescription() bool {
	return t == TypeDailyReport
}

// Coordinates is an optional geolocation attachment. Once attached to a
// record it is immutable.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// AttendanceRecord is a single check-in, check-out, daily report or extra
// activity entry. Records are immutable after creation; the store only ever
// appends.
type AttendanceRecord struct {
	ID          string       `gorm:"primaryKey;size:64" json:"id"`
	UserID      string       `gorm:"size:64;index;not null" json:"user_id"`
	Type        ActivityType `gorm:"size:32;not null" json:"type"`
	Timestamp   int64        `gorm:"not null" json:"timestamp"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	Location    *Coordinates `gorm:"embedded;embeddedPrefix:loc_" json:"location,omitempty"`
	PhotoURL    string       `gorm:"size:512" json:"photo_url,omitempty"`
	AIGenerated bool         `gorm:"not null;default:false" json:"ai_generated_summary"`
	CreatedAt   time.Time    `json:"created_at"`
}

// RecordedAt converts the millisecond timestamp back to wall-clock time.
func (r AttendanceRecord) RecordedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}
