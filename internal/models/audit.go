package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog captures session and submission events for the activity trail.
type AuditLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ActorID   string            `gorm:"size:64;not null" json:"actor_id"`
	Action    string            `gorm:"size:64;not null" json:"action"`
	EntityID  *string           `gorm:"size:64" json:"entity_id"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}
