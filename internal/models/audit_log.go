package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records one mutation of a profile.
type AuditLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ProfileID string            `gorm:"index;size:36;not null" json:"profile_id"`
	UserID    *string           `gorm:"index;size:64" json:"user_id,omitempty"`
	Action    string            `gorm:"size:50;not null" json:"action"`
	Details   datatypes.JSONMap `json:"details,omitempty"`
	IPAddress string            `gorm:"size:45" json:"ip_address,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
