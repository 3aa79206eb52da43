package models

import (
	"time"
)

// ProfileView is one public visit to a published profile's share page.
type ProfileView struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProfileID  string    `gorm:"not null;index;size:36" json:"profile_id"`
	Timestamp  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"timestamp"`
	IPAddress  string    `gorm:"size:45" json:"ip_address,omitempty"`
	Country    string    `gorm:"size:100;default:'Unknown'" json:"country"`
	City       string    `gorm:"size:100" json:"city"`
	Region     string    `gorm:"size:100" json:"region"`
	Browser    string    `gorm:"size:50" json:"browser"`
	OS         string    `gorm:"size:100" json:"os"`
	DeviceType string    `gorm:"size:50" json:"device_type"`
	UserAgent  string    `gorm:"size:255" json:"-"` // Raw, parsed by the stats worker
	Referrer   string    `gorm:"size:255;default:'Direct'" json:"referrer"`
}
