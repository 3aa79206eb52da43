package models

import (
	"time"

	"gorm.io/datatypes"
)

// Theme defaults applied to a new profile when the caller leaves them blank.
const (
	DefaultPrimaryColor = "#7c3aed"
	DefaultAccentColor  = "#c084fc"
	DefaultFontFamily   = "Inter"
)

type Profile struct {
	ID           string                          `gorm:"primaryKey;size:36" json:"id"`
	UserID       *string                         `gorm:"uniqueIndex;size:64" json:"userId"`
	Username     string                          `gorm:"uniqueIndex;not null;size:64" json:"username"`
	Name         string                          `gorm:"not null;type:text" json:"name"`
	Tagline      string                          `gorm:"type:text" json:"tagline"`
	About        string                          `gorm:"type:text" json:"about"`
	AvatarURL    *string                         `gorm:"type:text" json:"avatarUrl"`
	BannerURL    *string                         `gorm:"type:text" json:"bannerUrl"`
	MusicURL     *string                         `gorm:"type:text" json:"musicUrl"`
	PrimaryColor string                          `gorm:"size:7" json:"primaryColor"`
	AccentColor  string                          `gorm:"size:7" json:"accentColor"`
	GradientFrom string                          `gorm:"size:7" json:"gradientFrom"`
	GradientTo   string                          `gorm:"size:7" json:"gradientTo"`
	UseGradient  StringBool                      `gorm:"not null" json:"useGradient"`
	FontFamily   string                          `gorm:"size:64" json:"fontFamily"`
	Links        datatypes.JSONSlice[SocialLink] `json:"links"`
	IsPrivate    bool                            `gorm:"not null;default:false" json:"isPrivate"`
	IsPublished  StringBool                      `gorm:"not null;default:false" json:"isPublished"`
	ShareSlug    *string                         `gorm:"uniqueIndex;size:80" json:"shareSlug"`
	CreatedAt    time.Time                       `json:"createdAt"`
	UpdatedAt    time.Time                       `json:"updatedAt"`
}

func (Profile) TableName() string {
	return "profiles"
}
