package models

// Platform is the closed set of networks a SocialLink may point to.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformFacebook  Platform = "facebook"
	PlatformX         Platform = "x"
	PlatformTelegram  Platform = "telegram"
	PlatformWhatsApp  Platform = "whatsapp"
	PlatformDiscord   Platform = "discord"
	PlatformSpotify   Platform = "spotify"
	PlatformGitHub    Platform = "github"
	PlatformWebsite   Platform = "website"
)

// Platforms lists every accepted platform in editor display order.
var Platforms = []Platform{
	PlatformInstagram, PlatformYouTube, PlatformFacebook, PlatformX, PlatformTelegram,
	PlatformWhatsApp, PlatformDiscord, PlatformSpotify, PlatformGitHub, PlatformWebsite,
}

// SocialLink is one entry of a profile's ordered link list. ID is assigned by
// the editor and is only unique within its profile.
type SocialLink struct {
	ID       string   `json:"id" validate:"required"`
	Platform Platform `json:"platform" validate:"required,oneof=instagram youtube facebook x telegram whatsapp discord spotify github website"`
	URL      string   `json:"url" validate:"required,url"`
	Label    string   `json:"label,omitempty"`
}
