package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"

	"biolink/internal/models"
	"biolink/pkg/colorutil"
	"biolink/pkg/utils"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// SlugSuffixLength is the number of random characters appended to a share slug.
	SlugSuffixLength = 6
	// MaxSlugAttempts bounds how many suffixes Publish draws before giving up.
	MaxSlugAttempts = 5
	// AboutSoftLimit is advisory only; longer text is stored unchanged.
	AboutSoftLimit = 1000
	// MaxIdentifierLength matches the VARCHAR(64) columns for username, user_id and font_family.
	MaxIdentifierLength = 64
)

type CreateProfileDTO struct {
	UserID       *string
	Username     string
	Name         string
	Tagline      string
	About        string
	AvatarURL    *string
	BannerURL    *string
	MusicURL     *string
	PrimaryColor string
	AccentColor  string
	GradientFrom string
	GradientTo   string
	UseGradient  *bool
	FontFamily   string
	Links        []models.SocialLink
	IsPrivate    bool
	IPAddress    string // For Audit Log
}

// UpdateProfileDTO carries a partial update: nil fields are left untouched.
// An empty string clears AvatarURL, BannerURL, MusicURL or UserID.
type UpdateProfileDTO struct {
	UserID       *string
	Username     *string
	Name         *string
	Tagline      *string
	About        *string
	AvatarURL    *string
	BannerURL    *string
	MusicURL     *string
	PrimaryColor *string
	AccentColor  *string
	GradientFrom *string
	GradientTo   *string
	UseGradient  *bool
	FontFamily   *string
	Links        []models.SocialLink
	IsPrivate    *bool
	IPAddress    string // For Audit Log
}

// CacheInvalidator is notified with every profile snapshot a write makes stale.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, profile *models.Profile)
}

type ProfileService struct {
	db              *gorm.DB
	auditService    *AuditService
	logger          *slog.Logger
	validate        *validator.Validate
	invalidators    []CacheInvalidator
	suffixGenerator func(int) string
	idGenerator     func() string
}

func NewProfileService(db *gorm.DB, auditService *AuditService, logger *slog.Logger) *ProfileService {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &ProfileService{
		db:              db,
		auditService:    auditService,
		logger:          logger,
		validate:        v,
		suffixGenerator: utils.GenerateSlugSuffix,
		idGenerator:     utils.GenerateID,
	}
}

// AddInvalidator registers a cache to be cleared after successful writes.
func (s *ProfileService) AddInvalidator(inv CacheInvalidator) {
	s.invalidators = append(s.invalidators, inv)
}

// NormalizeUsername lowercases s and drops every character outside [a-z0-9_].
func NormalizeUsername(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// slugBase keeps only [a-z0-9] of the normalized username.
func slugBase(username string) string {
	base := strings.ReplaceAll(NormalizeUsername(username), "_", "")
	if base == "" {
		return "profile"
	}
	return base
}

func (s *ProfileService) Create(ctx context.Context, dto CreateProfileDTO) (*models.Profile, error) {
	// 1. Normalize and validate identity
	username := NormalizeUsername(dto.Username)
	if username == "" {
		return nil, &ValidationError{Field: "username", Message: "is required"}
	}
	if err := checkLength("username", username); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "is required"}
	}
	if err := s.validateLinks(dto.Links); err != nil {
		return nil, err
	}

	profile := models.Profile{
		ID:          s.idGenerator(),
		UserID:      emptyToNil(dto.UserID),
		Username:    username,
		Name:        name,
		Tagline:     dto.Tagline,
		About:       dto.About,
		AvatarURL:   emptyToNil(dto.AvatarURL),
		BannerURL:   emptyToNil(dto.BannerURL),
		MusicURL:    emptyToNil(dto.MusicURL),
		UseGradient: true,
		FontFamily:  strings.TrimSpace(dto.FontFamily),
		Links:       datatypes.JSONSlice[models.SocialLink]{},
		IsPrivate:   dto.IsPrivate,
		IsPublished: false,
	}
	if dto.UseGradient != nil {
		profile.UseGradient = models.StringBool(*dto.UseGradient)
	}
	if profile.FontFamily == "" {
		profile.FontFamily = models.DefaultFontFamily
	}
	if err := checkLength("fontFamily", profile.FontFamily); err != nil {
		return nil, err
	}
	if profile.UserID != nil {
		if err := checkLength("userId", *profile.UserID); err != nil {
			return nil, err
		}
	}
	if len(dto.Links) > 0 {
		profile.Links = append(profile.Links, dto.Links...)
	}

	// 2. Theme colors
	colors := []struct {
		field, value, fallback string
		dst                    *string
	}{
		{"primaryColor", dto.PrimaryColor, models.DefaultPrimaryColor, &profile.PrimaryColor},
		{"accentColor", dto.AccentColor, models.DefaultAccentColor, &profile.AccentColor},
		{"gradientFrom", dto.GradientFrom, models.DefaultPrimaryColor, &profile.GradientFrom},
		{"gradientTo", dto.GradientTo, models.DefaultAccentColor, &profile.GradientTo},
	}
	for _, c := range colors {
		if c.value == "" {
			*c.dst = c.fallback
			continue
		}
		hex, err := normalizeColor(c.field, c.value)
		if err != nil {
			return nil, err
		}
		*c.dst = hex
	}

	if len(profile.About) > AboutSoftLimit {
		s.logger.Debug("About text exceeds soft limit", "username", username, "length", len(profile.About))
	}

	// 3. Friendly pre-check; the unique index below is what enforces it
	if existing, err := s.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, &ConflictError{Field: "username", Value: username}
	}

	// 4. Insert
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, s.conflictFor(ctx, &profile)
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.invalidate(ctx, &profile)
	s.auditService.LogAction(profile.UserID, ActionProfileCreate, profile.ID, map[string]interface{}{
		"username": profile.Username,
	}, dto.IPAddress)

	return &profile, nil
}

func (s *ProfileService) Update(ctx context.Context, id string, dto UpdateProfileDTO) (*models.Profile, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	renamed := false

	if dto.Username != nil {
		username := NormalizeUsername(*dto.Username)
		if username == "" {
			return nil, &ValidationError{Field: "username", Message: "is required"}
		}
		if err := checkLength("username", username); err != nil {
			return nil, err
		}
		if username != existing.Username {
			var count int64
			err := s.db.WithContext(ctx).Model(&models.Profile{}).
				Where("LOWER(username) = ? AND id <> ?", username, id).
				Count(&count).Error
			if err != nil {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			if count > 0 {
				return nil, &ConflictError{Field: "username", Value: username}
			}
			updates["username"] = username
			renamed = true
		}
	}
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, &ValidationError{Field: "name", Message: "is required"}
		}
		updates["name"] = name
	}
	if dto.UserID != nil {
		if err := checkLength("userId", *dto.UserID); err != nil {
			return nil, err
		}
		updates["user_id"] = nullable(dto.UserID)
	}
	if dto.Tagline != nil {
		updates["tagline"] = *dto.Tagline
	}
	if dto.About != nil {
		updates["about"] = *dto.About
	}
	if dto.AvatarURL != nil {
		updates["avatar_url"] = nullable(dto.AvatarURL)
	}
	if dto.BannerURL != nil {
		updates["banner_url"] = nullable(dto.BannerURL)
	}
	if dto.MusicURL != nil {
		updates["music_url"] = nullable(dto.MusicURL)
	}

	colors := []struct {
		field, column string
		value         *string
	}{
		{"primaryColor", "primary_color", dto.PrimaryColor},
		{"accentColor", "accent_color", dto.AccentColor},
		{"gradientFrom", "gradient_from", dto.GradientFrom},
		{"gradientTo", "gradient_to", dto.GradientTo},
	}
	for _, c := range colors {
		if c.value == nil {
			continue
		}
		hex, err := normalizeColor(c.field, *c.value)
		if err != nil {
			return nil, err
		}
		updates[c.column] = hex
	}

	if dto.UseGradient != nil {
		updates["use_gradient"] = models.StringBool(*dto.UseGradient)
	}
	if dto.FontFamily != nil {
		font := strings.TrimSpace(*dto.FontFamily)
		if font == "" {
			font = models.DefaultFontFamily
		}
		if err := checkLength("fontFamily", font); err != nil {
			return nil, err
		}
		updates["font_family"] = font
	}
	if dto.Links != nil {
		if err := s.validateLinks(dto.Links); err != nil {
			return nil, err
		}
		updates["links"] = datatypes.JSONSlice[models.SocialLink](dto.Links)
	}
	if dto.IsPrivate != nil {
		updates["is_private"] = *dto.IsPrivate
	}

	if len(updates) == 0 {
		return existing, nil
	}

	err = s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		if isDuplicateKey(err) {
			candidate := *existing
			if v, ok := updates["username"].(string); ok {
				candidate.Username = v
			}
			if v, ok := updates["user_id"].(string); ok {
				candidate.UserID = &v
			}
			return nil, s.conflictFor(ctx, &candidate)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, existing)
	s.invalidate(ctx, updated)

	action := ActionProfileUpdate
	details := map[string]interface{}{"fields": updatedFields(updates)}
	if renamed {
		action = ActionProfileRename
		details["from"] = existing.Username
		details["to"] = updated.Username
	}
	s.auditService.LogAction(updated.UserID, action, updated.ID, details, dto.IPAddress)

	return updated, nil
}

// Publish moves a profile to the published state. The share slug is minted
// once and reused by every later call.
func (s *ProfileService) Publish(ctx context.Context, id string, ip string) (*models.Profile, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.ShareSlug != nil {
		if !existing.IsPublished {
			err := s.db.WithContext(ctx).Model(&models.Profile{}).
				Where("id = ?", id).
				Update("is_published", models.StringBool(true)).Error
			if err != nil {
				return nil, fmt.Errorf("failed to publish profile: %w", err)
			}
		}
		return s.afterPublish(ctx, existing, ip)
	}

	base := slugBase(existing.Username)
	for attempt := 1; attempt <= MaxSlugAttempts; attempt++ {
		slug := base + "-" + s.suffixGenerator(SlugSuffixLength)

		// Guarded on share_slug IS NULL so a concurrent publish cannot
		// overwrite a slug that was already handed out.
		res := s.db.WithContext(ctx).Model(&models.Profile{}).
			Where("id = ? AND share_slug IS NULL", id).
			Updates(map[string]interface{}{
				"share_slug":   slug,
				"is_published": models.StringBool(true),
			})
		if res.Error != nil {
			if isDuplicateKey(res.Error) {
				s.logger.Debug("Share slug collision, retrying", "slug", slug, "attempt", attempt)
				continue
			}
			return nil, fmt.Errorf("failed to publish profile: %w", res.Error)
		}
		return s.afterPublish(ctx, existing, ip)
	}

	return nil, &ConflictError{Field: "shareSlug", Value: base}
}

func (s *ProfileService) afterPublish(ctx context.Context, before *models.Profile, ip string) (*models.Profile, error) {
	published, err := s.GetByID(ctx, before.ID)
	if err != nil {
		return nil, err
	}
	if published.ShareSlug == nil {
		return nil, fmt.Errorf("profile %s has no share slug after publish", before.ID)
	}

	s.invalidate(ctx, before)
	s.invalidate(ctx, published)
	s.auditService.LogAction(published.UserID, ActionProfilePublish, published.ID, map[string]interface{}{
		"share_slug": *published.ShareSlug,
	}, ip)

	return published, nil
}

func (s *ProfileService) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "profile", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// GetByUsername returns (nil, nil) when no profile matches.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.findOne(ctx, "LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username)))
}

// GetBySlug returns (nil, nil) when no profile matches.
func (s *ProfileService) GetBySlug(ctx context.Context, slug string) (*models.Profile, error) {
	return s.findOne(ctx, "LOWER(share_slug) = ?", strings.ToLower(strings.TrimSpace(slug)))
}

// GetByUserID returns (nil, nil) when no profile matches.
func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return s.findOne(ctx, "user_id = ?", userID)
}

func (s *ProfileService) CheckUsernameAvailable(ctx context.Context, username string) (bool, error) {
	normalized := NormalizeUsername(username)
	if normalized == "" {
		return false, &ValidationError{Field: "username", Message: "is required"}
	}
	existing, err := s.GetByUsername(ctx, normalized)
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}

func (s *ProfileService) CheckSlugAvailable(ctx context.Context, slug string) (bool, error) {
	existing, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}

func (s *ProfileService) findOne(ctx context.Context, query string, arg interface{}) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where(query, arg).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}
	return &profile, nil
}

// conflictFor works out which unique column a rejected write collided on.
func (s *ProfileService) conflictFor(ctx context.Context, p *models.Profile) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("LOWER(username) = ? AND id <> ?", p.Username, p.ID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to resolve conflicting column: %w", err)
	}
	if count > 0 || p.UserID == nil {
		return &ConflictError{Field: "username", Value: p.Username}
	}
	return &ConflictError{Field: "userId", Value: *p.UserID}
}

func (s *ProfileService) validateLinks(links []models.SocialLink) error {
	seen := make(map[string]struct{}, len(links))
	for i, link := range links {
		if err := s.validate.Struct(link); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				fe := verrs[0]
				return &ValidationError{
					Field:   fmt.Sprintf("links[%d].%s", i, fe.Field()),
					Message: describeFieldError(fe),
				}
			}
			return err
		}
		if _, dup := seen[link.ID]; dup {
			return &ValidationError{Field: fmt.Sprintf("links[%d].id", i), Message: "is duplicated"}
		}
		seen[link.ID] = struct{}{}
	}
	return nil
}

func (s *ProfileService) invalidate(ctx context.Context, p *models.Profile) {
	for _, inv := range s.invalidators {
		inv.Invalidate(ctx, p)
	}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

func normalizeColor(field, value string) (string, error) {
	c, ok := colorutil.ParseHex(strings.TrimSpace(value))
	if !ok {
		return "", &ValidationError{Field: field, Message: "must be a #RRGGBB hex color"}
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), nil
}

// checkLength counts characters, as VARCHAR does.
func checkLength(field, value string) error {
	if utf8.RuneCountInString(value) > MaxIdentifierLength {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", MaxIdentifierLength)}
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}

// nullable maps an empty string to SQL NULL for map-based updates.
func nullable(s *string) interface{} {
	if v := emptyToNil(s); v != nil {
		return *v
	}
	return nil
}

func updatedFields(updates map[string]interface{}) []string {
	fields := make([]string, 0, len(updates))
	for k := range updates {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}
