package handlers

import (
	"net/http"

	"biolink/internal/middleware"
	"biolink/internal/models"
	"biolink/internal/services"

	"github.com/gin-gonic/gin"
)

// profileFields is the editable part of a profile on the wire. isPublished
// and shareSlug are not accepted; they only change through publish.
type profileFields struct {
	UserID       *string             `json:"userId"`
	Tagline      *string             `json:"tagline"`
	About        *string             `json:"about"`
	AvatarURL    *string             `json:"avatarUrl"`
	BannerURL    *string             `json:"bannerUrl"`
	MusicURL     *string             `json:"musicUrl"`
	PrimaryColor *string             `json:"primaryColor"`
	AccentColor  *string             `json:"accentColor"`
	GradientFrom *string             `json:"gradientFrom"`
	GradientTo   *string             `json:"gradientTo"`
	UseGradient  *models.StringBool  `json:"useGradient"`
	FontFamily   *string             `json:"fontFamily"`
	Links        []models.SocialLink `json:"links"`
	IsPrivate    *bool               `json:"isPrivate"`
}

type CreateProfileRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	profileFields
}

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Name     *string `json:"name"`
	profileFields
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (f profileFields) useGradient() *bool {
	if f.UseGradient == nil {
		return nil
	}
	v := bool(*f.UseGradient)
	return &v
}

// CreateProfile handles POST /api/profiles
func (h *Handler) CreateProfile(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	userID := req.UserID
	if userID == nil {
		if id, ok := middleware.UserIDFromContext(c); ok {
			userID = &id
		}
	}

	dto := services.CreateProfileDTO{
		UserID:       userID,
		Username:     req.Username,
		Name:         req.Name,
		Tagline:      deref(req.Tagline),
		About:        deref(req.About),
		AvatarURL:    req.AvatarURL,
		BannerURL:    req.BannerURL,
		MusicURL:     req.MusicURL,
		PrimaryColor: deref(req.PrimaryColor),
		AccentColor:  deref(req.AccentColor),
		GradientFrom: deref(req.GradientFrom),
		GradientTo:   deref(req.GradientTo),
		UseGradient:  req.useGradient(),
		FontFamily:   deref(req.FontFamily),
		Links:        req.Links,
		IsPrivate:    req.IsPrivate != nil && *req.IsPrivate,
		IPAddress:    c.ClientIP(),
	}

	profile, err := h.profileService.Create(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// UpdateProfile handles PATCH /api/profiles/:id
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	dto := services.UpdateProfileDTO{
		UserID:       req.UserID,
		Username:     req.Username,
		Name:         req.Name,
		Tagline:      req.Tagline,
		About:        req.About,
		AvatarURL:    req.AvatarURL,
		BannerURL:    req.BannerURL,
		MusicURL:     req.MusicURL,
		PrimaryColor: req.PrimaryColor,
		AccentColor:  req.AccentColor,
		GradientFrom: req.GradientFrom,
		GradientTo:   req.GradientTo,
		UseGradient:  req.useGradient(),
		FontFamily:   req.FontFamily,
		Links:        req.Links,
		IsPrivate:    req.IsPrivate,
		IPAddress:    c.ClientIP(),
	}

	profile, err := h.profileService.Update(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// PublishProfile handles POST /api/profiles/:id/publish
func (h *Handler) PublishProfile(c *gin.Context) {
	profile, err := h.profileService.Publish(c.Request.Context(), c.Param("id"), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetProfile handles GET /api/profiles/:username
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.lookupByUsername(c, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	if profile == nil {
		notFound(c, "profile not found")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetMyProfile handles GET /api/my-profile
func (h *Handler) GetMyProfile(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		apiError(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	profile, err := h.profileService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if profile == nil {
		notFound(c, "profile not found")
		return
	}
	c.JSON(http.StatusOK, profile)
}

const historyLimit = 50

// GetMyHistory handles GET /api/my-profile/history
func (h *Handler) GetMyHistory(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		apiError(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	profile, err := h.profileService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if profile == nil {
		notFound(c, "profile not found")
		return
	}

	entries, err := h.auditService.History(c.Request.Context(), profile.ID, historyLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// CheckUsername handles GET /api/check/username/:username
func (h *Handler) CheckUsername(c *gin.Context) {
	available, err := h.profileService.CheckUsernameAvailable(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"available": available,
		"username":  services.NormalizeUsername(c.Param("username")),
	})
}

// CheckSlug handles GET /api/check/slug/:slug
func (h *Handler) CheckSlug(c *gin.Context) {
	available, err := h.profileService.CheckSlugAvailable(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (h *Handler) lookupByUsername(c *gin.Context, username string) (*models.Profile, error) {
	ctx := c.Request.Context()
	if cached, ok := h.profileCache.GetByUsername(ctx, username); ok {
		return cached, nil
	}
	profile, err := h.profileService.GetByUsername(ctx, username)
	if err != nil || profile == nil {
		return profile, err
	}
	h.profileCache.Store(ctx, profile)
	return profile, nil
}

func (h *Handler) lookupBySlug(c *gin.Context, slug string) (*models.Profile, error) {
	ctx := c.Request.Context()
	if cached, ok := h.profileCache.GetBySlug(ctx, slug); ok {
		return cached, nil
	}
	profile, err := h.profileService.GetBySlug(ctx, slug)
	if err != nil || profile == nil {
		return profile, err
	}
	h.profileCache.Store(ctx, profile)
	return profile, nil
}
