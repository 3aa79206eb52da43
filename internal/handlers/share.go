package handlers

import (
	"net/http"
	"time"

	"biolink/internal/models"

	"github.com/gin-gonic/gin"
)

// publiclyVisible reports whether a profile may be served on its share URL.
func publiclyVisible(p *models.Profile) bool {
	return p != nil && bool(p.IsPublished) && p.ShareSlug != nil && !p.IsPrivate
}

// GetSharedProfile handles GET /api/share/:slug
func (h *Handler) GetSharedProfile(c *gin.Context) {
	profile, err := h.lookupBySlug(c, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !publiclyVisible(profile) {
		notFound(c, "profile not found")
		return
	}

	if h.statsService != nil {
		h.statsService.RecordViewAsync(models.ProfileView{
			ProfileID: profile.ID,
			Timestamp: time.Now(),
			IPAddress: c.ClientIP(),
			Referrer:  c.Request.Referer(),
			UserAgent: c.Request.UserAgent(),
		})
	}

	c.JSON(http.StatusOK, profile)
}

// ShareStats handles GET /api/share/:slug/stats
func (h *Handler) ShareStats(c *gin.Context) {
	profile, err := h.profileService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !publiclyVisible(profile) {
		notFound(c, "profile not found")
		return
	}

	stats, err := h.statsService.Summary(c.Request.Context(), profile.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shareSlug": *profile.ShareSlug,
		"stats":     stats,
	})
}
