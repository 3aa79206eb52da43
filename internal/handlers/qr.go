package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"biolink/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	minQRSize = 128
	maxQRSize = 1024
)

// ProfileQRCode handles GET /api/profiles/:username/qr
//
// Query: format=svg|png, size=<px>, logo=avatar
func (h *Handler) ProfileQRCode(c *gin.Context) {
	profile, err := h.lookupByUsername(c, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !publiclyVisible(profile) {
		notFound(c, "profile is not published")
		return
	}

	opts := services.QROptions{
		Content: h.shareURL(*profile.ShareSlug),
		Size:    256,
		FgColor: profile.PrimaryColor,
		BgColor: "#ffffff",
	}
	if raw := c.Query("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "size must be an integer")
			return
		}
		opts.Size = min(max(size, minQRSize), maxQRSize)
	}

	if c.Query("format") == "svg" {
		svg, err := h.qrService.GenerateQRCodeSVG(opts)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
		return
	}

	if c.Query("logo") == "avatar" && profile.AvatarURL != nil {
		logo, err := h.qrService.DecodeLogo(*profile.AvatarURL)
		if err != nil {
			h.logger.Debug("Avatar not usable as QR logo", "username", profile.Username, "error", err)
		} else {
			opts.Logo = logo
		}
	}

	png, err := h.qrService.GenerateQRCode(opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) shareURL(slug string) string {
	return strings.TrimRight(h.cfg.PublicBaseURL, "/") + "/share/" + slug
}
