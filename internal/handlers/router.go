package handlers

import (
	"net/http"

	"biolink/internal/metrics"
	"biolink/internal/middleware"
	"biolink/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CorrelationIDMiddleware())
	r.Use(middleware.SlogLoggerMiddleware(h.logger))
	r.Use(metrics.GinMiddleware())
	r.Use(middleware.BodyLimitMiddleware(middleware.MaxBodySize))

	store := cookie.NewStore([]byte(h.cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   30 * 24 * 3600,
	})
	r.Use(sessions.Sessions("biolink_session", store))
	r.Use(middleware.IdentityMiddleware())

	// Routes
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	// Same handlers, mounted without the /api prefix as well.
	legacy := r.Group("/")
	if rateLimiter != nil {
		api.Use(middleware.RateLimitMiddleware(rateLimiter))
		legacy.Use(middleware.RateLimitMiddleware(rateLimiter))
	}

	for _, g := range []*gin.RouterGroup{api, legacy} {
		g.POST("/profiles", h.CreateProfile)
		g.GET("/profiles/:username", h.GetProfile)
		g.PATCH("/profiles/:id", h.UpdateProfile)
		g.POST("/profiles/:id/publish", h.PublishProfile)
		g.GET("/share/:slug", h.GetSharedProfile)
	}

	api.GET("/profiles/:username/qr", h.ProfileQRCode)
	api.GET("/share/:slug/stats", h.ShareStats)
	api.GET("/my-profile", h.GetMyProfile)
	api.GET("/my-profile/history", h.GetMyHistory)
	api.GET("/check/username/:username", h.CheckUsername)
	api.GET("/check/slug/:slug", h.CheckSlug)
	api.POST("/media", h.UploadMedia)
	api.GET("/drafts/:key", h.GetDraft)
	api.PUT("/drafts/:key", h.SaveDraft)
	api.DELETE("/drafts/:key", h.DeleteDraft)
	api.GET("/fonts", h.ListFonts)
	api.POST("/colors/hsl", h.HexToHSL)
	api.POST("/colors/hex", h.HSLToHex)

	return r
}
