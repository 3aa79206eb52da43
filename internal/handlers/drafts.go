package handlers

import (
	"errors"
	"net/http"

	"biolink/internal/services"

	"github.com/gin-gonic/gin"
)

// GetDraft handles GET /api/drafts/:key
func (h *Handler) GetDraft(c *gin.Context) {
	draft, err := h.draftCache.Load(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	if draft == nil {
		notFound(c, "no draft saved")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", draft)
}

// SaveDraft handles PUT /api/drafts/:key
func (h *Handler) SaveDraft(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, "could not read body")
		return
	}

	err = h.draftCache.Save(c.Request.Context(), c.Param("key"), body)
	if errors.Is(err, services.ErrDraftCacheDisabled) {
		apiError(c, http.StatusServiceUnavailable, "unavailable", err.Error())
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteDraft handles DELETE /api/drafts/:key
func (h *Handler) DeleteDraft(c *gin.Context) {
	if err := h.draftCache.Clear(c.Request.Context(), c.Param("key")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
