package handlers

import (
	"net/http"

	"biolink/internal/services"
	"biolink/pkg/colorutil"

	"github.com/gin-gonic/gin"
)

type HexRequest struct {
	Hex string `json:"hex" binding:"required"`
}

type HSLRequest struct {
	H *float64 `json:"h" binding:"required"`
	S *float64 `json:"s" binding:"required"`
	L *float64 `json:"l" binding:"required"`
}

// HexToHSL handles POST /api/colors/hsl
func (h *Handler) HexToHSL(c *gin.Context) {
	var req HexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	hue, sat, light := colorutil.HexToHSL(req.Hex)
	c.JSON(http.StatusOK, gin.H{"h": hue, "s": sat, "l": light})
}

// HSLToHex handles POST /api/colors/hex
func (h *Handler) HSLToHex(c *gin.Context) {
	var req HSLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"hex": colorutil.HSLToHex(*req.H, *req.S, *req.L)})
}

// ListFonts handles GET /api/fonts
func (h *Handler) ListFonts(c *gin.Context) {
	c.JSON(http.StatusOK, services.Fonts)
}
