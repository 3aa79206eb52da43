package handlers

import (
	"errors"
	"net/http"

	"biolink/internal/middleware"
	"biolink/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	codeValidation = "validation"
	codeConflict   = "conflict"
	codeNotFound   = "not_found"
	codeInternal   = "internal"
)

func apiError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, gin.H{"error": msg, "code": code})
}

func badRequest(c *gin.Context, msg string) { apiError(c, http.StatusBadRequest, codeValidation, msg) }
func notFound(c *gin.Context, msg string)   { apiError(c, http.StatusNotFound, codeNotFound, msg) }

// respondError maps service errors onto status codes. Unknown errors are
// logged and reported without detail.
func respondError(c *gin.Context, err error) {
	var (
		validation *services.ValidationError
		conflict   *services.ConflictError
		missing    *services.NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		apiError(c, http.StatusBadRequest, codeValidation, validation.Error())
	case errors.As(err, &conflict):
		apiError(c, http.StatusConflict, codeConflict, conflict.Error())
	case errors.As(err, &missing):
		apiError(c, http.StatusNotFound, codeNotFound, missing.Error())
	default:
		middleware.LoggerFromContext(c).Error("Request failed", "error", err)
		apiError(c, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
