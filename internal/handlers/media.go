package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadMedia handles POST /api/media. The multipart "file" part comes back
// as a data URI ready for avatarUrl, bannerUrl or musicUrl.
func (h *Handler) UploadMedia(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	dataURI, err := h.mediaEncoder.Encode(file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dataUri": dataURI})
}
