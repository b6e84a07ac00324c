package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuschat/internal/blob"
)

type UploadHandler struct {
	media *blob.MediaStorage
}

func NewUploadHandler(media *blob.MediaStorage) *UploadHandler {
	return &UploadHandler{media: media}
}

// Upload stores an attachment in the blob store and returns the reference
// the client embeds in its message metadata.
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	stored, err := h.media.Upload(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename":  stored.Filename,
		"stored_as": stored.ID,
		"url":       "/api/uploads/" + stored.ID,
		"mime":      stored.MimeType,
		"size":      stored.Size,
	})
}

func (h *UploadHandler) Download(c *gin.Context) {
	stream, file, err := h.media.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	defer stream.Close()

	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, file.Size, contentType, stream, map[string]string{
		"Content-Disposition": `inline; filename="` + file.Filename + `"`,
	})
}
