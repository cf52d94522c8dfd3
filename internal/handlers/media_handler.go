package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/lineup-api/internal/logger"
	"github.com/gravadigital/lineup-api/internal/media"
	"github.com/gravadigital/lineup-api/internal/response"
)

// maxImageSize caps uploads at 10MB
const maxImageSize = 10 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type MediaHandler struct {
	storage *media.Storage
	log     *log.Logger
}

func NewMediaHandler(storage *media.Storage) *MediaHandler {
	return &MediaHandler{
		storage: storage,
		log:     logger.Handler("media"),
	}
}

// UploadImage handles POST /api/media/images. The multipart field is
// "file"; an optional "folder" field groups images by purpose.
func (h *MediaHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequestError(c, "No file provided")
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		response.BadRequestError(c, "File size exceeds 10MB limit")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		response.BadRequestError(c, "File type not allowed, expected JPEG, PNG, GIF or WEBP")
		return
	}

	folder := c.PostForm("folder")
	if folder == "" {
		folder = "uploads"
	}

	url, err := h.storage.UploadImage(c.Request.Context(), folder, header.Filename, file, header.Size, contentType)
	if err != nil {
		h.log.Error("image upload failed", "error", err)
		response.InternalServerError(c, "Failed to upload image")
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Image uploaded", gin.H{"url": url})
}
