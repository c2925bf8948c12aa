package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ronnysenna/envio-massa-sub000/internal/api"
	"github.com/ronnysenna/envio-massa-sub000/internal/auth"
	"github.com/ronnysenna/envio-massa-sub000/internal/db"
	"github.com/ronnysenna/envio-massa-sub000/internal/logger"
	"github.com/ronnysenna/envio-massa-sub000/internal/repository"
	"github.com/ronnysenna/envio-massa-sub000/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Accepted campaign image content types
var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// ImageHandler handles campaign image uploads
type ImageHandler struct {
	images     *repository.ImageRepository
	store      storage.Storage
	maxSize    int64
	publicPath string
}

// NewImageHandler creates a new image handler. maxSizeMB bounds uploads.
func NewImageHandler(images *repository.ImageRepository, store storage.Storage, maxSizeMB int64, publicPath string) *ImageHandler {
	return &ImageHandler{
		images:     images,
		store:      store,
		maxSize:    maxSizeMB * 1024 * 1024,
		publicPath: strings.TrimSuffix(publicPath, "/"),
	}
}

// ImageResponse is the metadata view plus the public URL to serve the file
type ImageResponse struct {
	repository.Image
	URL string `json:"url"`
}

func (h *ImageHandler) toResponse(image repository.Image) ImageResponse {
	return ImageResponse{
		Image: image,
		URL:   h.publicPath + "/" + image.StoredName,
	}
}

// Upload stores an image file and records its metadata
func (h *ImageHandler) Upload(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		api.SendValidationError(c, "Missing file", "A multipart field named 'file' is required")
		return
	}

	if fileHeader.Size > h.maxSize {
		api.SendValidationError(c, "File too large", "Image exceeds the upload size limit")
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if _, ok := allowedImageTypes[mimeType]; !ok {
		api.SendValidationError(c, "Unsupported file type", "Only JPEG, PNG, GIF and WebP images are accepted")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		api.SendValidationError(c, "Invalid file", err.Error())
		return
	}
	defer f.Close()

	storedName, size, err := h.store.Save(fileHeader.Filename, f)
	if err != nil {
		api.SendInternalError(c, "Failed to store image")
		return
	}

	image, err := h.images.Create(c.Request.Context(), ownerID, fileHeader.Filename, storedName, mimeType, size)
	if err != nil {
		if removeErr := h.store.Remove(storedName); removeErr != nil {
			logger.Warn().Err(removeErr).Str("stored_name", storedName).Msg("failed to clean up orphaned upload")
		}
		api.SendInternalError(c, "Failed to record image")
		return
	}

	api.SendSuccess(c, http.StatusCreated, h.toResponse(*image), nil)
}

// List retrieves the user's images, newest first
func (h *ImageHandler) List(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	images, err := h.images.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		api.SendInternalError(c, "Failed to list images")
		return
	}

	responses := make([]ImageResponse, 0, len(images))
	for _, image := range images {
		responses = append(responses, h.toResponse(image))
	}

	api.SendSuccess(c, http.StatusOK, responses, nil)
}

// Delete removes an image's metadata and its stored file
func (h *ImageHandler) Delete(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid image ID", "ID must be a valid UUID")
		return
	}

	image, err := h.images.GetByID(c.Request.Context(), id, ownerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Image")
			return
		}
		api.SendInternalError(c, "Failed to delete image")
		return
	}

	if err := h.images.Delete(c.Request.Context(), id, ownerID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Image")
			return
		}
		api.SendInternalError(c, "Failed to delete image")
		return
	}

	if err := h.store.Remove(image.StoredName); err != nil {
		logger.Warn().Err(err).Str("stored_name", image.StoredName).Msg("failed to remove stored file")
	}

	c.Status(http.StatusNoContent)
}
