package image

import (
	"errors"
	"io"

	"github.com/easy-read/core/internal/middleware"
	"github.com/easy-read/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/images", authMW, h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "an image file is required")
		return
	}
	if file.Size > h.svc.cfg.Upload.MaxBytes {
		response.PayloadTooLarge(c, "Image exceeds the upload size limit.")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()

	// Read one byte past the cap so undersized Content-Length headers
	// cannot smuggle an oversized body.
	payload, err := io.ReadAll(io.LimitReader(f, h.svc.cfg.Upload.MaxBytes+1))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	img, err := h.svc.Upload(c.Request.Context(), middleware.CurrentUserID(c), file.Filename, payload)
	if err != nil {
		switch {
		case errors.Is(err, ErrTooLarge):
			response.PayloadTooLarge(c, "Image exceeds the upload size limit.")
		case errors.Is(err, ErrUnsupportedFormat):
			response.BadRequest(c, "Only jpg, png, and gif images are supported.")
		case errors.Is(err, ErrExtensionMismatch):
			response.BadRequest(c, "The file's extension does not match its content.")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, gin.H{"image_id": img.ID, "src": img.Src})
}
