package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cuongbtq/vtryon/internal/api/dto"
	"github.com/cuongbtq/vtryon/internal/upload"
	"github.com/gin-gonic/gin"
)

const (
	uploadField          = "clothesPhoto"
	defaultMaxUploadSize = 5 << 20
	multipartOverhead    = 1 << 20
)

// UploadHandler stores garment photos
type UploadHandler struct {
	logger    *slog.Logger
	uploader  upload.Uploader
	forwarder Forwarder
	maxSize   int64
}

// NewUploadHandler creates a new UploadHandler instance
func NewUploadHandler(deps *Dependencies) *UploadHandler {
	maxSize := deps.MaxUploadSize
	if maxSize <= 0 {
		maxSize = defaultMaxUploadSize
	}
	return &UploadHandler{
		logger:    deps.Logger,
		uploader:  deps.Uploader,
		forwarder: deps.Forwarder,
		maxSize:   maxSize,
	}
}

// UploadClothes handles POST /api/v1/uploads/clothes
func (h *UploadHandler) UploadClothes(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+multipartOverhead)

	file, header, err := c.Request.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.tooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, dto.UploadResponse{Message: "No file uploaded."})
		return
	}
	defer file.Close()

	if header.Size > h.maxSize {
		h.tooLarge(c)
		return
	}

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		h.uploadFailed(c, fmt.Errorf("failed to read file: %w", err))
		return
	}
	if !strings.HasPrefix(http.DetectContentType(sniff[:n]), "image/") {
		c.JSON(http.StatusBadRequest, dto.UploadResponse{
			Message: "Error uploading file",
			Error:   "only image files are allowed",
		})
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		h.uploadFailed(c, fmt.Errorf("failed to rewind file: %w", err))
		return
	}

	if h.uploader == nil {
		h.uploadFailed(c, upload.ErrNotConfigured)
		return
	}

	imageURL, err := h.uploader.Upload(c.Request.Context(), file, header.Filename)
	if err != nil {
		h.uploadFailed(c, err)
		return
	}

	if h.forwarder != nil {
		h.forwarder.ForwardBestEffort(c.Request.Context(), imageURL)
	}

	c.JSON(http.StatusOK, dto.UploadResponse{
		Message:  "File uploaded successfully",
		ImageURL: imageURL,
	})
}

func (h *UploadHandler) tooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, dto.UploadResponse{
		Message: "Error uploading file",
		Error:   fmt.Sprintf("file exceeds the %d byte limit", h.maxSize),
	})
}

func (h *UploadHandler) uploadFailed(c *gin.Context, err error) {
	h.logger.Error("Upload failed", slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, dto.UploadResponse{
		Message: "Error uploading file",
		Error:   err.Error(),
	})
}
