package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cuongbtq/vtryon/internal/api/domain"
	"github.com/cuongbtq/vtryon/internal/api/dto"
	"github.com/cuongbtq/vtryon/internal/api/model"
	"github.com/cuongbtq/vtryon/internal/api/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ModelHandler serves the model gallery
type ModelHandler struct {
	logger *slog.Logger
	models ModelStore
}

// NewModelHandler creates a new ModelHandler instance
func NewModelHandler(deps *Dependencies) *ModelHandler {
	return &ModelHandler{
		logger: deps.Logger,
		models: deps.Models,
	}
}

// ListModels handles GET /api/v1/models
func (h *ModelHandler) ListModels(c *gin.Context) {
	var req dto.ListModelsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if !domain.ValidBodyType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "type must be one of female, male",
		})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = defaultPageSize
	}

	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}

	cursor, err := DecodeModelCursor(req.Cursor)
	if err != nil {
		h.logger.Error("Invalid cursor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cursor",
		})
		return
	}

	models, err := h.models.ListModels(c.Request.Context(), storage.ModelFilter{
		BodyType: req.Type,
		PageSize: req.PageSize,
		Cursor:   cursor,
	})
	if err != nil {
		h.logger.Error("Failed to list models", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list models",
		})
		return
	}

	hasMore := len(models) > req.PageSize
	if hasMore {
		models = models[:req.PageSize]
	}

	resp := dto.ListModelsResponse{Models: make([]dto.ModelDTO, len(models))}
	for i := range models {
		resp.Models[i] = toModelDTO(&models[i])
	}

	if hasMore {
		last := models[len(models)-1]
		resp.NextCursor = EncodeModelCursor(&storage.ModelCursor{
			CreatedAt: last.CreatedAt,
			ModelID:   last.ModelID,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// GetModel handles GET /api/v1/models/:model_id
func (h *ModelHandler) GetModel(c *gin.Context) {
	modelID := c.Param("model_id")

	if _, err := uuid.Parse(modelID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "model_id must be a valid UUID",
		})
		return
	}

	m, err := h.models.GetModelByID(c.Request.Context(), modelID)
	if err != nil {
		if errors.Is(err, domain.ErrModelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Model not found",
			})
			return
		}
		h.logger.Error("Failed to get model",
			slog.String("model_id", modelID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get model",
		})
		return
	}

	c.JSON(http.StatusOK, toModelDTO(m))
}

func toModelDTO(m *model.Model) dto.ModelDTO {
	return dto.ModelDTO{
		ModelID:   m.ModelID,
		Name:      m.Name,
		Type:      m.BodyType,
		Image:     m.ImageURL,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}
