package dto

import "github.com/cuongbtq/vtryon/internal/tryon"

// TryOnRequest names the person either by gallery model_id or by model_image URL
type TryOnRequest struct {
	ModelID      string `json:"model_id"`
	ModelImage   string `json:"model_image"`
	GarmentImage string `json:"garment_image" binding:"required"`
	Mode         string `json:"mode"`
}

// TryOnResponse is the Outcome plus a localized message
type TryOnResponse struct {
	tryon.Outcome
	Message string `json:"message"`
}

type QueuedTryOnResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

type UploadResponse struct {
	Message  string `json:"message"`
	ImageURL string `json:"imageUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}
