package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cuongbtq/vtryon/internal/tryon"
	"github.com/google/uuid"
)

// TryOnMessage is published by the API for asynchronous processing
type TryOnMessage struct {
	RequestID    string `json:"request_id"`
	ModelImage   string `json:"model_image"`
	GarmentImage string `json:"garment_image"`
	Mode         string `json:"mode,omitempty"`
	DeliveryTag  uint64 `json:"-"`
}

// OutcomeMessage is published by the worker once a session ends
type OutcomeMessage struct {
	RequestID  string        `json:"request_id"`
	Outcome    tryon.Outcome `json:"outcome"`
	Kind       string        `json:"kind"`
	FinishedAt time.Time     `json:"finished_at"`
}

// ParseTryOnMessage decodes and validates a delivery body
func ParseTryOnMessage(body []byte) (*TryOnMessage, error) {
	var msg TryOnMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if _, err := uuid.Parse(msg.RequestID); err != nil {
		return nil, fmt.Errorf("%w: request_id must be a UUID", ErrInvalidPayload)
	}

	if strings.TrimSpace(msg.ModelImage) == "" || strings.TrimSpace(msg.GarmentImage) == "" {
		return nil, fmt.Errorf("%w: model_image and garment_image are required", ErrInvalidPayload)
	}

	if _, err := tryon.ParseMode(msg.Mode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return &msg, nil
}

// JobRequest converts the message into a remote job request for modelName
func (m *TryOnMessage) JobRequest(modelName string) tryon.JobRequest {
	mode, _ := tryon.ParseMode(m.Mode)
	return tryon.NewJobRequestForModel(modelName, m.ModelImage, m.GarmentImage, mode)
}

// NewOutcomeMessage stamps an outcome for publishing
func NewOutcomeMessage(requestID string, outcome tryon.Outcome, finishedAt time.Time) OutcomeMessage {
	return OutcomeMessage{
		RequestID:  requestID,
		Outcome:    outcome,
		Kind:       outcome.Kind.String(),
		FinishedAt: finishedAt.UTC(),
	}
}
