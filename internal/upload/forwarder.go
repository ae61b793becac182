package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultForwardTimeout = 10 * time.Second

// Forwarder posts {"imageUrl": url} to a downstream endpoint
type Forwarder struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewForwarder returns nil when endpoint is empty; a nil Forwarder is a no-op
func NewForwarder(endpoint string, timeout time.Duration, logger *slog.Logger) *Forwarder {
	if strings.TrimSpace(endpoint) == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = defaultForwardTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Forwarder{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Forward sends the image URL downstream
func (f *Forwarder) Forward(ctx context.Context, imageURL string) error {
	if f == nil {
		return nil
	}

	payload, err := json.Marshal(map[string]string{"imageUrl": imageURL})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("target endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}

// ForwardBestEffort forwards and logs failures instead of returning them
func (f *Forwarder) ForwardBestEffort(ctx context.Context, imageURL string) {
	if f == nil {
		return
	}
	if err := f.Forward(ctx, imageURL); err != nil {
		f.logger.Warn("Failed to forward image url",
			slog.String("endpoint", f.endpoint),
			slog.String("error", err.Error()),
		)
		return
	}
	f.logger.Debug("Image url forwarded", slog.String("endpoint", f.endpoint))
}
