package tryon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the Fashn API root; submissions go to /run and status queries to /status/<id>
const DefaultBaseURL = "https://api.fashn.ai/v1"

// ClientOptions configures a Client
type ClientOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Client performs the submission and status HTTP exchanges
type Client struct {
	httpClient *http.Client
	submitURL  string
	statusURL  string
	logger     *slog.Logger
}

// NewClient creates a Client with defaults for every empty option
func NewClient(opts ClientOptions) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		httpClient: httpClient,
		submitURL:  base + "/run",
		statusURL:  base + "/status",
		logger:     logger,
	}
}

// Submit creates a remote job.
// It fails with ErrMissingCredential without touching the network when apiKey is empty.
func (c *Client) Submit(ctx context.Context, req JobRequest, apiKey string) (*SubmissionResult, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingCredential
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job request: %w", err)
	}

	var result SubmissionResult
	if err := c.do(ctx, http.MethodPost, c.submitURL, bytes.NewReader(body), apiKey, opSubmit, &result); err != nil {
		return nil, err
	}

	c.logger.Debug("Try-on job submitted",
		slog.String("job_id", result.ID),
		slog.String("model_name", req.ModelName),
		slog.String("mode", string(req.Mode)),
	)

	return &result, nil
}

// Status queries the remote state of job id
func (c *Client) Status(ctx context.Context, id, apiKey string) (*StatusResult, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingCredential
	}

	endpoint := c.statusURL + "/" + url.PathEscape(id)

	var result StatusResult
	if err := c.do(ctx, http.MethodGet, endpoint, nil, apiKey, opStatus, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, apiKey, op string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Op: op, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
