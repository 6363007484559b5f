// internal/upstream/client.go
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"archnet/internal/apperrors"
	"archnet/internal/contextutils"
)

// ===============================
// CLIENT CONFIGURATION
// ===============================

// Config holds upstream API client configuration.
type Config struct {
	BaseURL        string        `json:"base_url"`
	Timeout        time.Duration `json:"timeout"`
	MaxRetries     uint64        `json:"max_retries"`
	InitialBackoff time.Duration `json:"initial_backoff"`
}

// DefaultConfig returns a default upstream client configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "http://localhost:4000",
		Timeout:        10 * time.Second,
		MaxRetries:     3,
		InitialBackoff: 200 * time.Millisecond,
	}
}

// Client talks to the ArchNet REST backend. Reads retry transient failures
// with exponential backoff; writes are issued exactly once because the
// backend's toggle endpoints are not idempotent.
type Client struct {
	baseURL    string
	httpClient *http.Client
	config     *Config
	logger     *zap.Logger
}

// NewClient creates an upstream API client.
func NewClient(config *Config, logger *zap.Logger) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
		logger:     logger,
	}
}

// ===============================
// REQUEST PLUMBING
// ===============================

// Get issues a retried GET and decodes the JSON response into dest.
func (c *Client) Get(ctx context.Context, path string, query url.Values, dest interface{}) error {
	operation := func() error {
		err := c.do(ctx, http.MethodGet, path, query, nil, dest)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(c.config.InitialBackoff),
		), c.config.MaxRetries),
		ctx,
	)
	return backoff.Retry(operation, policy)
}

// Post issues a single POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, dest interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, dest)
}

// Patch issues a single PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, dest interface{}) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, dest)
}

// Delete issues a single DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError("failed to encode request body")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return apperrors.NewInternalError("failed to build upstream request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID, ok := contextutils.UserID(ctx); ok {
		req.Header.Set("X-User-ID", userID)
	}
	if requestID := contextutils.RequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Upstream request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return apperrors.NewUpstreamError("backend is unreachable", http.StatusBadGateway, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Upstream request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return errorFromStatus(resp, method, path)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return apperrors.NewUpstreamError("backend returned malformed JSON", http.StatusBadGateway, err)
	}
	return nil
}

// errorFromStatus maps upstream HTTP failures onto the service error taxonomy.
func errorFromStatus(resp *http.Response, method, path string) error {
	// The backend sends {"error": "..."} bodies on failure; fall back to the
	// status text when the body is empty or not JSON.
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	message := ""
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		if json.Unmarshal(raw, &payload) == nil {
			if payload.Error != "" {
				message = payload.Error
			} else {
				message = payload.Message
			}
		}
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperrors.NewNotFoundError(message)
	case http.StatusUnauthorized:
		return apperrors.NewUnauthorizedError(message)
	case http.StatusForbidden:
		return apperrors.NewForbiddenError(message)
	case http.StatusConflict:
		return apperrors.NewConflictError(message, "UPSTREAM_CONFLICT")
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.NewValidationError(message, nil)
	default:
		return apperrors.NewUpstreamError(
			fmt.Sprintf("%s %s failed: %s", method, path, message),
			resp.StatusCode, nil)
	}
}

// retryable reports whether a read failure is worth retrying. Client-side
// errors (4xx) are permanent; connectivity failures and 5xx are transient.
func retryable(err error) bool {
	se := apperrors.AsServiceError(err)
	switch se.Type {
	case "UPSTREAM_ERROR":
		return se.StatusCode >= 500 || se.StatusCode == http.StatusBadGateway
	default:
		return false
	}
}
