package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Poojareddy2809/shadowshare/api/internal/core/domain"
)

// maxErrorBody caps how much of an upstream error body we keep.
const maxErrorBody = 4 << 10

// UpstreamError is a non-2xx answer from the translation endpoint.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("translation endpoint returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("translation endpoint returned %d", e.StatusCode)
}

// Is lets callers match any upstream failure with domain.ErrTranslationFailed.
func (e *UpstreamError) Is(target error) bool {
	return target == domain.ErrTranslationFailed
}

// TranslateClient talks to the remote translation endpoint.
// It performs exactly one attempt per call.
type TranslateClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// TranslateOption configures the client.
type TranslateOption func(*TranslateClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) TranslateOption {
	return func(tc *TranslateClient) {
		tc.httpClient = c
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) TranslateOption {
	return func(tc *TranslateClient) {
		tc.httpClient.Timeout = d
	}
}

func NewTranslateClient(endpoint, apiKey string, opts ...TranslateOption) (*TranslateClient, error) {
	if endpoint == "" {
		return nil, errors.New("translation endpoint is required")
	}
	if apiKey == "" {
		return nil, errors.New("translation API key is required")
	}

	c := &TranslateClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *TranslateClient) Translate(ctx context.Context, req domain.TranslationRequest) (*domain.TranslationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID(ctx))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTranslationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseErrorResponse(resp)
	}

	var result domain.TranslationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrTranslationFailed, err)
	}
	return &result, nil
}

// requestID propagates the inbound chi request id, or mints a fresh one.
func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

func parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Error != "" {
			return &UpstreamError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		if errResp.Message != "" {
			return &UpstreamError{StatusCode: resp.StatusCode, Message: errResp.Message}
		}
	}

	return &UpstreamError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
	}
}
