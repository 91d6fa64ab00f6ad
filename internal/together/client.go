package together

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

	"github.com/rs/zerolog/log"

	"github.com/sarthakkimtani/mcp-image-gen/internal/config"
)

// ErrMalformedResponse indicates a 2xx response whose body could not be
// decoded into the expected shape or contained no image descriptor.
var ErrMalformedResponse = errors.New("malformed response from upstream")

// StatusError is a non-2xx response from the upstream API.
type StatusError struct {
	StatusCode int
	Message    string
	Type       string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Message)
}

// IndicatesUnknownModel reports whether this error is the upstream rejecting
// the requested model identifier, as opposed to any other failure. Together
// phrases this a few ways ("Unable to access model X", "model_not_available"),
// so matching is on the error body wording rather than a dedicated code.
func (e *StatusError) IndicatesUnknownModel() bool {
	if e.StatusCode < 400 || e.StatusCode >= 500 {
		return false
	}
	msg := strings.ToLower(e.Message + " " + e.Type)
	if !strings.Contains(msg, "model") {
		return false
	}
	for _, marker := range []string{"not found", "not_found", "not available", "not_available", "unable to access", "invalid", "unknown", "does not exist"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Client calls the Together AI image generation endpoint.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewClient creates a client from the given configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// Generate issues one image generation request. It never retries.
func (c *Client) Generate(ctx context.Context, genReq *GenerationRequest) (*GenerationResponse, error) {
	jsonBody, err := json.Marshal(genReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug().
		Int("status", resp.StatusCode).
		Str("model", genReq.Model).
		Dur("duration", time.Since(start)).
		Msg("Together API response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError(resp)
	}

	var result GenerationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("%w: no image data", ErrMalformedResponse)
	}
	first := result.Data[0]
	if first.URL == "" && first.B64JSON == "" {
		return nil, fmt.Errorf("%w: image descriptor has neither url nor b64_json", ErrMalformedResponse)
	}
	return &result, nil
}

// statusError converts a non-2xx response into a *StatusError, preferring the
// structured error body and falling back to the raw text.
func (c *Client) statusError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var apiErr errorResponse
	if err := json.Unmarshal(bodyBytes, &apiErr); err == nil && apiErr.Error.Message != "" {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Message:    apiErr.Error.Message,
			Type:       apiErr.Error.Type,
		}
	}
	return &StatusError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(bodyBytes)),
	}
}
