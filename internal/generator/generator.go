package generator

import (
	"context"
	"encoding/base64"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sarthakkimtani/mcp-image-gen/internal/config"
	"github.com/sarthakkimtani/mcp-image-gen/internal/imaging"
	"github.com/sarthakkimtani/mcp-image-gen/internal/together"
)

// Params is a single generation request as supplied by the caller. Width and
// Height are pointers so that an explicit zero is distinguishable from an
// omitted field: omitted dimensions are left to upstream defaults, while a
// supplied non-positive value is a validation failure.
type Params struct {
	Prompt string
	Width  *int
	Height *int
	Model  string
}

// Result is a successful generation outcome. Exactly one of URL and B64JSON
// is populated, carrying the upstream image reference unmodified.
type Result struct {
	URL     string
	B64JSON string

	// Model is the identifier the successful call was made with, or empty
	// when the request let upstream pick its default.
	Model string

	// FallbackApplied reports that the caller's model was rejected and the
	// result came from the retry with the default model.
	FallbackApplied bool

	// Info holds decoded metadata for base64 payloads; nil for URL results
	// or when the payload could not be probed.
	Info *imaging.Info
}

// MimeType returns the media type of a base64 result, defaulting to JPEG
// when probing did not succeed.
func (r *Result) MimeType() string {
	if r.Info != nil {
		return r.Info.MimeType
	}
	return "image/jpeg"
}

// upstreamClient is the slice of the Together client the adapter needs.
type upstreamClient interface {
	Generate(ctx context.Context, req *together.GenerationRequest) (*together.GenerationResponse, error)
}

// Generator validates generation parameters and adapts them onto the
// upstream client.
type Generator struct {
	client       upstreamClient
	defaultModel string
}

// New creates a Generator using the given upstream client and the fallback
// model from configuration.
func New(client upstreamClient, cfg *config.Config) *Generator {
	return &Generator{
		client:       client,
		defaultModel: cfg.DefaultModel,
	}
}

// Generate runs one validate-call-map cycle. All failures come back as
// *ValidationError or *UpstreamError; validation failures are returned
// before any network call is made.
func (g *Generator) Generate(ctx context.Context, params Params) (*Result, error) {
	if err := validate(params); err != nil {
		return nil, err
	}

	req := &together.GenerationRequest{
		Prompt: params.Prompt,
		Model:  params.Model,
	}
	if params.Width != nil {
		req.Width = *params.Width
	}
	if params.Height != nil {
		req.Height = *params.Height
	}

	start := time.Now()
	resp, err := g.client.Generate(ctx, req)
	fallbackApplied := false

	if err != nil && g.shouldFallback(params.Model, err) {
		log.Warn().
			Str("model", params.Model).
			Str("fallback", g.defaultModel).
			Msg("Requested model rejected by upstream, retrying with fallback")
		retryReq := *req
		retryReq.Model = g.defaultModel
		resp, err = g.client.Generate(ctx, &retryReq)
		fallbackApplied = true
		req = &retryReq
	}

	if err != nil {
		return nil, mapUpstreamError(err)
	}

	result := &Result{
		Model:           req.Model,
		FallbackApplied: fallbackApplied,
	}
	first := resp.Data[0]
	if first.B64JSON != "" {
		result.B64JSON = first.B64JSON
		result.Info = probePayload(first.B64JSON)
	} else {
		result.URL = first.URL
	}

	log.Info().
		Str("model", req.Model).
		Bool("fallback_applied", fallbackApplied).
		Bool("url_result", result.URL != "").
		Dur("duration", time.Since(start)).
		Msg("Image generated")

	return result, nil
}

// validate enforces the input constraints: non-blank prompt, positive
// dimensions when supplied.
func validate(params Params) error {
	if strings.TrimSpace(params.Prompt) == "" {
		return &ValidationError{Field: "prompt", Reason: "prompt must not be empty"}
	}
	if params.Width != nil && *params.Width <= 0 {
		return &ValidationError{Field: "width", Reason: "width must be a positive integer"}
	}
	if params.Height != nil && *params.Height <= 0 {
		return &ValidationError{Field: "height", Reason: "height must be a positive integer"}
	}
	return nil
}

// shouldFallback guards the single retry: only an unknown-model rejection of
// a caller-supplied, non-default model triggers it.
func (g *Generator) shouldFallback(requestedModel string, err error) bool {
	if requestedModel == "" || requestedModel == g.defaultModel {
		return false
	}
	var statusErr *together.StatusError
	return errors.As(err, &statusErr) && statusErr.IndicatesUnknownModel()
}

// mapUpstreamError classifies a client error into an *UpstreamError.
func mapUpstreamError(err error) error {
	var statusErr *together.StatusError
	if errors.As(err, &statusErr) {
		return &UpstreamError{
			StatusCode: statusErr.StatusCode,
			Message:    statusErr.Error(),
		}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &UpstreamError{
			Message: "upstream request timed out",
			Timeout: true,
		}
	}

	if errors.Is(err, together.ErrMalformedResponse) {
		return &UpstreamError{Message: err.Error()}
	}

	return &UpstreamError{Message: "upstream request failed: " + err.Error()}
}

// probePayload decodes a base64 payload and extracts image metadata.
// Probing is best-effort; the payload is passed through either way.
func probePayload(b64 string) *imaging.Info {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		log.Debug().Err(err).Msg("Generated payload is not valid base64, skipping probe")
		return nil
	}
	info, err := imaging.Probe(data)
	if err != nil {
		log.Debug().Err(err).Msg("Could not probe generated image, skipping metadata")
		return nil
	}
	return info
}
