package generator

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"net/http"
	"testing"

	"github.com/sarthakkimtani/mcp-image-gen/internal/config"
	"github.com/sarthakkimtani/mcp-image-gen/internal/together"
)

// fakeClient records every upstream request and answers via fn.
type fakeClient struct {
	calls []together.GenerationRequest
	fn    func(req *together.GenerationRequest) (*together.GenerationResponse, error)
}

func (f *fakeClient) Generate(ctx context.Context, req *together.GenerationRequest) (*together.GenerationResponse, error) {
	f.calls = append(f.calls, *req)
	return f.fn(req)
}

func urlResponse(url string) func(*together.GenerationRequest) (*together.GenerationResponse, error) {
	return func(*together.GenerationRequest) (*together.GenerationResponse, error) {
		return &together.GenerationResponse{Data: []together.ImageData{{URL: url}}}, nil
	}
}

func newTestGenerator(fake *fakeClient) *Generator {
	return New(fake, &config.Config{DefaultModel: config.DefaultModel})
}

func intPtr(n int) *int {
	return &n
}

// timeoutError mimics a net.Error produced by a timed-out HTTP call.
type timeoutError struct{}

func (timeoutError) Error() string   { return "request timed out" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestGenerate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		field  string
	}{
		{"empty prompt", Params{Prompt: ""}, "prompt"},
		{"whitespace prompt", Params{Prompt: "   \t\n"}, "prompt"},
		{"zero width", Params{Prompt: "cat", Width: intPtr(0)}, "width"},
		{"negative width", Params{Prompt: "cat", Width: intPtr(-10)}, "width"},
		{"zero height", Params{Prompt: "cat", Height: intPtr(0)}, "height"},
		{"negative height", Params{Prompt: "cat", Height: intPtr(-1)}, "height"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeClient{fn: urlResponse("https://img.example/x")}
			gen := newTestGenerator(fake)

			_, err := gen.Generate(context.Background(), tt.params)

			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("error: got %v (%T), want *ValidationError", err, err)
			}
			if valErr.Field != tt.field {
				t.Errorf("Field: got %q, want %q", valErr.Field, tt.field)
			}
			if len(fake.calls) != 0 {
				t.Errorf("upstream calls: got %d, want 0", len(fake.calls))
			}
		})
	}
}

func TestGenerate_PromptOnly(t *testing.T) {
	fake := &fakeClient{fn: urlResponse("https://img.example/out.jpg")}
	gen := newTestGenerator(fake)

	result, err := gen.Generate(context.Background(), Params{Prompt: "a futuristic cityscape at sunset"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(fake.calls) != 1 {
		t.Fatalf("upstream calls: got %d, want 1", len(fake.calls))
	}
	call := fake.calls[0]
	if call.Prompt != "a futuristic cityscape at sunset" {
		t.Errorf("Prompt: got %q", call.Prompt)
	}
	if call.Width != 0 || call.Height != 0 || call.Model != "" {
		t.Errorf("optional fields should be absent, got width=%d height=%d model=%q",
			call.Width, call.Height, call.Model)
	}
	if result.URL != "https://img.example/out.jpg" {
		t.Errorf("URL: got %q", result.URL)
	}
	if result.FallbackApplied {
		t.Error("FallbackApplied should be false")
	}
}

func TestGenerate_ForwardsSuppliedFields(t *testing.T) {
	fake := &fakeClient{fn: urlResponse("https://img.example/x")}
	gen := newTestGenerator(fake)

	_, err := gen.Generate(context.Background(), Params{
		Prompt: "cat",
		Width:  intPtr(512),
		Height: intPtr(768),
		Model:  "black-forest-labs/FLUX.1-dev",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	call := fake.calls[0]
	if call.Width != 512 || call.Height != 768 {
		t.Errorf("dimensions: got %dx%d, want 512x768", call.Width, call.Height)
	}
	if call.Model != "black-forest-labs/FLUX.1-dev" {
		t.Errorf("Model: got %q", call.Model)
	}
}

func TestGenerate_UnknownModelFallback(t *testing.T) {
	fake := &fakeClient{}
	fake.fn = func(req *together.GenerationRequest) (*together.GenerationResponse, error) {
		if req.Model == "nonexistent-model" {
			return nil, &together.StatusError{
				StatusCode: http.StatusNotFound,
				Message:    "Unable to access model nonexistent-model",
			}
		}
		return &together.GenerationResponse{Data: []together.ImageData{{URL: "https://img.example/retry.jpg"}}}, nil
	}
	gen := newTestGenerator(fake)

	result, err := gen.Generate(context.Background(), Params{Prompt: "cat", Model: "nonexistent-model"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(fake.calls) != 2 {
		t.Fatalf("upstream calls: got %d, want 2", len(fake.calls))
	}
	if fake.calls[0].Model != "nonexistent-model" {
		t.Errorf("first call model: got %q", fake.calls[0].Model)
	}
	if fake.calls[1].Model != config.DefaultModel {
		t.Errorf("retry model: got %q, want %q", fake.calls[1].Model, config.DefaultModel)
	}
	if !result.FallbackApplied {
		t.Error("FallbackApplied should be true")
	}
	if result.Model != config.DefaultModel {
		t.Errorf("result model: got %q, want %q", result.Model, config.DefaultModel)
	}
	if result.URL != "https://img.example/retry.jpg" {
		t.Errorf("URL: got %q", result.URL)
	}
}

func TestGenerate_FallbackFailureIsFinal(t *testing.T) {
	fake := &fakeClient{}
	fake.fn = func(req *together.GenerationRequest) (*together.GenerationResponse, error) {
		if req.Model == "nonexistent-model" {
			return nil, &together.StatusError{StatusCode: 400, Message: "Invalid model id: nonexistent-model"}
		}
		return nil, &together.StatusError{StatusCode: 500, Message: "internal error"}
	}
	gen := newTestGenerator(fake)

	_, err := gen.Generate(context.Background(), Params{Prompt: "cat", Model: "nonexistent-model"})

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("error: got %v (%T), want *UpstreamError", err, err)
	}
	if upErr.StatusCode != 500 {
		t.Errorf("StatusCode: got %d, want 500", upErr.StatusCode)
	}
	// Exactly one retry, never more.
	if len(fake.calls) != 2 {
		t.Errorf("upstream calls: got %d, want 2", len(fake.calls))
	}
}

func TestGenerate_NoFallbackCases(t *testing.T) {
	tests := []struct {
		name  string
		model string
		err   error
	}{
		{
			"generic upstream error",
			"black-forest-labs/FLUX.1-dev",
			&together.StatusError{StatusCode: 429, Message: "Rate limit exceeded"},
		},
		{
			"unknown model error without requested model",
			"",
			&together.StatusError{StatusCode: 400, Message: "Invalid model id"},
		},
		{
			"unknown model error for default model",
			config.DefaultModel,
			&together.StatusError{StatusCode: 400, Message: "Invalid model id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeClient{}
			fake.fn = func(*together.GenerationRequest) (*together.GenerationResponse, error) {
				return nil, tt.err
			}
			gen := newTestGenerator(fake)

			_, err := gen.Generate(context.Background(), Params{Prompt: "cat", Model: tt.model})

			var upErr *UpstreamError
			if !errors.As(err, &upErr) {
				t.Fatalf("error: got %v (%T), want *UpstreamError", err, err)
			}
			if len(fake.calls) != 1 {
				t.Errorf("upstream calls: got %d, want 1", len(fake.calls))
			}
		})
	}
}

func TestGenerate_TimeoutMapsToUpstreamError(t *testing.T) {
	fake := &fakeClient{}
	fake.fn = func(*together.GenerationRequest) (*together.GenerationResponse, error) {
		return nil, timeoutError{}
	}
	gen := newTestGenerator(fake)

	_, err := gen.Generate(context.Background(), Params{Prompt: "cat"})

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("error: got %v (%T), want *UpstreamError", err, err)
	}
	if !upErr.Timeout {
		t.Error("Timeout should be true")
	}
}

func TestGenerate_MalformedResponse(t *testing.T) {
	fake := &fakeClient{}
	fake.fn = func(*together.GenerationRequest) (*together.GenerationResponse, error) {
		return nil, together.ErrMalformedResponse
	}
	gen := newTestGenerator(fake)

	_, err := gen.Generate(context.Background(), Params{Prompt: "cat"})

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("error: got %v (%T), want *UpstreamError", err, err)
	}
}

// encodePNGBase64 returns a base64-encoded PNG of the given size.
func encodePNGBase64(t *testing.T, width, height int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestGenerate_Base64ResultIsProbed(t *testing.T) {
	b64 := encodePNGBase64(t, 32, 24)
	fake := &fakeClient{}
	fake.fn = func(*together.GenerationRequest) (*together.GenerationResponse, error) {
		return &together.GenerationResponse{Data: []together.ImageData{{B64JSON: b64}}}, nil
	}
	gen := newTestGenerator(fake)

	result, err := gen.Generate(context.Background(), Params{Prompt: "cat"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if result.B64JSON != b64 {
		t.Error("base64 payload should pass through unmodified")
	}
	if result.Info == nil {
		t.Fatal("Info should be populated for base64 results")
	}
	if result.Info.Width != 32 || result.Info.Height != 24 {
		t.Errorf("probed dimensions: got %dx%d, want 32x24", result.Info.Width, result.Info.Height)
	}
	if result.MimeType() != "image/png" {
		t.Errorf("MimeType: got %q, want image/png", result.MimeType())
	}
}

func TestGenerate_UnprobeablePayloadStillSucceeds(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString([]byte("not an image"))
	fake := &fakeClient{}
	fake.fn = func(*together.GenerationRequest) (*together.GenerationResponse, error) {
		return &together.GenerationResponse{Data: []together.ImageData{{B64JSON: b64}}}, nil
	}
	gen := newTestGenerator(fake)

	result, err := gen.Generate(context.Background(), Params{Prompt: "cat"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if result.Info != nil {
		t.Error("Info should be nil when probing fails")
	}
	if result.MimeType() != "image/jpeg" {
		t.Errorf("MimeType fallback: got %q, want image/jpeg", result.MimeType())
	}
}
