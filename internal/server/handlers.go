package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sarthakkimtani/mcp-image-gen/internal/generator"
)

// imageGenerator is the slice of the generator the tool handler needs.
type imageGenerator interface {
	Generate(ctx context.Context, params generator.Params) (*generator.Result, error)
}

type toolHandler struct {
	generator imageGenerator
}

// urlResult is the text payload returned when upstream responds with an
// image URL instead of inline data.
type urlResult struct {
	URL             string `json:"url"`
	Model           string `json:"model,omitempty"`
	FallbackApplied bool   `json:"fallback_applied,omitempty"`
}

// handleGenerateImage executes the generate_image tool.
//
// All failures are reported as isError tool results rather than handler
// errors, so the calling client always gets a well-formed response.
func (h *toolHandler) handleGenerateImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	params := generator.Params{}
	if prompt, ok := args["prompt"].(string); ok {
		params.Prompt = prompt
	}
	if model, ok := args["model"].(string); ok {
		params.Model = model
	}

	width, err := optionalIntArg(args, "width")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	params.Width = width

	height, err := optionalIntArg(args, "height")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	params.Height = height

	result, err := h.generator.Generate(ctx, params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.B64JSON != "" {
		return mcp.NewToolResultImage(describeResult(result), result.B64JSON, result.MimeType()), nil
	}

	payload, err := json.MarshalIndent(urlResult{
		URL:             result.URL,
		Model:           result.Model,
		FallbackApplied: result.FallbackApplied,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to encode result: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// optionalIntArg extracts an optional integer argument. JSON numbers arrive
// as float64; a fractional or non-numeric value is rejected rather than
// truncated and forwarded.
func optionalIntArg(args map[string]interface{}, key string) (*int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		n := int(v)
		return &n, nil
	case int:
		n := v
		return &n, nil
	default:
		return nil, fmt.Errorf("%s must be a positive integer", key)
	}
}

// describeResult builds the text part that accompanies inline image content.
func describeResult(result *generator.Result) string {
	desc := "Generated image"
	if result.Info != nil {
		desc += fmt.Sprintf(" (%dx%d %s)", result.Info.Width, result.Info.Height, result.Info.Format)
	}
	if result.Model != "" {
		desc += " using model " + result.Model
	}
	if result.FallbackApplied {
		desc += " (fallback)"
	}
	return desc
}
