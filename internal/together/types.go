package together

// GenerationRequest is the JSON body for an image generation call.
//
// Optional fields use omitempty (or pointers where zero is meaningful
// upstream) so that absent fields are left out of the body entirely, letting
// the service apply its own defaults.
type GenerationRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`

	// Steps is the number of diffusion steps.
	Steps int `json:"steps,omitempty"`

	// N is the number of images to generate.
	N int `json:"n,omitempty"`

	// Seed makes generation reproducible when set.
	Seed *int64 `json:"seed,omitempty"`

	// ResponseFormat selects "url" or "b64_json" output.
	ResponseFormat string `json:"response_format,omitempty"`
}

// GenerationResponse is a successful response body.
type GenerationResponse struct {
	ID    string      `json:"id"`
	Model string      `json:"model"`
	Data  []ImageData `json:"data"`
}

// ImageData is one generated image descriptor. Exactly one of URL and
// B64JSON is populated, depending on the requested response format.
type ImageData struct {
	Index   int    `json:"index"`
	URL     string `json:"url,omitempty"`
	B64JSON string `json:"b64_json,omitempty"`
}

// errorResponse is the error body shape returned by the API.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}
