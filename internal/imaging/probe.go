package imaging

import (
	"bytes"
	"fmt"
	"image"

	// Decoding also registers the JPEG, PNG, GIF, TIFF, and BMP formats
	// with the standard image package.
	imglib "github.com/disintegration/imaging"
)

// Info contains metadata about a generated image payload.
type Info struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format: "jpeg", "png", "gif", etc.
	// Detection is based on the image bytes, not on any filename.
	Format string `json:"format"`

	// MimeType is the media type matching Format, e.g. "image/jpeg".
	MimeType string `json:"mime_type"`

	// SizeBytes is the size of the decoded payload in bytes.
	SizeBytes int `json:"size_bytes"`
}

// Probe decodes an in-memory image payload and reports its dimensions and
// format. The payload itself is never modified; this exists so the server can
// attach accurate metadata to results without touching the image data.
func Probe(data []byte) (*Info, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to identify image format: %w", err)
	}

	img, err := imglib.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	return &Info{
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Format:    format,
		MimeType:  MimeFromFormat(format),
		SizeBytes: len(data),
	}, nil
}

// MimeFromFormat maps a decoded format name to its media type. Unknown
// formats map to "image/jpeg", the format Together serves by default.
func MimeFromFormat(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	case "jpeg":
		return "image/jpeg"
	default:
		return "image/jpeg"
	}
}
