package server

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// generateImageTool returns the definition of the generate_image tool.
func generateImageTool() mcp.Tool {
	return mcp.NewTool("generate_image",
		mcp.WithDescription("Generate an image based on the text prompt"),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("The text prompt for image generation"),
		),
		mcp.WithNumber("width",
			mcp.Description("Optional width for the image in pixels"),
		),
		mcp.WithNumber("height",
			mcp.Description("Optional height for the image in pixels"),
		),
		mcp.WithString("model",
			mcp.Description("Optional Together AI model identifier; falls back to the default model if rejected"),
		),
	)
}
