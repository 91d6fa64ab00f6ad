// Package server exposes image generation through the Model Context Protocol.
//
// The server speaks MCP over stdio (stdin for requests, stdout for
// responses) and registers a single tool:
//
//   - generate_image: generate an image from a text prompt via Together AI,
//     with optional width, height, and model overrides.
//
// # Error Handling
//
// Tool failures are never surfaced as protocol-level faults. Invalid
// arguments and upstream failures both come back as tool results flagged
// isError with a human-readable message, so the client always receives a
// well-formed response. Handler panics are caught by the recovery middleware.
package server
