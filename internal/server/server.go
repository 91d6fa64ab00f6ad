package server

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/sarthakkimtani/mcp-image-gen/internal/generator"
)

const (
	serverName    = "image-gen"
	serverVersion = "0.1.0"
)

// Server wires the generate_image tool into an MCP server.
type Server struct {
	mcp *server.MCPServer
}

// New creates an MCP server backed by the given generator.
func New(gen *generator.Generator) *Server {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	h := &toolHandler{generator: gen}
	s.AddTool(generateImageTool(), h.handleGenerateImage)

	return &Server{mcp: s}
}

// Run serves MCP over stdin/stdout until the client disconnects.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcp)
}
