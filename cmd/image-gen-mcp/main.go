package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sarthakkimtani/mcp-image-gen/internal/config"
	"github.com/sarthakkimtani/mcp-image-gen/internal/generator"
	"github.com/sarthakkimtani/mcp-image-gen/internal/server"
	"github.com/sarthakkimtani/mcp-image-gen/internal/together"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-gen-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-gen-mcp - MCP server for image generation via Together AI")
			fmt.Println()
			fmt.Println("Usage: image-gen-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  TOGETHER_AI_API_KEY          Together AI API key (required)")
			fmt.Println("  TOGETHER_AI_ENDPOINT         Override the upstream endpoint URL")
			fmt.Println("  TOGETHER_AI_DEFAULT_MODEL    Fallback model identifier")
			fmt.Println("  TOGETHER_AI_TIMEOUT          Per-request timeout (e.g. 60s)")
			fmt.Println("  LOG_LEVEL                    debug, info, warn, or error")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g. Claude Desktop).")
			return
		}
	}

	cfg := config.Load()

	// Logs go to stderr; stdout carries the MCP protocol.
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Refusing to start")
		os.Exit(1)
	}

	log.Info().
		Str("version", Version).
		Str("default_model", cfg.DefaultModel).
		Dur("request_timeout", cfg.RequestTimeout).
		Msg("Starting image generation MCP server")

	client := together.NewClient(cfg)
	gen := generator.New(client, cfg)

	if err := server.New(gen).Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
