package config

import (
	"fmt"
	"os"
	"time"
)

// DefaultEndpoint is the Together AI image generation endpoint.
const DefaultEndpoint = "https://api.together.xyz/v1/images/generations"

// DefaultModel is substituted when the caller does not specify a model, or
// when the upstream service rejects the requested model as unknown.
const DefaultModel = "black-forest-labs/FLUX.1-schnell"

// Config holds process configuration for the image generation server.
type Config struct {
	// APIKey is the Together AI bearer credential. Required.
	APIKey string

	// Endpoint is the upstream image generation URL. Overridable so tests
	// can point the client at a fake upstream.
	Endpoint string

	// DefaultModel is the fallback model identifier.
	DefaultModel string

	// RequestTimeout bounds each upstream call.
	RequestTimeout time.Duration

	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string
}

// ConfigurationError indicates the process cannot serve with the
// configuration it was started with. It is fatal at startup.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// Load reads configuration from environment variables, applying defaults
// for everything except the API key.
func Load() *Config {
	return &Config{
		APIKey:         os.Getenv("TOGETHER_AI_API_KEY"),
		Endpoint:       getEnv("TOGETHER_AI_ENDPOINT", DefaultEndpoint),
		DefaultModel:   getEnv("TOGETHER_AI_DEFAULT_MODEL", DefaultModel),
		RequestTimeout: getEnvDuration("TOGETHER_AI_TIMEOUT", 60*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports whether the configuration is usable. A missing API key is
// a startup-time fatal condition, not a per-request failure.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return &ConfigurationError{Reason: "TOGETHER_AI_API_KEY environment variable is not set"}
	}
	if c.Endpoint == "" {
		return &ConfigurationError{Reason: "upstream endpoint must not be empty"}
	}
	if c.RequestTimeout <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("invalid request timeout %s", c.RequestTimeout)}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
