// Package config provides configuration management for the proxy.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cchalm/gemini-proxy/internal/ai"
	"github.com/cchalm/gemini-proxy/internal/transport"
)

// Provider names an upstream generative-language API
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
)

const (
	DefaultPort            = "3000"
	DefaultAnthropicModel  = "claude-sonnet-4-0"
	DefaultOTLPEndpoint    = "localhost:4318"
	DefaultUpstreamRetries = transport.DefaultMaxRetries
)

// Config holds the configuration for the proxy
type Config struct {
	Provider Provider
	Port     string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	AnthropicAPIKey string
	AnthropicModel  string

	UpstreamTimeout time.Duration // Zero means no timeout
	UpstreamRetries int           // Retries of rate-limited upstream requests

	TelemetryEnabled bool
	OTLPEndpoint     string
	OTLPInsecure     bool
}

// Load loads configuration from environment variables, applying defaults for anything unset
func Load() (Config, error) {
	config := Config{
		Provider:        ProviderGemini,
		Port:            DefaultPort,
		GeminiModel:     ai.DefaultGeminiModel,
		GeminiBaseURL:   ai.DefaultGeminiBaseURL,
		AnthropicModel:  DefaultAnthropicModel,
		UpstreamRetries: DefaultUpstreamRetries,
		OTLPEndpoint:    DefaultOTLPEndpoint,
	}

	loadOptionalFromEnv(&config.Port, "PORT")
	loadOptionalFromEnv(&config.GeminiAPIKey, "GEMINI_API_KEY")
	loadOptionalFromEnv(&config.GeminiModel, "GEMINI_MODEL")
	loadOptionalFromEnv(&config.GeminiBaseURL, "GEMINI_BASE_URL")
	loadOptionalFromEnv(&config.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	loadOptionalFromEnv(&config.AnthropicModel, "ANTHROPIC_MODEL")
	loadOptionalFromEnv(&config.OTLPEndpoint, "OTLP_ENDPOINT")

	err := parseOptionalFromEnv(&config.Provider, "UPSTREAM_PROVIDER", func(v string) (Provider, error) { return Provider(v), nil })
	if err != nil {
		return Config{}, err
	}
	err = parseOptionalFromEnv(&config.UpstreamTimeout, "UPSTREAM_TIMEOUT", time.ParseDuration)
	if err != nil {
		return Config{}, err
	}
	err = parseOptionalFromEnv(&config.UpstreamRetries, "UPSTREAM_RETRIES", strconv.Atoi)
	if err != nil {
		return Config{}, err
	}
	err = parseOptionalFromEnv(&config.TelemetryEnabled, "TELEMETRY_ENABLED", strconv.ParseBool)
	if err != nil {
		return Config{}, err
	}
	err = parseOptionalFromEnv(&config.OTLPInsecure, "OTLP_INSECURE", strconv.ParseBool)
	if err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks if the required configuration is present
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("missing required environment variable: GEMINI_API_KEY")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("missing required environment variable: ANTHROPIC_API_KEY")
		}
	default:
		return fmt.Errorf("unknown upstream provider '%s', expected '%s' or '%s'", c.Provider, ProviderGemini, ProviderAnthropic)
	}
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("upstream timeout must not be negative, got %s", c.UpstreamTimeout)
	}
	return nil
}

// Addr returns the address the HTTP server listens on
func (c Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

func loadOptionalFromEnv(dest *string, key string) {
	// Parsing a string cannot fail
	_ = parseOptionalFromEnv(dest, key, func(v string) (string, error) { return v, nil })
}

func parseOptionalFromEnv[T any](dest *T, key string, parseFn func(string) (T, error)) error {
	str := os.Getenv(key)
	if str == "" {
		return nil // Leave default value
	}
	v, err := parseFn(str)
	if err != nil {
		return fmt.Errorf("failed to parse environment variable '%s' value '%s' as '%T': %w", key, str, *dest, err)
	}
	*dest = v
	return nil
}
