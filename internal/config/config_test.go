package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cchalm/gemini-proxy/internal/ai"
	"github.com/cchalm/gemini-proxy/internal/transport"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL", "ANTHROPIC_API_KEY", "ANTHROPIC_MODEL",
		"OTLP_ENDPOINT", "OTLP_INSECURE", "UPSTREAM_PROVIDER", "UPSTREAM_TIMEOUT", "UPSTREAM_RETRIES", "TELEMETRY_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr())
	assert.Equal(t, ai.DefaultGeminiModel, cfg.GeminiModel)
	assert.Equal(t, ai.DefaultGeminiBaseURL, cfg.GeminiBaseURL)
	assert.Equal(t, time.Duration(0), cfg.UpstreamTimeout)
	assert.Equal(t, transport.DefaultMaxRetries, cfg.UpstreamRetries)
	assert.False(t, cfg.TelemetryEnabled)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("UPSTREAM_TIMEOUT", "30s")
	t.Setenv("UPSTREAM_RETRIES", "0")
	t.Setenv("TELEMETRY_ENABLED", "true")
	t.Setenv("UPSTREAM_PROVIDER", "anthropic")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "secret", cfg.GeminiAPIKey)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 0, cfg.UpstreamRetries)
	assert.True(t, cfg.TelemetryEnabled)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
}

func TestLoad_InvalidValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPSTREAM_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UPSTREAM_TIMEOUT")
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:    "missing gemini key",
			config:  Config{Provider: ProviderGemini, Port: "3000"},
			wantErr: "GEMINI_API_KEY",
		},
		{
			name:   "gemini key present",
			config: Config{Provider: ProviderGemini, Port: "3000", GeminiAPIKey: "k"},
		},
		{
			name:    "missing anthropic key",
			config:  Config{Provider: ProviderAnthropic, Port: "3000", GeminiAPIKey: "k"},
			wantErr: "ANTHROPIC_API_KEY",
		},
		{
			name:    "unknown provider",
			config:  Config{Provider: "openai", Port: "3000"},
			wantErr: "unknown upstream provider",
		},
		{
			name:    "negative timeout",
			config:  Config{Provider: ProviderGemini, Port: "3000", GeminiAPIKey: "k", UpstreamTimeout: -time.Second},
			wantErr: "must not be negative",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
