package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/cchalm/gemini-proxy/internal/ai"
	"github.com/cchalm/gemini-proxy/internal/config"
	"github.com/cchalm/gemini-proxy/internal/telemetry"
	"github.com/cchalm/gemini-proxy/internal/transport"
)

func setupContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	// Setup graceful shutdown
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		log.Println("Interrupt signal detected, shutting down gracefully...")
		cancel()
		<-interrupt
		log.Fatal("Forcing shutdown")
	}()

	return ctx
}

func createUpstream() (ai.Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return createGeminiClient(), nil
	case config.ProviderAnthropic:
		return createAnthropicClient(), nil
	default:
		return nil, fmt.Errorf("unknown upstream provider '%s'", cfg.Provider)
	}
}

func createGeminiClient() *ai.GeminiClient {
	rateLimitedHTTPClient := &http.Client{
		Transport: transport.WithRateLimiting(nil, cfg.UpstreamRetries),
		Timeout:   cfg.UpstreamTimeout,
	}
	return ai.NewGeminiClient(
		cfg.GeminiAPIKey,
		ai.WithHTTPClient(rateLimitedHTTPClient),
		ai.WithBaseURL(cfg.GeminiBaseURL),
		ai.WithModel(cfg.GeminiModel),
	)
}

func createAnthropicClient() *ai.AnthropicClient {
	rateLimitedHTTPClient := &http.Client{
		Transport: transport.WithRateLimiting(nil, cfg.UpstreamRetries),
	}
	opts := []option.RequestOption{
		option.WithHTTPClient(rateLimitedHTTPClient),
		option.WithAPIKey(cfg.AnthropicAPIKey),
		option.WithMaxRetries(0), // 429s are retried by the transport
	}
	if cfg.UpstreamTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.UpstreamTimeout))
	}
	client := anthropic.NewClient(opts...)
	return ai.NewAnthropicClient(client, anthropic.Model(cfg.AnthropicModel), ai.DefaultAnthropicMaxTokens)
}

func createTelemetryProvider(ctx context.Context) (*telemetry.Provider, error) {
	telemetryConfig := telemetry.Config{
		Enabled:  cfg.TelemetryEnabled,
		Endpoint: cfg.OTLPEndpoint,
		Insecure: cfg.OTLPInsecure,
	}
	return telemetry.NewProvider(ctx, telemetryConfig)
}
