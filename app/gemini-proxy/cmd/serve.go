package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/cchalm/gemini-proxy/internal/chat"
	"github.com/cchalm/gemini-proxy/internal/conversation"
	"github.com/cchalm/gemini-proxy/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API",
	Long: `Starts the HTTP server. Conversation histories are kept in memory for the lifetime
of the process and are lost on restart.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	// A missing credential is fatal: refuse to serve rather than fail every request
	err := cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx := setupContext()

	log.Printf("Starting Gemini Proxy with %s upstream", cfg.Provider)

	telemetryProvider, err := createTelemetryProvider(ctx)
	if err != nil {
		return fmt.Errorf("failed to create telemetry provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
			log.Printf("Failed to shut down telemetry provider: %v", err)
		}
	}()

	upstream, err := createUpstream()
	if err != nil {
		return fmt.Errorf("failed to create upstream client: %w", err)
	}

	store := conversation.NewMemoryStore()
	orchestrator := chat.NewOrchestrator(store, upstream, chat.WithTracer(telemetryProvider.Tracer()))

	err = server.New(orchestrator, store).ListenAndServe(ctx, cfg.Addr())
	log.Printf("Served %d sessions", store.Sessions())
	return err
}
