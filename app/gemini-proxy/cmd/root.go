package cmd

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cchalm/gemini-proxy/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "gemini-proxy",
	Short: "Stateful chat proxy for generative-language APIs",
	Long: `Gemini Proxy forwards chat messages to a generative-language API, injecting a fixed
system instruction and keeping the conversation history of each session in memory.
Run without a subcommand to start serving.`,
	PersistentPreRunE: loadRootConfig,
	RunE:              runServe,
	SilenceUsage:      true,
}

func Execute() error {
	return rootCmd.Execute()
}

func loadRootConfig(_ *cobra.Command, _ []string) error {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlagOverrides()
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&portFlag, "port", "", "Port to listen on (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "Upstream provider, 'gemini' or 'anthropic' (overrides UPSTREAM_PROVIDER)")
}
