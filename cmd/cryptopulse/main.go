// Package main provides the cryptopulse command: fetch crypto headlines, turn
// them into written content and publish short posts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "cryptopulse",
	Short:         "Crypto news to content pipeline",
	Long:          "CryptoPulse fetches cryptocurrency headlines, generates a summary, a LinkedIn article, a newsletter, a short-video script and short posts, writes them to timestamped files and publishes the headlines to Bluesky.",
	RunE:          runPipeline,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config file")
	addRunFlags(rootCmd)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
