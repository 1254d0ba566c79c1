// Package main provides the CFP Scout command line interface.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cfp-scout/internal/config"
	"github.com/jonathan/cfp-scout/internal/profilestore"
)

var (
	configPath  string
	profilePath string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "cfp_agent",
	Short: "Conference CFP discovery for speakers",
	Long:  "CFP Scout interviews you about your speaking profile, scores open calls for papers against it, and drafts submission pitches.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "Path to the profile JSON file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadAppConfig resolves configuration from file, environment, and flags.
func loadAppConfig() (config.Config, error) {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}
	cfg.FromEnv()
	if profilePath != "" {
		cfg.ProfilePath = profilePath
	}
	if verbose {
		cfg.Verbose = true
	}
	cfg = cfg.MergeWithDefaults(config.Config{
		ProfilePath: "cfp-profile.json",
		Port:        8080,
	})
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger builds the process logger; verbose switches to the development
// config with debug output.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// openStore picks Postgres when a database URL is configured, otherwise the
// file-backed store. The returned func releases any held connections.
func openStore(ctx context.Context, cfg config.Config) (profilestore.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		store, err := profilestore.NewPostgresStore(ctx, cfg.DatabaseURL, profilestore.DefaultKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open profile database: %w", err)
		}
		return store, store.Close, nil
	}
	return profilestore.NewFileStore(cfg.ProfilePath), func() {}, nil
}
