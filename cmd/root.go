// ABOUTME: Root command for the bess CLI
// ABOUTME: Handles global flags, logging and configuration overrides

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simtestlab/bess-handbook/config"
	"github.com/Simtestlab/bess-handbook/logger"
	"github.com/Simtestlab/bess-handbook/store"
)

var (
	apiURL       string
	jsonOutput   bool
	storeBackend string
	slotName     string
)

const defaultAPIURL = "http://localhost:8080"

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "bess",
	Short: "Battery energy storage system sizing",
	Long: `bess sizes a battery energy storage system from cell, topology, target,
performance and BMS parameters, and keeps the last-used design in a slot.

Environment Variables:
  BESS_API_URL    Backend API URL for --remote commands (default: http://localhost:8080)
  STORE_BACKEND   file, sqlite, postgres or memory (default: file)
  DESIGN_SLOT     Slot holding the last-used design (default: bess-inputs)
  LOG_LEVEL       debug, info, warn, error (default: warn for the CLI)`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides BESS_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "Store backend (overrides STORE_BACKEND)")
	rootCmd.PersistentFlags().StringVar(&slotName, "slot", "", "Design slot (overrides DESIGN_SLOT)")
}

// initLogging sends logs to stderr so they never mix with command output.
// The CLI is quiet unless LOG_LEVEL asks for more.
func initLogging() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	slog.SetDefault(logger.New(os.Stderr, level, os.Getenv("LOG_FORMAT")))
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("BESS_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig reads the environment configuration and applies the global
// --store and --slot overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if storeBackend != "" {
		cfg.StoreBackend = storeBackend
	}
	if slotName != "" {
		cfg.DesignSlot = slotName
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore loads the configuration and opens its store
func openStore() (*config.Config, store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.StoreOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	return cfg, st, nil
}
