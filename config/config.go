// ABOUTME: Configuration loader for the BESS sizing service
// ABOUTME: Loads settings from an optional .env file and environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Simtestlab/bess-handbook/models"
	"github.com/Simtestlab/bess-handbook/store"
)

type Config struct {
	// Server
	Port               string
	CacheTTL           int      // seconds, for memoized design results
	CORSAllowedOrigins []string // allowed CORS origins (empty = block all cross-origin)

	// Persistence
	StoreBackend string // file, sqlite, postgres, memory (default: file)
	StorePath    string // directory for file, database file for sqlite
	StoreDSN     string // connection string for postgres
	DesignSlot   string // slot holding the last-used design (default: bess-inputs)

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitWrite   int  // Requests per minute for write endpoints (default: 20)
	RateLimitDefault int  // Requests per minute for all other endpoints (default: 100)
}

// StoreOptions returns the persistence settings in the form store.Open expects
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend: c.StoreBackend,
		Path:    c.StorePath,
		DSN:     c.StoreDSN,
	}
}

// Load reads the .env file named by ENV_FILE (default .env) if present, then
// builds the configuration from the environment. Variables already set in
// the environment take precedence over the file.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	} else {
		slog.Debug("Loaded environment file", "path", envFile)
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CacheTTL:           getEnvInt("CACHE_TTL", 300),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", store.BackendFile)),
		StorePath:    os.Getenv("STORE_PATH"),
		StoreDSN:     os.Getenv("STORE_DSN"),
		DesignSlot:   getEnv("DESIGN_SLOT", models.DefaultSlot),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitWrite:   getEnvInt("RATE_LIMIT_WRITE", 20),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 100),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field requirements
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}

	if c.CacheTTL < 1 || c.CacheTTL > 86400 {
		return fmt.Errorf("CACHE_TTL must be between 1 and 86400, got %d", c.CacheTTL)
	}

	switch c.StoreBackend {
	case store.BackendFile, store.BackendSQLite, store.BackendMemory:
	case store.BackendPostgres:
		if c.StoreDSN == "" {
			return fmt.Errorf("STORE_DSN is required when STORE_BACKEND is postgres")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of file, sqlite, postgres, memory, got %q", c.StoreBackend)
	}

	if err := store.ValidateKey(c.DesignSlot); err != nil {
		return fmt.Errorf("DESIGN_SLOT: %w", err)
	}

	// Validate rate limit values
	for _, rl := range []struct {
		name  string
		value int
	}{
		{"RATE_LIMIT_WRITE", c.RateLimitWrite},
		{"RATE_LIMIT_DEFAULT", c.RateLimitDefault},
	} {
		if rl.value < 1 || rl.value > 10000 {
			return fmt.Errorf("%s must be between 1 and 10000, got %d", rl.name, rl.value)
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
