// ABOUTME: Test helpers for config tests
// ABOUTME: Unsets every configuration variable for the duration of a test

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// configKeys lists every variable Load reads
var configKeys = []string{
	"ENV_FILE",
	"PORT", "CACHE_TTL", "CORS_ALLOWED_ORIGINS",
	"STORE_BACKEND", "STORE_PATH", "STORE_DSN", "DESIGN_SLOT",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_WRITE", "RATE_LIMIT_DEFAULT",
}

// cleanEnv unsets the configuration variables, points ENV_FILE at a file
// that does not exist, then applies extra. Everything is restored when the
// test ends, including variables an env file sets.
func cleanEnv(t *testing.T, extra map[string]string) {
	t.Helper()

	keys := append([]string{}, configKeys...)
	for key := range extra {
		keys = append(keys, key)
	}
	for _, key := range keys {
		// t.Setenv registers the restore; the variable must then be truly
		// absent so godotenv is allowed to set it
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	os.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	for key, value := range extra {
		os.Setenv(key, value)
	}
}
