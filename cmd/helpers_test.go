// ABOUTME: Shared helpers for command tests
// ABOUTME: Isolates configuration, resets global flags and starts an in-process API

package cmd

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/Simtestlab/bess-handbook/config"
	"github.com/Simtestlab/bess-handbook/handlers"
	"github.com/Simtestlab/bess-handbook/services"
	"github.com/Simtestlab/bess-handbook/store"
)

// isolate points configuration at a temp file store and clears global flags
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("STORE_BACKEND", store.BackendFile)
	t.Setenv("STORE_PATH", dir)
	t.Setenv("DESIGN_SLOT", "")
	t.Setenv("BESS_API_URL", "")

	apiURL, jsonOutput, storeBackend, slotName = "", false, "", ""
	t.Cleanup(func() {
		apiURL, jsonOutput, storeBackend, slotName = "", false, "", ""
	})
	return dir
}

// resetDesignFlags restores o to defaults with no flag marked as set
func resetDesignFlags(t *testing.T, o *designOptions) {
	t.Helper()
	reset := func() {
		o.file, o.saved = "", false
		o.flags.VisitAll(func(f *pflag.Flag) {
			f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset()
	t.Cleanup(reset)
}

// setFlags sets design flags as if they were given on the command line
func setFlags(t *testing.T, o *designOptions, kv ...string) {
	t.Helper()
	for i := 0; i+1 < len(kv); i += 2 {
		if err := o.flags.Set(kv[i], kv[i+1]); err != nil {
			t.Fatalf("Failed to set --%s: %v", kv[i], err)
		}
	}
}

// startAPI serves the real API over a memory store and points the CLI at it
func startAPI(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	cfg := &config.Config{
		Port:         "8080",
		CacheTTL:     60,
		StoreBackend: store.BackendMemory,
		DesignSlot:   "bess-inputs",
	}
	st := store.NewMemoryStore()
	engine := services.NewMemoEngine(services.NewEngine(), time.Minute)
	server := httptest.NewServer(handlers.NewServeMux(handlers.NewHandler(cfg, engine, st), cfg))
	t.Cleanup(func() {
		server.Close()
		engine.Close()
	})

	apiURL = server.URL
	return server, st
}
