// ABOUTME: Test helpers for e2e tests
// ABOUTME: Starts the full API over a chosen store and wraps JSON requests

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Simtestlab/bess-handbook/config"
	"github.com/Simtestlab/bess-handbook/handlers"
	"github.com/Simtestlab/bess-handbook/models"
	"github.com/Simtestlab/bess-handbook/services"
	"github.com/Simtestlab/bess-handbook/store"
)

// testConfig returns a config for st with rate limiting off unless overridden
func testConfig(backend string, mutate func(*config.Config)) *config.Config {
	cfg := &config.Config{
		Port:             "8080",
		CacheTTL:         60,
		StoreBackend:     backend,
		DesignSlot:       models.DefaultSlot,
		RateLimitWrite:   20,
		RateLimitDefault: 100,
	}
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

// startServer serves the full mux built the same way the serve command does
func startServer(t *testing.T, cfg *config.Config, st store.Store) *httptest.Server {
	t.Helper()
	engine := services.NewMemoEngine(services.NewEngine(), time.Duration(cfg.CacheTTL)*time.Second)
	server := httptest.NewServer(handlers.NewServeMux(handlers.NewHandler(cfg, engine, st), cfg))
	t.Cleanup(func() {
		server.Close()
		engine.Close()
	})
	return server
}

// doJSON sends body as JSON and decodes a JSON response into out when given
func doJSON(t *testing.T, method, url string, body, out interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode %s %s response: %v", method, url, err)
		}
	}
	return resp
}
