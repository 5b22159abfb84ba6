// ABOUTME: End-to-end tests for rate limiting on the design API
// ABOUTME: Verifies the write and default tiers are independent and disable mode

package e2e

import (
	"net/http"
	"testing"

	"github.com/Simtestlab/bess-handbook/config"
	"github.com/Simtestlab/bess-handbook/models"
	"github.com/Simtestlab/bess-handbook/store"
)

func TestRateLimit_E2E_WriteTier(t *testing.T) {
	cfg := testConfig(store.BackendMemory, func(c *config.Config) {
		c.RateLimitEnabled = true
		c.RateLimitWrite = 3
		c.RateLimitDefault = 100
	})
	server := startServer(t, cfg, store.NewMemoryStore())
	url := server.URL + "/api/v1/design/compute"

	// First 3 writes should succeed
	for i := 0; i < 3; i++ {
		resp := doJSON(t, http.MethodPost, url, models.DefaultDesignInput(), nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Request %d should succeed, got %d", i+1, resp.StatusCode)
		}
	}

	// 4th write should be rate limited
	var errResp models.ErrorResponse
	resp := doJSON(t, http.MethodPost, url, models.DefaultDesignInput(), &errResp)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}
	if errResp.Error != "Rate limit exceeded" {
		t.Errorf("Expected rate limit error, got %q", errResp.Error)
	}

	// Reads draw from the default tier and still succeed
	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/design/defaults", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected reads to be unaffected, got %d", resp.StatusCode)
	}
}

func TestRateLimit_E2E_Disabled(t *testing.T) {
	cfg := testConfig(store.BackendMemory, func(c *config.Config) {
		c.RateLimitEnabled = false
		c.RateLimitWrite = 1
	})
	server := startServer(t, cfg, store.NewMemoryStore())

	for i := 0; i < 10; i++ {
		resp := doJSON(t, http.MethodPut, server.URL+"/api/v1/design", models.DefaultDesignInput(), nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Request %d should succeed with rate limiting disabled, got %d", i+1, resp.StatusCode)
		}
	}
}
