// ABOUTME: Tests for the BESS design API client
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Simtestlab/bess-handbook/models"
)

func TestHealth_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/health" {
			t.Errorf("expected path /api/v1/health, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.HealthResponse{Status: "ok", StoreBackend: "sqlite", Slot: "bess-inputs"})
	}))
	defer server.Close()

	c := New(server.URL + "/")
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %s", resp.Status)
	}
	if resp.StoreBackend != "sqlite" {
		t.Errorf("expected store backend sqlite, got %s", resp.StoreBackend)
	}
}

func TestHealth_ConnectionError(t *testing.T) {
	c := New("http://localhost:99999")
	_, err := c.Health(context.Background())
	if err == nil {
		t.Error("expected connection error, got nil")
	}
}

func TestHealth_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Health(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "internal error" {
		t.Errorf("expected message internal error, got %s", apiErr.Message)
	}
}

func TestHealth_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(server.URL).Health(context.Background())
	if err == nil || !strings.Contains(err.Error(), "status 502") {
		t.Errorf("expected status 502 error, got %v", err)
	}
}

func TestHealth_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.HealthResponse{Status: "ok"})
	}))
	defer server.Close()

	c := New(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := c.Health(ctx)
	if err == nil {
		t.Fatal("expected error for canceled context, got nil")
	}
	if err.Error() != "request canceled" {
		t.Errorf("expected request canceled, got %v", err)
	}
}

func TestDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/design/defaults" {
			t.Errorf("expected path /api/v1/design/defaults, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.DefaultDesignInput())
	}))
	defer server.Close()

	in, err := New(server.URL).Defaults(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *in != models.DefaultDesignInput() {
		t.Errorf("expected defaults, got %+v", *in)
	}
}

func TestCompute_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/v1/design/compute" {
			t.Errorf("expected path /api/v1/design/compute, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", ct)
		}

		var in models.DesignInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if in.SeriesModules != 21 {
			t.Errorf("expected seriesModules 21, got %d", in.SeriesModules)
		}

		json.NewEncoder(w).Encode(models.DerivedResult{
			TotalModules: 105,
			DesignStatus: models.DesignOptimal,
		})
	}))
	defer server.Close()

	in := models.DefaultDesignInput()
	in.SeriesModules = 21

	result, err := New(server.URL).Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DesignStatus != models.DesignOptimal {
		t.Errorf("expected Optimal, got %s", result.DesignStatus)
	}
}

func TestCompute_ValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(models.ErrorResponse{
			Error:      "Invalid design input",
			Details:    "invalid design input: cRate=0: must be greater than zero",
			Violations: []models.Violation{{Field: "cRate", Value: 0, Reason: "must be greater than zero"}},
			Code:       http.StatusUnprocessableEntity,
		})
	}))
	defer server.Close()

	_, err := New(server.URL).Compute(context.Background(), models.DefaultDesignInput())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", apiErr.StatusCode)
	}
	if len(apiErr.Violations) != 1 || apiErr.Violations[0].Field != "cRate" {
		t.Errorf("expected a cRate violation, got %+v", apiErr.Violations)
	}
	if !strings.Contains(err.Error(), "cRate=0") {
		t.Errorf("expected details in message, got %q", err.Error())
	}
}

func TestGetDesign_Slot(t *testing.T) {
	tests := []struct {
		slot      string
		wantQuery string
	}{
		{"", ""},
		{"site-a", "slot=site-a"},
	}

	for _, tt := range tests {
		t.Run(tt.slot, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.RawQuery != tt.wantQuery {
					t.Errorf("expected query %q, got %q", tt.wantQuery, r.URL.RawQuery)
				}
				json.NewEncoder(w).Encode(models.DesignResponse{Slot: tt.slot, Input: models.DefaultDesignInput(), Persisted: true})
			}))
			defer server.Close()

			resp, err := New(server.URL).GetDesign(context.Background(), tt.slot)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !resp.Persisted {
				t.Error("expected persisted=true")
			}
		})
	}
}

func TestSaveDesign(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		var in models.DesignInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(models.DesignResponse{Slot: r.URL.Query().Get("slot"), Input: in, Persisted: false})
	}))
	defer server.Close()

	resp, err := New(server.URL).SaveDesign(context.Background(), "site-b", models.DefaultDesignInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Slot != "site-b" {
		t.Errorf("expected slot site-b, got %s", resp.Slot)
	}
	if resp.Persisted {
		t.Error("expected persisted=false to be passed through")
	}
}

func TestReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "xlsx" {
			t.Errorf("expected format xlsx, got %s", got)
		}
		if got := r.URL.Query().Get("title"); got != "Site A" {
			t.Errorf("expected title Site A, got %s", got)
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Write([]byte("PK-workbook"))
	}))
	defer server.Close()

	var buf bytes.Buffer
	if err := New(server.URL).Report(context.Background(), models.DefaultDesignInput(), "xlsx", "Site A", &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "PK-workbook" {
		t.Errorf("expected attachment body, got %q", buf.String())
	}
}

func TestReport_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Unsupported report format, use pdf or xlsx", Code: 400})
	}))
	defer server.Close()

	var buf bytes.Buffer
	err := New(server.URL).Report(context.Background(), models.DefaultDesignInput(), "csv", "", &buf)
	if err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Error("expected nothing written on error")
	}
}
