// ABOUTME: HTTP client for the BESS design API
// ABOUTME: Wraps API calls with proper error handling for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Simtestlab/bess-handbook/models"
)

// Client is the API client for the BESS design service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-200 response from the API
type APIError struct {
	StatusCode int
	Message    string
	Details    string
	Violations []models.Violation
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("backend error: %s: %s", e.Message, e.Details)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

// Health calls GET /api/v1/health
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var health models.HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Defaults calls GET /api/v1/design/defaults
func (c *Client) Defaults(ctx context.Context) (*models.DesignInput, error) {
	var in models.DesignInput
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/design/defaults", nil, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// Compute calls POST /api/v1/design/compute
func (c *Client) Compute(ctx context.Context, in models.DesignInput) (*models.DerivedResult, error) {
	var result models.DerivedResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/design/compute", in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetDesign calls GET /api/v1/design. An empty slot uses the server's default.
func (c *Client) GetDesign(ctx context.Context, slot string) (*models.DesignResponse, error) {
	var resp models.DesignResponse
	if err := c.doJSON(ctx, http.MethodGet, withSlot("/api/v1/design", slot), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SaveDesign calls PUT /api/v1/design
func (c *Client) SaveDesign(ctx context.Context, slot string, in models.DesignInput) (*models.DesignResponse, error) {
	var resp models.DesignResponse
	if err := c.doJSON(ctx, http.MethodPut, withSlot("/api/v1/design", slot), in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Report calls POST /api/v1/design/report and copies the attachment to w
func (c *Client) Report(ctx context.Context, in models.DesignInput, format, title string, w io.Writer) error {
	q := url.Values{}
	q.Set("format", format)
	if title != "" {
		q.Set("title", title)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/v1/design/report?"+q.Encode(), in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}
	return nil
}

func withSlot(path, slot string) string {
	if slot == "" {
		return path
	}
	return path + "?slot=" + url.QueryEscape(slot)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal input: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    errResp.Error,
		Details:    errResp.Details,
		Violations: errResp.Violations,
	}
}
