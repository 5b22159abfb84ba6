// ABOUTME: API request and response envelopes for the design endpoints
// ABOUTME: JSON-serializable structures shared by handlers and the CLI client

package models

import (
	"encoding/json"
	"math"
	"time"
)

// Violation describes one input field that failed validation
type Violation struct {
	Field  string  `json:"field"`
	Value  float64 `json:"value"`
	Reason string  `json:"reason"`
}

// MarshalJSON encodes non-finite values as null, which JSON cannot represent
func (v Violation) MarshalJSON() ([]byte, error) {
	var value *float64
	if !math.IsNaN(v.Value) && !math.IsInf(v.Value, 0) {
		value = &v.Value
	}
	return json.Marshal(struct {
		Field  string   `json:"field"`
		Value  *float64 `json:"value"`
		Reason string   `json:"reason"`
	}{v.Field, value, v.Reason})
}

// DesignResponse pairs an input with the result derived from it
type DesignResponse struct {
	Slot      string        `json:"slot,omitempty"`
	Input     DesignInput   `json:"input"`
	Result    DerivedResult `json:"result"`
	Persisted bool          `json:"persisted"` // False when the save attempt failed or was not made
	Timestamp time.Time     `json:"timestamp"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status       string `json:"status"`
	StoreBackend string `json:"store_backend"`
	Slot         string `json:"slot"`
	CacheEntries int    `json:"cache_entries"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error      string      `json:"error"`
	Details    string      `json:"details,omitempty"`
	Violations []Violation `json:"violations,omitempty"`
	Code       int         `json:"code"`
}
