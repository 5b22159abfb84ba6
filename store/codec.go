// ABOUTME: Flat JSON document encoding for persisted design inputs
// ABOUTME: Decoding overlays onto the defaults so older documents stay loadable

package store

import (
	"encoding/json"
	"fmt"

	"github.com/Simtestlab/bess-handbook/models"
)

// Encode renders an input as the flat key/value document stored in a slot
func Encode(in models.DesignInput) ([]byte, error) {
	return json.MarshalIndent(in, "", "  ")
}

// Decode parses a slot document. Keys missing from data keep their defaults.
func Decode(data []byte) (models.DesignInput, error) {
	in := models.DefaultDesignInput()
	if err := json.Unmarshal(data, &in); err != nil {
		return models.DesignInput{}, fmt.Errorf("invalid design document: %w", err)
	}
	return in, nil
}
