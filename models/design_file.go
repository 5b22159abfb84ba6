// ABOUTME: Reads design inputs from YAML or JSON documents
// ABOUTME: Missing keys keep their default values so partial files are accepted

package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseDesign decodes a flat YAML or JSON document onto the defaults.
// JSON is accepted because it is valid YAML with the same keys.
func ParseDesign(data []byte) (DesignInput, error) {
	in := DefaultDesignInput()
	if err := yaml.Unmarshal(data, &in); err != nil {
		return DesignInput{}, fmt.Errorf("invalid design document: %w", err)
	}
	return in, nil
}

// ReadDesignFile loads a design document from disk
func ReadDesignFile(path string) (DesignInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DesignInput{}, fmt.Errorf("failed to read design file: %w", err)
	}
	return ParseDesign(data)
}

// MarshalDesignYAML renders an input as a YAML design document
func MarshalDesignYAML(in DesignInput) ([]byte, error) {
	return yaml.Marshal(in)
}
