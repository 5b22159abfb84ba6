// ABOUTME: Handler for serving the embedded OpenAPI document
// ABOUTME: Answers conditional requests and lists the operations the document covers

package handlers

import (
	"crypto/sha256"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openapiSpec []byte

var openapiETag = fmt.Sprintf(`"%x"`, sha256.Sum256(openapiSpec))

var httpMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// OpenAPISpec serves the embedded OpenAPI document.
func (h *Handler) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", openapiETag)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if r.Header.Get("If-None-Match") == openapiETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	if _, err := w.Write(openapiSpec); err != nil {
		slog.Warn("Failed to write OpenAPI document", "error", err)
	}
}

// documentedOperations returns "METHOD /path" for every operation in the
// embedded document, sorted
func documentedOperations() ([]string, error) {
	var doc struct {
		Paths map[string]map[string]yaml.Node `yaml:"paths"`
	}
	if err := yaml.Unmarshal(openapiSpec, &doc); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	var ops []string
	for path, item := range doc.Paths {
		for key := range item {
			// Path items also hold shared keys such as parameters
			if method := strings.ToUpper(key); httpMethods[method] {
				ops = append(ops, method+" "+path)
			}
		}
	}
	sort.Strings(ops)
	return ops, nil
}
