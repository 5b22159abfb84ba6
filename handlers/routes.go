// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import "net/http"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},

		// Design
		{Method: http.MethodGet, Path: "/api/v1/design/defaults", Handler: h.GetDefaults},
		{Method: http.MethodPost, Path: "/api/v1/design/compute", Handler: h.ComputeDesign},
		{Method: http.MethodGet, Path: "/api/v1/design", Handler: h.GetDesign},
		{Method: http.MethodPut, Path: "/api/v1/design", Handler: h.SaveDesign},
		{Method: http.MethodPost, Path: "/api/v1/design/report", Handler: h.ReportDesign},

		// Documentation
		{Method: http.MethodGet, Path: "/api/v1/openapi.yaml", Handler: h.OpenAPISpec},
	}
}
