// ABOUTME: HTTP handler for downloadable PDF and XLSX design reports
// ABOUTME: Renders into memory first so failures still produce JSON errors

package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Simtestlab/bess-handbook/report"
)

// ReportDesign renders the posted input as an attachment. The format comes
// from ?format=pdf|xlsx (default pdf) and an optional ?title= overrides the heading.
func (h *Handler) ReportDesign(w http.ResponseWriter, r *http.Request) {
	format := report.FormatPDF
	if f := r.URL.Query().Get("format"); f != "" {
		parsed, err := report.ParseFormat(f)
		if err != nil {
			h.writeError(w, "Unsupported report format, use pdf or xlsx", http.StatusBadRequest)
			return
		}
		format = parsed
	}

	in, ok := h.decodeDesign(w, r)
	if !ok {
		return
	}

	result, ok := h.compute(w, in)
	if !ok {
		return
	}

	doc := report.Document{
		Title:       r.URL.Query().Get("title"),
		GeneratedAt: h.now(),
		Input:       in,
		Result:      result,
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, format, doc); err != nil {
		slog.Error("Failed to render report", "format", format, "error", err)
		h.writeError(w, "Failed to render report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename("")))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("Failed to write report", "error", err)
	}
}
