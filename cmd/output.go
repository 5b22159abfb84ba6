// ABOUTME: Shared evaluation and output formatting for design commands
// ABOUTME: Runs the engine locally or through the API and renders human or JSON output

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Simtestlab/bess-handbook/internal/client"
	"github.com/Simtestlab/bess-handbook/models"
	"github.com/Simtestlab/bess-handbook/report"
	"github.com/Simtestlab/bess-handbook/services"
)

// evaluate computes in locally, or through the API when remote is set.
// Violations reported by the API come back as a *services.ValidationError.
func evaluate(ctx context.Context, in models.DesignInput, remote bool) (models.DerivedResult, error) {
	if !remote {
		return services.NewEngine().Compute(in)
	}

	r, err := client.New(GetAPIURL()).Compute(ctx, in)
	if err != nil {
		return models.DerivedResult{}, asValidationError(err)
	}
	return *r, nil
}

// asValidationError converts a 422 API error into the engine's error type
func asValidationError(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnprocessableEntity && len(apiErr.Violations) > 0 {
		return &services.ValidationError{Violations: apiErr.Violations}
	}
	return err
}

// designOutput is the JSON shape of an evaluated design
type designOutput struct {
	Slot    string               `json:"slot,omitempty"`
	Input   models.DesignInput   `json:"input"`
	Result  models.DerivedResult `json:"result"`
	Banners []report.Banner      `json:"banners"`
}

func severitySymbol(s report.Severity) string {
	switch s {
	case report.SeverityOK:
		return "✓"
	case report.SeverityWarning:
		return "!"
	default:
		return "✗"
	}
}

// formatDesignHuman renders headlines, banners and every result section
func formatDesignHuman(in models.DesignInput, r models.DerivedResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "BESS Design: %s %s\n\n", in.CellChemistry, in.Topology())

	for _, row := range report.Headlines(in, r) {
		fmt.Fprintf(&sb, "%-15s %s %s\n", row.Label, row.Value, row.Unit)
	}
	sb.WriteString("\n")

	for _, b := range report.Banners(in, r) {
		fmt.Fprintf(&sb, "%s %s\n", severitySymbol(b.Severity), b.Message)
	}

	sections := report.Sections(r)
	width := 0
	for _, s := range sections {
		for _, row := range s.Rows {
			width = max(width, len(row.Label))
		}
	}

	for _, s := range sections {
		fmt.Fprintf(&sb, "\n%s\n", s.Title)
		for _, row := range s.Rows {
			line := fmt.Sprintf("  %-*s  %s %s", width, row.Label, row.Value, row.Unit)
			sb.WriteString(strings.TrimRight(line, " "))
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// formatDesignJSON renders the input, result and banners as indented JSON
func formatDesignJSON(slot string, in models.DesignInput, r models.DerivedResult) string {
	data, _ := json.MarshalIndent(designOutput{
		Slot:    slot,
		Input:   in,
		Result:  r,
		Banners: report.Banners(in, r),
	}, "", "  ")
	return string(data)
}

// writeDesign prints an evaluated design in the selected output mode
func writeDesign(w io.Writer, slot string, in models.DesignInput, r models.DerivedResult) {
	if IsJSONOutput() {
		fmt.Fprintln(w, formatDesignJSON(slot, in, r))
	} else {
		fmt.Fprintln(w, formatDesignHuman(in, r))
	}
}

// writeError prints err, listing each violation for invalid designs
func writeError(w io.Writer, err error) {
	var vErr *services.ValidationError
	if !errors.As(err, &vErr) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(models.ErrorResponse{
			Error:      "Invalid design input",
			Violations: vErr.Violations,
			Code:       http.StatusUnprocessableEntity,
		}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	fmt.Fprintln(w, "Error: invalid design input")
	for _, v := range vErr.Violations {
		fmt.Fprintf(w, "  %s=%g: %s\n", v.Field, v.Value, v.Reason)
	}
}
