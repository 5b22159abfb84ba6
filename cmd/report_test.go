// ABOUTME: Tests for the report command
// ABOUTME: Verifies PDF and XLSX output, stdout streaming and format errors

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetReportFlags restores the report flags after a test
func resetReportFlags(t *testing.T) {
	t.Helper()
	resetDesignFlags(t, reportOpts)
	reset := func() {
		reportFormat, reportOutput, reportTitle, reportRemote = "pdf", "", "", false
	}
	reset()
	t.Cleanup(reset)
}

func TestReportCommand_PDFToFile(t *testing.T) {
	isolate(t)
	resetReportFlags(t)
	reportOutput = filepath.Join(t.TempDir(), "design.pdf")
	reportTitle = "Site A"

	var buf bytes.Buffer
	if exitCode := runReport(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d\n%s", exitCode, buf.String())
	}

	data, err := os.ReadFile(reportOutput)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("expected PDF header, got %q", data[:min(len(data), 8)])
	}
	if !strings.Contains(buf.String(), "Wrote pdf report to "+reportOutput) {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestReportCommand_XLSXRoundTrip(t *testing.T) {
	isolate(t)
	resetReportFlags(t)
	reportFormat = "XLSX"
	reportOutput = filepath.Join(t.TempDir(), "design.xlsx")
	setFlags(t, reportOpts, "series-modules", "21", "cell-chemistry", "NMC")
	jsonOutput = true

	var buf bytes.Buffer
	if exitCode := runReport(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d\n%s", exitCode, buf.String())
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["format"] != "xlsx" || parsed["path"] != reportOutput {
		t.Errorf("unexpected JSON output %v", parsed)
	}

	in, err := readDesignFile(reportOutput)
	if err != nil {
		t.Fatalf("failed to read report back: %v", err)
	}
	if in.SeriesModules != 21 || in.CellChemistry != "NMC" {
		t.Errorf("expected inputs to survive the report, got %+v", in)
	}
}

func TestReportCommand_Stdout(t *testing.T) {
	isolate(t)
	resetReportFlags(t)
	reportOutput = "-"

	var buf bytes.Buffer
	if exitCode := runReport(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("expected the PDF itself on stdout")
	}
}

func TestReportCommand_Remote(t *testing.T) {
	isolate(t)
	resetReportFlags(t)
	startAPI(t)
	reportRemote = true
	reportFormat = "xlsx"
	reportOutput = "-"

	var buf bytes.Buffer
	if exitCode := runReport(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d\n%s", exitCode, buf.String())
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Error("expected a zip container for xlsx")
	}
}

func TestReportCommand_Errors(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T)
		expect string
	}{
		{
			name:   "unknown format",
			setup:  func(t *testing.T) { reportFormat = "docx" },
			expect: "docx",
		},
		{
			name:   "invalid design",
			setup:  func(t *testing.T) { setFlags(t, reportOpts, "cells-per-ic", "0") },
			expect: "cellsPerIC=0",
		},
		{
			name: "unwritable output",
			setup: func(t *testing.T) {
				reportOutput = filepath.Join(t.TempDir(), "missing", "design.pdf")
			},
			expect: "failed to write report",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			resetReportFlags(t)
			tt.setup(t)

			var buf bytes.Buffer
			if exitCode := runReport(context.Background(), &buf); exitCode != 2 {
				t.Errorf("expected exit code 2, got %d", exitCode)
			}
			if !strings.Contains(buf.String(), tt.expect) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.expect, buf.String())
			}
		})
	}
}
