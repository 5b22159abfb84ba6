// ABOUTME: Report command for the bess CLI
// ABOUTME: Writes a PDF or XLSX report of one design to a file or stdout

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Simtestlab/bess-handbook/internal/client"
	"github.com/Simtestlab/bess-handbook/models"
	"github.com/Simtestlab/bess-handbook/report"
)

var (
	reportFormat string
	reportOutput string
	reportTitle  string
	reportRemote bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a design report",
	Long: `Write a PDF or XLSX report with the inputs, derived values and status
verdicts of a design. XLSX reports can be read back with --file.

Exit codes:
  0 - Report written
  2 - Error (invalid input, unwritable output, connectivity)`,
	Example: `  bess report --saved --format xlsx
  bess report -f design.yaml --output - > design.pdf`,
	Run: runWithExitCode(runReport),
}

var reportOpts = addDesignFlags(reportCmd)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportFormat, "format", string(report.FormatPDF), "Report format: pdf or xlsx")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", `Output file, "-" for stdout (default bess-report.<format>)`)
	reportCmd.Flags().StringVar(&reportTitle, "title", "", "Report title")
	reportCmd.Flags().BoolVar(&reportRemote, "remote", false, "Render the report through the API")
}

// runReport renders the report and returns exit code
func runReport(ctx context.Context, w io.Writer) int {
	format, err := report.ParseFormat(reportFormat)
	if err != nil {
		writeError(w, err)
		return 2
	}

	in, code := resolveDesign(ctx, w, reportOpts)
	if code != 0 {
		return code
	}

	var buf bytes.Buffer
	if reportRemote {
		err = asValidationError(client.New(GetAPIURL()).Report(ctx, in, string(format), reportTitle, &buf))
	} else {
		err = renderReport(ctx, &buf, format, in)
	}
	if err != nil {
		writeError(w, err)
		return 2
	}

	if reportOutput == "-" {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return 2
		}
		return 0
	}

	path := reportOutput
	if path == "" {
		path = format.Filename("")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		writeError(w, fmt.Errorf("failed to write report: %w", err))
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]interface{}{
			"path":   path,
			"format": format,
			"bytes":  buf.Len(),
		}, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Wrote %s report to %s (%d bytes)\n", format, path, buf.Len())
	}
	return 0
}

// renderReport computes in locally and renders it
func renderReport(ctx context.Context, w io.Writer, format report.Format, in models.DesignInput) error {
	r, err := evaluate(ctx, in, false)
	if err != nil {
		return err
	}
	return report.Write(w, format, report.Document{
		Title:       reportTitle,
		Slot:        slotName,
		GeneratedAt: time.Now(),
		Input:       in,
		Result:      r,
	})
}
