// ABOUTME: Check command for the bess CLI
// ABOUTME: Gates CI pipelines on the design and energy verdicts of a design

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Simtestlab/bess-handbook/models"
)

var checkRemote bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a design meets its targets",
	Long: `Check that a design is Optimal and meets its energy target, and exit
non-zero if it does not.

Exit codes:
  0 - All checks passed
  1 - One or more checks failed
  2 - Error (invalid input, unreadable file, connectivity)`,
	Example: `  bess check -f design.yaml
  bess check --saved --remote --json`,
	Run: runWithExitCode(runCheck),
}

var checkOpts = addDesignFlags(checkCmd)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkRemote, "remote", false, "Compute through the API instead of locally")
}

// checkResult is one verdict compared with the value that passes
type checkResult struct {
	name     string
	actual   string
	expected string
	detail   string
	passed   bool
}

// runCheck executes the verdict checks and returns exit code
func runCheck(ctx context.Context, w io.Writer) int {
	in, code := resolveDesign(ctx, w, checkOpts)
	if code != 0 {
		return code
	}

	r, err := evaluate(ctx, in, checkRemote)
	if err != nil {
		writeError(w, err)
		return 2
	}

	results := performChecks(in, r)
	format := formatCheckHuman
	if IsJSONOutput() {
		format = formatCheckJSON
	}
	fmt.Fprintln(w, format(results))

	if _, failed := countResults(results); failed > 0 {
		return 1
	}
	return 0
}

// performChecks compares the verdicts of r against the passing ones
func performChecks(in models.DesignInput, r models.DerivedResult) []checkResult {
	return []checkResult{
		{
			name:     "Design status",
			actual:   string(r.DesignStatus),
			expected: string(models.DesignOptimal),
			detail:   fmt.Sprintf("required %d modules, designed %d", r.RequiredModules, r.TotalModules),
			passed:   r.DesignStatus == models.DesignOptimal,
		},
		{
			name:     "Energy status",
			actual:   string(r.EnergyStatus),
			expected: string(models.EnergyTargetMet),
			detail:   fmt.Sprintf("usable %.2f kWh, target %g kWh", r.UsableEnergyKwh, in.TargetEnergy),
			passed:   r.EnergyStatus == models.EnergyTargetMet,
		},
	}
}

// countResults tallies passed and failed checks
func countResults(results []checkResult) (passed, failed int) {
	for _, r := range results {
		if !r.passed {
			failed++
		}
	}
	return len(results) - failed, failed
}

// formatCheckHuman prints one line per check and a summary
func formatCheckHuman(results []checkResult) string {
	var sb strings.Builder
	for _, r := range results {
		mark := "✓"
		if !r.passed {
			mark = "✗"
		}
		fmt.Fprintf(&sb, "%s %s: %s (%s)\n", mark, r.name, r.actual, r.detail)
	}

	switch passed, failed := countResults(results); {
	case failed > 0:
		fmt.Fprintf(&sb, "\nFAILED: %d check(s) did not pass", failed)
	default:
		fmt.Fprintf(&sb, "\nPASSED: All %d check(s) passed", passed)
	}
	return sb.String()
}

// checkJSON is the JSON shape of one check
type checkJSON struct {
	Name     string `json:"name"`
	Actual   string `json:"actual"`
	Expected string `json:"expected"`
	Detail   string `json:"detail"`
	Passed   bool   `json:"passed"`
}

// formatCheckJSON renders the overall status and every check as JSON
func formatCheckJSON(results []checkResult) string {
	out := struct {
		Status string      `json:"status"`
		Checks []checkJSON `json:"checks"`
	}{Status: "passed", Checks: make([]checkJSON, 0, len(results))}

	for _, r := range results {
		out.Checks = append(out.Checks, checkJSON{r.name, r.actual, r.expected, r.detail, r.passed})
		if !r.passed {
			out.Status = "failed"
		}
	}

	data, _ := json.MarshalIndent(out, "", "  ")
	return string(data)
}
