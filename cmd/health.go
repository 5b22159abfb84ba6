// ABOUTME: Health command for the bess CLI
// ABOUTME: Checks backend connectivity and reports its store, slot and cache

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Simtestlab/bess-handbook/internal/client"
	"github.com/Simtestlab/bess-handbook/models"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the BESS design API and report its store backend, slot and cache.`,
	Run:   runWithExitCode(runHealth),
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth queries the API's health endpoint and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	backend := GetAPIURL()

	resp, err := client.New(backend).Health(ctx)
	if err != nil {
		writeError(w, err)
		return 2
	}

	format := formatHealthHuman
	if IsJSONOutput() {
		format = formatHealthJSON
	}
	fmt.Fprintln(w, format(backend, resp))
	return 0
}

// formatHealthHuman prints one aligned line per health field
func formatHealthHuman(backend string, resp *models.HealthResponse) string {
	var sb strings.Builder
	for _, line := range [][2]string{
		{"Backend", backend},
		{"Status", resp.Status},
		{"Store", resp.StoreBackend},
		{"Slot", resp.Slot},
		{"Cache Entries", strconv.Itoa(resp.CacheEntries)},
	} {
		fmt.Fprintf(&sb, "%-15s%s\n", line[0]+":", line[1])
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// formatHealthJSON adds the queried backend URL to the health response
func formatHealthJSON(backend string, resp *models.HealthResponse) string {
	data, _ := json.MarshalIndent(struct {
		Backend string `json:"backend"`
		*models.HealthResponse
	}{backend, resp}, "", "  ")
	return string(data)
}
