// ABOUTME: Compute command for the bess CLI
// ABOUTME: Evaluates one design from flags, a design file or the saved slot

package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var computeRemote bool

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute a design",
	Long: `Compute every derived value of a design and print the results.

The input starts from the defaults, or from --file or --saved, and any
design flag given explicitly overrides that field.

Exit codes:
  0 - Design computed
  2 - Error (invalid input, unreadable file, connectivity)`,
	Example: `  bess compute --series-modules 21
  bess compute -f design.yaml --json
  bess compute --saved --remote`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCompute(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var computeOpts = addDesignFlags(computeCmd)

func init() {
	rootCmd.AddCommand(computeCmd)
	computeCmd.Flags().BoolVar(&computeRemote, "remote", false, "Compute through the API instead of locally")
}

// runCompute evaluates the design and returns exit code
func runCompute(ctx context.Context, w io.Writer) int {
	in, code := resolveDesign(ctx, w, computeOpts)
	if code != 0 {
		return code
	}

	r, err := evaluate(ctx, in, computeRemote)
	if err != nil {
		writeError(w, err)
		return 2
	}

	writeDesign(w, "", in, r)
	return 0
}
