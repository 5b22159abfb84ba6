// ABOUTME: TUI command for the bess CLI
// ABOUTME: Opens the interactive dashboard on the configured store and slot

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Simtestlab/bess-handbook/internal/tui"
	"github.com/Simtestlab/bess-handbook/services"
	"github.com/Simtestlab/bess-handbook/store"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive design dashboard",
	Long: `Open the interactive dashboard. The saved design is loaded on start,
every edit is recomputed and saved to the slot, and logs are written to
debug.log in the config directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		engine := services.NewMemoEngine(services.NewEngine(), time.Duration(cfg.CacheTTL)*time.Second)
		defer engine.Close()

		if err := tui.Run(engine, st, cfg.DesignSlot, store.DefaultDir()); err != nil {
			return fmt.Errorf("tui failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
