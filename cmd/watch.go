// ABOUTME: Watch command for the bess CLI
// ABOUTME: Recomputes a design file on every change and optionally saves it

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Simtestlab/bess-handbook/internal/watch"
	"github.com/Simtestlab/bess-handbook/models"
	"github.com/Simtestlab/bess-handbook/services"
	"github.com/Simtestlab/bess-handbook/store"
)

var (
	watchSave     bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Recompute a design file whenever it changes",
	Long: `Watch a YAML, JSON or XLSX design file and print the verdicts each
time it is saved. Bursts of writes are debounced and the file is reread, so
the last write wins. With --save every valid revision is saved to the slot.

With --json each revision is printed as one JSON object per line.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWatch(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchSave, "save", false, "Save each valid revision to the slot")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before a change is processed")
}

// watchEvent is the JSON line printed for each revision
type watchEvent struct {
	Path   string                `json:"path"`
	At     time.Time             `json:"at"`
	Input  *models.DesignInput   `json:"input,omitempty"`
	Result *models.DerivedResult `json:"result,omitempty"`
	Saved  *bool                 `json:"saved,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// runWatch blocks until ctx is cancelled and returns exit code
func runWatch(ctx context.Context, w io.Writer, path string) int {
	var st store.Store
	var slot string
	if watchSave {
		cfg, s, err := openStore()
		if err != nil {
			writeError(w, err)
			return 2
		}
		defer s.Close()
		st, slot = s, cfg.DesignSlot
	}

	engine := services.NewMemoEngine(services.NewEngine(), 10*time.Minute)
	defer engine.Close()

	watcher := watch.New(path, engine, readDesignFile)
	watcher.SetDebounce(watchDebounce)

	err := watcher.Run(ctx, func(u watch.Update) {
		var saved *bool
		if st != nil && u.Err == nil {
			ok := store.SaveOrReport(ctx, st, slot, u.Input)
			saved = &ok
		}
		writeWatchUpdate(w, u, saved)
	})
	if err != nil {
		writeError(w, err)
		return 2
	}
	return 0
}

func writeWatchUpdate(w io.Writer, u watch.Update, saved *bool) {
	if IsJSONOutput() {
		ev := watchEvent{Path: u.Path, At: u.At, Saved: saved}
		if u.Err != nil {
			ev.Error = u.Err.Error()
		} else {
			ev.Input, ev.Result = &u.Input, &u.Result
		}
		data, _ := json.Marshal(ev)
		fmt.Fprintln(w, string(data))
		return
	}

	prefix := fmt.Sprintf("[%s] %s:", u.At.Format("15:04:05"), filepath.Base(u.Path))
	if u.Err != nil {
		fmt.Fprintf(w, "%s error: %v\n", prefix, u.Err)
		return
	}

	line := fmt.Sprintf("%s %s, %s (pack %.2f kWh, usable %.2f kWh, %d racks)",
		prefix, u.Result.DesignStatus, u.Result.EnergyStatus,
		u.Result.PackEnergyKwh, u.Result.UsableEnergyKwh, u.Result.RackCount)
	if saved != nil {
		if *saved {
			line += " saved"
		} else {
			line += " not saved"
		}
	}
	fmt.Fprintln(w, line)
}
