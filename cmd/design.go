// ABOUTME: Design command group for the bess CLI
// ABOUTME: Shows, saves, resets and lists designs persisted in slots

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Simtestlab/bess-handbook/internal/client"
	"github.com/Simtestlab/bess-handbook/models"
	"github.com/Simtestlab/bess-handbook/store"
)

var designRemote bool

var designCmd = &cobra.Command{
	Use:   "design",
	Short: "Manage the persisted design",
	Long: `Inspect or change the design persisted in a slot. The slot comes from
--slot, DESIGN_SLOT, or defaults to bess-inputs.`,
}

var designShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the persisted design and its results",
	Run:   runWithExitCode(runDesignShow),
}

var designSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a design to the slot",
	Long: `Compute a design and save it to the slot. Invalid designs are rejected
and nothing is saved.`,
	Example: `  bess design save -f design.yaml
  bess design save --saved --target-energy 420`,
	Run: runWithExitCode(runDesignSave),
}

var designResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Overwrite the slot with the default design",
	Run:   runWithExitCode(runDesignReset),
}

var designListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved slots",
	Run:   runWithExitCode(runDesignList),
}

var designSaveOpts = addDesignFlags(designSaveCmd)

func init() {
	rootCmd.AddCommand(designCmd)
	designCmd.AddCommand(designShowCmd, designSaveCmd, designResetCmd, designListCmd)
	designCmd.PersistentFlags().BoolVar(&designRemote, "remote", false, "Use the API's store instead of the local one")
}

// runWithExitCode adapts a runX function to cobra with signal handling
func runWithExitCode(run func(ctx context.Context, w io.Writer) int) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := run(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}
}

// runDesignShow prints the persisted design of the slot
func runDesignShow(ctx context.Context, w io.Writer) int {
	var resp *models.DesignResponse
	var err error
	if designRemote {
		resp, err = client.New(GetAPIURL()).GetDesign(ctx, slotName)
	} else {
		resp, err = showLocal(ctx)
	}
	if err != nil {
		writeError(w, err)
		return 2
	}

	writeDesignResponse(w, resp)
	return 0
}

func showLocal(ctx context.Context) (*models.DesignResponse, error) {
	cfg, st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	in, err := st.Load(ctx, cfg.DesignSlot)
	persisted := err == nil
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		in = models.DefaultDesignInput()
	}

	r, err := evaluate(ctx, in, false)
	if err != nil {
		return nil, err
	}
	return &models.DesignResponse{
		Slot:      cfg.DesignSlot,
		Input:     in,
		Result:    r,
		Persisted: persisted,
		Timestamp: time.Now(),
	}, nil
}

// runDesignSave computes the resolved design and saves it
func runDesignSave(ctx context.Context, w io.Writer) int {
	in, code := resolveDesign(ctx, w, designSaveOpts)
	if code != 0 {
		return code
	}
	return saveDesign(ctx, w, in)
}

// runDesignReset saves the default design to the slot
func runDesignReset(ctx context.Context, w io.Writer) int {
	return saveDesign(ctx, w, models.DefaultDesignInput())
}

func saveDesign(ctx context.Context, w io.Writer, in models.DesignInput) int {
	var resp *models.DesignResponse
	var err error
	if designRemote {
		resp, err = client.New(GetAPIURL()).SaveDesign(ctx, slotName, in)
		if err == nil && !resp.Persisted {
			err = fmt.Errorf("backend could not persist slot %s", resp.Slot)
		}
		err = asValidationError(err)
	} else {
		resp, err = saveLocal(ctx, in)
	}
	if err != nil {
		writeError(w, err)
		return 2
	}

	writeDesignResponse(w, resp)
	return 0
}

func saveLocal(ctx context.Context, in models.DesignInput) (*models.DesignResponse, error) {
	r, err := evaluate(ctx, in, false)
	if err != nil {
		return nil, err
	}

	cfg, st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if err := st.Save(ctx, cfg.DesignSlot, in); err != nil {
		return nil, err
	}
	return &models.DesignResponse{
		Slot:      cfg.DesignSlot,
		Input:     in,
		Result:    r,
		Persisted: true,
		Timestamp: time.Now(),
	}, nil
}

// runDesignList prints the slots of the local store
func runDesignList(ctx context.Context, w io.Writer) int {
	cfg, st, err := openStore()
	if err != nil {
		writeError(w, err)
		return 2
	}
	defer st.Close()

	lister, ok := st.(store.Lister)
	if !ok {
		writeError(w, fmt.Errorf("the %s store cannot list slots", cfg.StoreBackend))
		return 2
	}

	keys, err := lister.Keys(ctx)
	if err != nil {
		writeError(w, err)
		return 2
	}

	if IsJSONOutput() {
		if keys == nil {
			keys = []string{}
		}
		data, _ := json.MarshalIndent(map[string]interface{}{"slots": keys}, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	if len(keys) == 0 {
		fmt.Fprintln(w, "No saved designs")
		return 0
	}
	for _, k := range keys {
		fmt.Fprintln(w, k)
	}
	return 0
}

// writeDesignResponse prints a slot's design with where it came from
func writeDesignResponse(w io.Writer, resp *models.DesignResponse) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	source := "saved"
	if !resp.Persisted {
		source = "defaults, nothing saved"
	}
	fmt.Fprintf(w, "Slot: %s (%s)\n\n", resp.Slot, source)
	fmt.Fprintln(w, formatDesignHuman(resp.Input, resp.Result))
}
