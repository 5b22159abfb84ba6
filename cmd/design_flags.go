// ABOUTME: Shared design input flags for commands that evaluate a design
// ABOUTME: Resolves defaults, a saved slot or a design file, then explicit flags on top

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Simtestlab/bess-handbook/models"
	"github.com/Simtestlab/bess-handbook/report"
	"github.com/Simtestlab/bess-handbook/store"
)

// designOptions collects a design input from --file, --saved and one flag
// per input field
type designOptions struct {
	file  string
	saved bool

	flags  *pflag.FlagSet
	values models.DesignInput
}

// designFlag binds one kebab-case flag to a DesignInput field
type designFlag struct {
	name  string
	usage string
	apply func(dst, src *models.DesignInput)
}

var designFlags = []designFlag{
	{"cell-chemistry", "Cell chemistry label", func(d, s *models.DesignInput) { d.CellChemistry = s.CellChemistry }},
	{"cell-voltage", "Nominal cell voltage (V)", func(d, s *models.DesignInput) { d.CellVoltage = s.CellVoltage }},
	{"cell-capacity", "Cell capacity (Ah)", func(d, s *models.DesignInput) { d.CellCapacity = s.CellCapacity }},
	{"cell-max-voltage", "Cell max voltage (V)", func(d, s *models.DesignInput) { d.CellMaxVoltage = s.CellMaxVoltage }},
	{"cell-min-voltage", "Cell min voltage (V)", func(d, s *models.DesignInput) { d.CellMinVoltage = s.CellMinVoltage }},
	{"series-cells", "Cells in series per module", func(d, s *models.DesignInput) { d.SeriesCells = s.SeriesCells }},
	{"parallel-cells", "Cells in parallel per module", func(d, s *models.DesignInput) { d.ParallelCells = s.ParallelCells }},
	{"series-modules", "Modules in series", func(d, s *models.DesignInput) { d.SeriesModules = s.SeriesModules }},
	{"parallel-modules", "Modules in parallel", func(d, s *models.DesignInput) { d.ParallelModules = s.ParallelModules }},
	{"target-energy", "Target BESS energy (kWh)", func(d, s *models.DesignInput) { d.TargetEnergy = s.TargetEnergy }},
	{"target-rack-energy", "Target rack energy (kWh)", func(d, s *models.DesignInput) { d.TargetRackEnergy = s.TargetRackEnergy }},
	{"dod", "Depth of discharge (0-1)", func(d, s *models.DesignInput) { d.DOD = s.DOD }},
	{"c-rate", "Discharge C-rate", func(d, s *models.DesignInput) { d.CRate = s.CRate }},
	{"efficiency", "System efficiency (0-1)", func(d, s *models.DesignInput) { d.Efficiency = s.Efficiency }},
	{"cells-per-ic", "Cells per monitoring IC", func(d, s *models.DesignInput) { d.CellsPerIC = s.CellsPerIC }},
	{"max-ic-per-chain", "Maximum ICs per daisy chain", func(d, s *models.DesignInput) { d.MaxICPerChain = s.MaxICPerChain }},
	{"protection-margin", "Protection safety margin (%)", func(d, s *models.DesignInput) { d.ProtectionMargin = s.ProtectionMargin }},
	{"peak-multiplier", "Peak current multiplier", func(d, s *models.DesignInput) { d.PeakMultiplier = s.PeakMultiplier }},
	{"pack-resistance", "Pack internal resistance (mΩ)", func(d, s *models.DesignInput) { d.PackResistanceMilliOhm = s.PackResistanceMilliOhm }},
}

// addDesignFlags registers the design flags on cmd
func addDesignFlags(cmd *cobra.Command) *designOptions {
	o := &designOptions{
		flags: pflag.NewFlagSet("design", pflag.ContinueOnError),
	}
	def := models.DefaultDesignInput()
	v := &o.values
	fs := o.flags

	fs.StringVar(&v.CellChemistry, "cell-chemistry", def.CellChemistry, "")
	fs.Float64Var(&v.CellVoltage, "cell-voltage", def.CellVoltage, "")
	fs.Float64Var(&v.CellCapacity, "cell-capacity", def.CellCapacity, "")
	fs.Float64Var(&v.CellMaxVoltage, "cell-max-voltage", def.CellMaxVoltage, "")
	fs.Float64Var(&v.CellMinVoltage, "cell-min-voltage", def.CellMinVoltage, "")
	fs.IntVar(&v.SeriesCells, "series-cells", def.SeriesCells, "")
	fs.IntVar(&v.ParallelCells, "parallel-cells", def.ParallelCells, "")
	fs.IntVar(&v.SeriesModules, "series-modules", def.SeriesModules, "")
	fs.IntVar(&v.ParallelModules, "parallel-modules", def.ParallelModules, "")
	fs.Float64Var(&v.TargetEnergy, "target-energy", def.TargetEnergy, "")
	fs.Float64Var(&v.TargetRackEnergy, "target-rack-energy", def.TargetRackEnergy, "")
	fs.Float64Var(&v.DOD, "dod", def.DOD, "")
	fs.Float64Var(&v.CRate, "c-rate", def.CRate, "")
	fs.Float64Var(&v.Efficiency, "efficiency", def.Efficiency, "")
	fs.IntVar(&v.CellsPerIC, "cells-per-ic", def.CellsPerIC, "")
	fs.IntVar(&v.MaxICPerChain, "max-ic-per-chain", def.MaxICPerChain, "")
	fs.Float64Var(&v.ProtectionMargin, "protection-margin", def.ProtectionMargin, "")
	fs.Float64Var(&v.PeakMultiplier, "peak-multiplier", def.PeakMultiplier, "")
	fs.Float64Var(&v.PackResistanceMilliOhm, "pack-resistance", def.PackResistanceMilliOhm, "")

	for _, f := range designFlags {
		fs.Lookup(f.name).Usage = f.usage
	}

	cmd.Flags().AddFlagSet(fs)
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "Design file (YAML, JSON or an XLSX report)")
	cmd.Flags().BoolVar(&o.saved, "saved", false, "Start from the design saved in the slot")
	cmd.MarkFlagsMutuallyExclusive("file", "saved")

	return o
}

// resolve builds the input: defaults, then the saved slot or design file,
// then every flag the user set explicitly
func (o *designOptions) resolve(ctx context.Context, st store.Store, slot string) (models.DesignInput, error) {
	in := models.DefaultDesignInput()

	switch {
	case o.file != "":
		var err error
		if in, err = readDesignFile(o.file); err != nil {
			return models.DesignInput{}, err
		}
	case o.saved:
		if st == nil {
			return models.DesignInput{}, fmt.Errorf("--saved needs a store")
		}
		in = store.LoadOrDefault(ctx, st, slot)
	}

	o.applyFlags(&in)
	return in, nil
}

// applyFlags copies the explicitly set flag values onto in
func (o *designOptions) applyFlags(in *models.DesignInput) {
	byName := make(map[string]designFlag, len(designFlags))
	for _, f := range designFlags {
		byName[f.name] = f
	}

	// The flags are shared with the command's flag set, which records
	// parsing on the Flag itself rather than on this set.
	o.flags.VisitAll(func(f *pflag.Flag) {
		if df, ok := byName[f.Name]; ok && f.Changed {
			df.apply(in, &o.values)
		}
	})
}

// readDesignFile loads a YAML/JSON design document or the Inputs sheet of
// an XLSX report
func readDesignFile(path string) (models.DesignInput, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		data, err := os.ReadFile(path)
		if err != nil {
			return models.DesignInput{}, fmt.Errorf("failed to read design file: %w", err)
		}
		return report.ReadXLSX(bytes.NewReader(data))
	}
	return models.ReadDesignFile(path)
}

// resolveDesign resolves o, opening the configured store only for --saved.
// It prints any failure to w and returns exit code 2.
func resolveDesign(ctx context.Context, w io.Writer, o *designOptions) (models.DesignInput, int) {
	var st store.Store
	var slot string
	if o.saved {
		cfg, s, err := openStore()
		if err != nil {
			writeError(w, err)
			return models.DesignInput{}, 2
		}
		defer s.Close()
		st, slot = s, cfg.DesignSlot
	}

	in, err := o.resolve(ctx, st, slot)
	if err != nil {
		writeError(w, err)
		return models.DesignInput{}, 2
	}
	return in, 0
}
