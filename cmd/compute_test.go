// ABOUTME: Tests for the compute command and design input resolution
// ABOUTME: Verifies flag overlays, design files, saved slots and remote evaluation

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Simtestlab/bess-handbook/models"
	"github.com/Simtestlab/bess-handbook/store"
)

func TestResolve_DefaultsWithoutFlags(t *testing.T) {
	resetDesignFlags(t, computeOpts)

	in, err := computeOpts.resolve(context.Background(), nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in != models.DefaultDesignInput() {
		t.Errorf("expected defaults, got %+v", in)
	}
}

func TestResolve_FlagsOverrideOnlyWhatIsSet(t *testing.T) {
	resetDesignFlags(t, computeOpts)
	setFlags(t, computeOpts, "series-modules", "21", "cell-chemistry", "NMC", "dod", "0.8")

	in, err := computeOpts.resolve(context.Background(), nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := models.DefaultDesignInput()
	want.SeriesModules = 21
	want.CellChemistry = "NMC"
	want.DOD = 0.8
	if in != want {
		t.Errorf("expected %+v, got %+v", want, in)
	}
}

func TestResolve_FileThenFlags(t *testing.T) {
	resetDesignFlags(t, computeOpts)
	path := filepath.Join(t.TempDir(), "design.yaml")
	if err := os.WriteFile(path, []byte("seriesModules: 24\ntargetEnergy: 450\n"), 0644); err != nil {
		t.Fatal(err)
	}
	computeOpts.file = path
	setFlags(t, computeOpts, "target-energy", "460")

	in, err := computeOpts.resolve(context.Background(), nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.SeriesModules != 24 {
		t.Errorf("expected seriesModules 24 from file, got %d", in.SeriesModules)
	}
	if in.TargetEnergy != 460 {
		t.Errorf("expected flag to override file target, got %g", in.TargetEnergy)
	}
	if in.CellVoltage != 3.2 {
		t.Errorf("expected unspecified fields to keep defaults, got cellVoltage %g", in.CellVoltage)
	}
}

func TestResolve_Saved(t *testing.T) {
	resetDesignFlags(t, computeOpts)
	st := store.NewMemoryStore()
	saved := models.DefaultDesignInput()
	saved.ParallelModules = 6
	if err := st.Save(context.Background(), "site-a", saved); err != nil {
		t.Fatal(err)
	}
	computeOpts.saved = true

	in, err := computeOpts.resolve(context.Background(), st, "site-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.ParallelModules != 6 {
		t.Errorf("expected saved parallelModules 6, got %d", in.ParallelModules)
	}
}

func TestResolve_SavedWithoutStore(t *testing.T) {
	resetDesignFlags(t, computeOpts)
	computeOpts.saved = true

	if _, err := computeOpts.resolve(context.Background(), nil, ""); err == nil {
		t.Error("expected error without a store")
	}
}

func TestResolve_MissingFile(t *testing.T) {
	resetDesignFlags(t, computeOpts)
	computeOpts.file = filepath.Join(t.TempDir(), "nope.yaml")

	if _, err := computeOpts.resolve(context.Background(), nil, ""); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestComputeCommand_Human(t *testing.T) {
	isolate(t)
	resetDesignFlags(t, computeOpts)

	var buf bytes.Buffer
	exitCode := runCompute(context.Background(), &buf)
	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d\n%s", exitCode, buf.String())
	}

	output := buf.String()
	for _, want := range []string{
		"BESS Design: LFP 20S5P of 12S1P modules",
		"Pack Energy",
		"384.00",
		"Increase Modules",
		"Not Enough Usable Energy",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestComputeCommand_JSON(t *testing.T) {
	isolate(t)
	resetDesignFlags(t, computeOpts)
	jsonOutput = true
	setFlags(t, computeOpts, "series-modules", "21")

	var buf bytes.Buffer
	if exitCode := runCompute(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d\n%s", exitCode, buf.String())
	}

	var out designOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.Input.SeriesModules != 21 {
		t.Errorf("expected seriesModules 21, got %d", out.Input.SeriesModules)
	}
	if out.Result.DesignStatus != models.DesignOptimal {
		t.Errorf("expected %q, got %q", models.DesignOptimal, out.Result.DesignStatus)
	}
	if len(out.Banners) == 0 {
		t.Error("expected banners in JSON output")
	}
}

func TestComputeCommand_InvalidInput(t *testing.T) {
	isolate(t)
	resetDesignFlags(t, computeOpts)
	setFlags(t, computeOpts, "series-cells", "0", "target-rack-energy", "0")

	var buf bytes.Buffer
	exitCode := runCompute(context.Background(), &buf)
	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}

	output := buf.String()
	if !strings.Contains(output, "invalid design input") {
		t.Errorf("expected validation error, got:\n%s", output)
	}
	for _, field := range []string{"seriesCells", "targetRackEnergy"} {
		if !strings.Contains(output, field) {
			t.Errorf("expected violation for %s, got:\n%s", field, output)
		}
	}
}

func TestComputeCommand_InvalidInputJSON(t *testing.T) {
	isolate(t)
	resetDesignFlags(t, computeOpts)
	jsonOutput = true
	setFlags(t, computeOpts, "c-rate", "0")

	var buf bytes.Buffer
	if exitCode := runCompute(context.Background(), &buf); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if resp.Code != 422 || len(resp.Violations) != 1 || resp.Violations[0].Field != "cRate" {
		t.Errorf("unexpected error response %+v", resp)
	}
}

func TestComputeCommand_Remote(t *testing.T) {
	isolate(t)
	resetDesignFlags(t, computeOpts)
	startAPI(t)
	computeRemote = true
	defer func() { computeRemote = false }()
	jsonOutput = true

	var buf bytes.Buffer
	if exitCode := runCompute(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d\n%s", exitCode, buf.String())
	}

	var out designOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if math.Abs(out.Result.PackEnergyKwh-384) > 1e-9 {
		t.Errorf("expected pack energy 384, got %g", out.Result.PackEnergyKwh)
	}
}

func TestComputeCommand_RemoteViolations(t *testing.T) {
	isolate(t)
	resetDesignFlags(t, computeOpts)
	startAPI(t)
	computeRemote = true
	defer func() { computeRemote = false }()
	setFlags(t, computeOpts, "cells-per-ic", "0")

	var buf bytes.Buffer
	if exitCode := runCompute(context.Background(), &buf); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "cellsPerIC=0") {
		t.Errorf("expected remote violation listed like a local one, got:\n%s", buf.String())
	}
}

func TestComputeCommand_SavedFromStore(t *testing.T) {
	isolate(t)
	resetDesignFlags(t, computeOpts)
	_, st, err := openStore()
	if err != nil {
		t.Fatal(err)
	}
	saved := models.DefaultDesignInput()
	saved.CellChemistry = "NMC"
	if err := st.Save(context.Background(), models.DefaultSlot, saved); err != nil {
		t.Fatal(err)
	}
	st.Close()
	computeOpts.saved = true

	var buf bytes.Buffer
	if exitCode := runCompute(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d\n%s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "BESS Design: NMC") {
		t.Errorf("expected saved chemistry, got:\n%s", buf.String())
	}
}
