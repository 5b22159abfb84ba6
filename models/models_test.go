// ABOUTME: Tests for design input and result serialization
// ABOUTME: Covers JSON/YAML key names, default overlay and value keys

package models

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDesignInput_JSONRoundTrip(t *testing.T) {
	in := DefaultDesignInput()
	in.CellChemistry = "NMC"
	in.SeriesModules = 24
	in.DOD = 0.85

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded DesignInput
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if decoded != in {
		t.Errorf("Expected %+v, got %+v", in, decoded)
	}
}

func TestDesignInput_JSONKeys(t *testing.T) {
	data, err := json.Marshal(DefaultDesignInput())
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	keys := []string{
		"cellChemistry", "cellVoltage", "cellCapacity", "cellMaxVoltage", "cellMinVoltage",
		"seriesCells", "parallelCells", "seriesModules", "parallelModules",
		"targetEnergy", "targetRackEnergy", "dod", "cRate", "efficiency",
		"cellsPerIC", "maxICPerChain", "protectionMargin", "peakMultiplier", "packResistanceMilliOhm",
	}
	if len(raw) != len(keys) {
		t.Errorf("Expected %d keys, got %d", len(keys), len(raw))
	}
	for _, k := range keys {
		if _, ok := raw[k]; !ok {
			t.Errorf("Expected key %q in JSON output", k)
		}
	}
}

func TestParseDesign_OverlaysDefaults(t *testing.T) {
	in, err := ParseDesign([]byte("seriesModules: 30\ncellChemistry: NMC\n"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := DefaultDesignInput()
	want.SeriesModules = 30
	want.CellChemistry = "NMC"
	if in != want {
		t.Errorf("Expected %+v, got %+v", want, in)
	}
}

func TestParseDesign_AcceptsJSON(t *testing.T) {
	in, err := ParseDesign([]byte(`{"cellVoltage": 3.7, "parallelCells": 2}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if in.CellVoltage != 3.7 {
		t.Errorf("Expected CellVoltage 3.7, got %v", in.CellVoltage)
	}
	if in.ParallelCells != 2 {
		t.Errorf("Expected ParallelCells 2, got %d", in.ParallelCells)
	}
	if in.TargetEnergy != 400 {
		t.Errorf("Expected default TargetEnergy 400, got %v", in.TargetEnergy)
	}
}

func TestParseDesign_Invalid(t *testing.T) {
	_, err := ParseDesign([]byte("seriesCells: twelve\n"))
	if err == nil {
		t.Fatal("Expected error for non-numeric seriesCells")
	}
}

func TestReadDesignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "design.yaml")
	original := DefaultDesignInput()
	original.TargetEnergy = 1000

	data, err := MarshalDesignYAML(original)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	in, err := ReadDesignFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if in != original {
		t.Errorf("Expected %+v, got %+v", original, in)
	}
}

func TestReadDesignFile_Missing(t *testing.T) {
	_, err := ReadDesignFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read design file") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestDesignInput_Key(t *testing.T) {
	a := DefaultDesignInput()
	b := DefaultDesignInput()
	if a.Key() != b.Key() {
		t.Errorf("Expected equal inputs to share a key")
	}

	b.Efficiency = 0.96
	if a.Key() == b.Key() {
		t.Errorf("Expected different keys after changing Efficiency")
	}

	c := DefaultDesignInput()
	c.CellChemistry = "LFP|3.2"
	if a.Key() == c.Key() {
		t.Errorf("Expected chemistry to be quoted in key")
	}
}

func TestDesignInput_Topology(t *testing.T) {
	got := DefaultDesignInput().Topology()
	want := "20S5P of 12S1P modules"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestDerivedResult_Adequate(t *testing.T) {
	tests := []struct {
		name   string
		design DesignStatus
		energy EnergyStatus
		want   bool
	}{
		{"both favourable", DesignOptimal, EnergyTargetMet, true},
		{"over-designed", DesignOverDesigned, EnergyTargetMet, false},
		{"short on energy", DesignOptimal, EnergyNotEnoughUsable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DerivedResult{DesignStatus: tt.design, EnergyStatus: tt.energy}
			if got := r.Adequate(); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestErrorResponse_OmitsEmptyViolations(t *testing.T) {
	data, err := json.Marshal(ErrorResponse{Error: "boom", Code: 500})
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if strings.Contains(string(data), "violations") {
		t.Errorf("Expected violations to be omitted, got %s", data)
	}
}

func TestViolation_NonFiniteValueIsNull(t *testing.T) {
	data, err := json.Marshal(Violation{Field: "heatLossKw", Value: math.Inf(1), Reason: "overflows the representable range"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := `{"field":"heatLossKw","value":null,"reason":"overflows the representable range"}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}

	data, err = json.Marshal(Violation{Field: "cRate", Value: 0, Reason: "must be greater than zero"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(string(data), `"value":0`) {
		t.Errorf("Expected finite value to be kept, got %s", data)
	}
}
