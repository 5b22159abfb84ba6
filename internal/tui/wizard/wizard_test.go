// ABOUTME: Tests for the design input wizard
// ABOUTME: Validates prefill, step progression and field validators

package wizard

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Simtestlab/bess-handbook/models"
)

func TestWizardPrefillsFromInput(t *testing.T) {
	in := models.DefaultDesignInput()
	in.SeriesModules = 21
	in.CellVoltage = 3.25

	w := New(in)

	if w.seriesModules != "21" {
		t.Errorf("expected series modules 21, got %q", w.seriesModules)
	}
	if w.cellVoltage != "3.25" {
		t.Errorf("expected cell voltage 3.25, got %q", w.cellVoltage)
	}
	if w.cellChemistry != "LFP" {
		t.Errorf("expected chemistry LFP, got %q", w.cellChemistry)
	}
	if w.Step() != 1 {
		t.Errorf("expected step 1, got %d", w.Step())
	}
}

func TestWizardCompletesWithEditedInput(t *testing.T) {
	w := New(models.DefaultDesignInput())
	w.seriesModules = "21"
	w.dod = "0.8"
	w.cellChemistry = " NMC "

	var cmd tea.Cmd
	for i := 0; i < len(stepNames); i++ {
		_, cmd = w.advanceStep()
	}

	if cmd == nil {
		t.Fatal("expected completion command")
	}
	msg, ok := cmd().(WizardCompleteMsg)
	if !ok {
		t.Fatalf("expected WizardCompleteMsg, got %T", cmd())
	}

	if msg.Input.SeriesModules != 21 {
		t.Errorf("expected 21 series modules, got %d", msg.Input.SeriesModules)
	}
	if msg.Input.DOD != 0.8 {
		t.Errorf("expected DOD 0.8, got %v", msg.Input.DOD)
	}
	if msg.Input.CellChemistry != "NMC" {
		t.Errorf("expected chemistry NMC, got %q", msg.Input.CellChemistry)
	}
	if msg.Input.TargetEnergy != 400 {
		t.Errorf("expected untouched target energy 400, got %v", msg.Input.TargetEnergy)
	}
}

func TestWizardStepProgression(t *testing.T) {
	w := New(models.DefaultDesignInput())

	for want := 2; want <= len(stepNames); want++ {
		w.advanceStep()
		if w.Step() != want {
			t.Fatalf("expected step %d, got %d", want, w.Step())
		}
	}
}

func TestWizardRejectsUnparsableStep(t *testing.T) {
	w := New(models.DefaultDesignInput())
	w.advanceStep()
	w.seriesCells = "twelve"

	w.advanceStep()
	if w.Step() != 2 {
		t.Fatalf("expected to stay on step 2, got %d", w.Step())
	}
	if w.GetInput().SeriesCells != 12 {
		t.Errorf("expected series cells to stay 12, got %d", w.GetInput().SeriesCells)
	}
	if !strings.Contains(w.View(), "seriesCells") {
		t.Errorf("expected the offending field in the view\nView:\n%s", w.View())
	}

	w.seriesCells = "14"
	w.advanceStep()
	if w.Step() != 3 {
		t.Fatalf("expected step 3 after fixing the value, got %d", w.Step())
	}
	if w.GetInput().SeriesCells != 14 {
		t.Errorf("expected series cells 14, got %d", w.GetInput().SeriesCells)
	}
	if strings.Contains(w.View(), "not a whole number") {
		t.Error("expected the error to clear once the step applies")
	}
}

func TestWizardEscCancels(t *testing.T) {
	w := New(models.DefaultDesignInput())

	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected cancel command")
	}
	if _, ok := cmd().(WizardCancelledMsg); !ok {
		t.Errorf("expected WizardCancelledMsg, got %T", cmd())
	}
}

func TestWizardViewShowsProgress(t *testing.T) {
	w := New(models.DefaultDesignInput())
	w.SetWidth(100)

	view := w.View()
	for _, name := range stepNames {
		if !strings.Contains(view, name) {
			t.Errorf("expected progress to mention %q", name)
		}
	}
}

func TestValidatePositiveInt(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"10", false},
		{"1", false},
		{" 3 ", false},
		{"0", true},
		{"-1", true},
		{"1.5", true},
		{"abc", true},
		{"", true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			err := validatePositiveInt(tc.input)
			if tc.wantErr && err == nil {
				t.Errorf("expected error for input %q", tc.input)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error for input %q: %v", tc.input, err)
			}
		})
	}
}

func TestValidatePositiveFloat(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"3.2", false},
		{"0.5", false},
		{"0", true},
		{"-2", true},
		{"Inf", true},
		{"NaN", true},
		{"abc", true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			err := validatePositiveFloat(tc.input)
			if tc.wantErr && err == nil {
				t.Errorf("expected error for input %q", tc.input)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error for input %q: %v", tc.input, err)
			}
		})
	}
}

func TestValidateFiniteFloat(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"0", false},
		{"-1.5", false},
		{"125", false},
		{"+Inf", true},
		{"", true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			err := validateFiniteFloat(tc.input)
			if tc.wantErr && err == nil {
				t.Errorf("expected error for input %q", tc.input)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error for input %q: %v", tc.input, err)
			}
		})
	}
}
