// ABOUTME: Design input wizard as a bubbletea model
// ABOUTME: Six huh form steps with a progress indicator, one per input group

package wizard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Simtestlab/bess-handbook/internal/tui/icons"
	"github.com/Simtestlab/bess-handbook/internal/tui/styles"
	"github.com/Simtestlab/bess-handbook/models"
)

// WizardCompleteMsg is sent when the wizard finishes successfully
type WizardCompleteMsg struct {
	Input models.DesignInput
}

// WizardCancelledMsg is sent when the wizard is cancelled
type WizardCancelledMsg struct{}

// Wizard walks through the design inputs group by group
type Wizard struct {
	input models.DesignInput
	form  *huh.Form
	step  int
	width int
	err   error

	// Form field values (strings for huh)
	cellChemistry  string
	cellVoltage    string
	cellCapacity   string
	cellMaxVoltage string
	cellMinVoltage string

	seriesCells   string
	parallelCells string

	seriesModules   string
	parallelModules string

	targetEnergy     string
	targetRackEnergy string

	dod        string
	cRate      string
	efficiency string

	cellsPerIC       string
	maxICPerChain    string
	protectionMargin string
	peakMultiplier   string
	packResistance   string
}

// Step names for progress indicator
var stepNames = []string{"Cell", "Module", "System", "Targets", "Performance", "BMS"}

// createTheme maps the shared palette onto huh's base theme. Blurred
// fields keep the focused layout with a hidden border and muted titles.
func createTheme() *huh.Theme {
	t := huh.ThemeBase()
	plain := lipgloss.NewStyle

	t.Group.Title = plain().Foreground(styles.Primary).Bold(true).MarginBottom(1)
	t.Group.Description = plain().Foreground(styles.Muted).MarginBottom(1)

	t.Focused.Base = plain().PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).BorderLeft(true).BorderForeground(styles.Primary)
	t.Focused.Title = plain().Foreground(styles.Accent).Bold(true)
	t.Focused.Description = plain().Foreground(styles.Muted)
	t.Focused.ErrorIndicator = plain().Foreground(styles.Danger).SetString(" *")
	t.Focused.ErrorMessage = plain().Foreground(styles.Danger)

	t.Focused.TextInput.Cursor = plain().Foreground(styles.Primary)
	t.Focused.TextInput.Prompt = plain().Foreground(styles.Primary)
	t.Focused.TextInput.Placeholder = plain().Foreground(styles.Muted)
	t.Focused.TextInput.Text = plain().Foreground(styles.Text)

	button := plain().Padding(0, 2).MarginRight(1)
	t.Focused.FocusedButton = button.Foreground(styles.Text).Background(styles.Info)
	t.Focused.BlurredButton = button.Foreground(styles.Muted).Background(styles.Surface)

	t.Blurred = t.Focused
	t.Blurred.Base = plain().PaddingLeft(1).BorderStyle(lipgloss.HiddenBorder()).BorderLeft(true)
	t.Blurred.Title = plain().Foreground(styles.Muted)

	return t
}

// New creates a wizard prefilled with the given input
func New(in models.DesignInput) *Wizard {
	g := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

	w := &Wizard{
		input: in,
		step:  1,

		cellChemistry:  in.CellChemistry,
		cellVoltage:    g(in.CellVoltage),
		cellCapacity:   g(in.CellCapacity),
		cellMaxVoltage: g(in.CellMaxVoltage),
		cellMinVoltage: g(in.CellMinVoltage),

		seriesCells:   strconv.Itoa(in.SeriesCells),
		parallelCells: strconv.Itoa(in.ParallelCells),

		seriesModules:   strconv.Itoa(in.SeriesModules),
		parallelModules: strconv.Itoa(in.ParallelModules),

		targetEnergy:     g(in.TargetEnergy),
		targetRackEnergy: g(in.TargetRackEnergy),

		dod:        g(in.DOD),
		cRate:      g(in.CRate),
		efficiency: g(in.Efficiency),

		cellsPerIC:       strconv.Itoa(in.CellsPerIC),
		maxICPerChain:    strconv.Itoa(in.MaxICPerChain),
		protectionMargin: g(in.ProtectionMargin),
		peakMultiplier:   g(in.PeakMultiplier),
		packResistance:   g(in.PackResistanceMilliOhm),
	}

	w.form = w.createForm(w.step)
	return w
}

func numberInput(title, description string, value *string, validate func(string) error) *huh.Input {
	return huh.NewInput().
		Title(title).
		Description(description).
		CharLimit(12).
		Value(value).
		Validate(validate)
}

func (w *Wizard) createForm(step int) *huh.Form {
	var group *huh.Group

	switch step {
	case 1:
		group = huh.NewGroup(
			huh.NewInput().
				Title("Cell chemistry").
				Description("Descriptive only, e.g. LFP or NMC").
				CharLimit(16).
				Value(&w.cellChemistry),
			numberInput("Nominal cell voltage (V)", "", &w.cellVoltage, validatePositiveFloat),
			numberInput("Cell capacity (Ah)", "", &w.cellCapacity, validatePositiveFloat),
			numberInput("Cell max voltage (V)", "Fully charged", &w.cellMaxVoltage, validateFiniteFloat),
			numberInput("Cell min voltage (V)", "Fully discharged", &w.cellMinVoltage, validateFiniteFloat),
		).Title("Step 1: Cell Spec").
			Description("Electrical characteristics of a single cell")

	case 2:
		group = huh.NewGroup(
			numberInput("Cells in series", "Per module", &w.seriesCells, validatePositiveInt),
			numberInput("Cells in parallel", "Per module", &w.parallelCells, validatePositiveInt),
		).Title("Step 2: Module Topology").
			Description("How cells are wired inside one module")

	case 3:
		group = huh.NewGroup(
			numberInput("Series modules", "", &w.seriesModules, validatePositiveInt),
			numberInput("Parallel modules (pack)", "", &w.parallelModules, validatePositiveInt),
		).Title("Step 3: System Topology").
			Description("How modules are wired into the pack")

	case 4:
		group = huh.NewGroup(
			numberInput("Target BESS energy (kWh)", "Usable energy the system must deliver", &w.targetEnergy, validateFiniteFloat),
			numberInput("Target rack energy (kWh)", "Energy per rack used to size the rack count", &w.targetRackEnergy, validatePositiveFloat),
		).Title("Step 4: System Targets").
			Description("Energy goals for the whole system and each rack")

	case 5:
		group = huh.NewGroup(
			numberInput("Depth of discharge", "Fraction between 0 and 1", &w.dod, validateFiniteFloat),
			numberInput("Discharge C-rate", "", &w.cRate, validatePositiveFloat),
			numberInput("System efficiency", "Fraction between 0 and 1", &w.efficiency, validateFiniteFloat),
		).Title("Step 5: Performance").
			Description("Operating envelope of the pack")

	default:
		group = huh.NewGroup(
			numberInput("Cells per monitoring IC", "", &w.cellsPerIC, validatePositiveInt),
			numberInput("Maximum IC per chain", "", &w.maxICPerChain, validatePositiveInt),
			numberInput("Protection safety margin (%)", "Contactor rating over max current", &w.protectionMargin, validateFiniteFloat),
			numberInput("Peak current multiplier (x)", "", &w.peakMultiplier, validateFiniteFloat),
			numberInput("Pack internal resistance (mΩ)", "", &w.packResistance, validateFiniteFloat),
		).Title("Step 6: BMS & Protection").
			Description("Monitoring ICs and protection sizing")
	}

	return huh.NewForm(group).WithTheme(createTheme())
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return w, func() tea.Msg { return WizardCancelledMsg{} }
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		return w.advanceStep()
	}

	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	if err := w.applyStep(w.step); err != nil {
		w.err = err
		w.form = w.createForm(w.step)
		return w, w.form.Init()
	}
	w.err = nil

	if w.step < len(stepNames) {
		w.step++
		w.form = w.createForm(w.step)
		return w, w.form.Init()
	}

	input := w.input
	return w, func() tea.Msg {
		return WizardCompleteMsg{Input: input}
	}
}

// applyStep copies the strings of one step into the input. The input is only
// updated when every field of the step parses.
func (w *Wizard) applyStep(step int) error {
	var err error
	f := func(field, s string) float64 {
		v, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if perr != nil && err == nil {
			err = fmt.Errorf("%s: %q is not a number", field, s)
		}
		return v
	}
	n := func(field, s string) int {
		v, perr := strconv.Atoi(strings.TrimSpace(s))
		if perr != nil && err == nil {
			err = fmt.Errorf("%s: %q is not a whole number", field, s)
		}
		return v
	}

	next := w.input
	switch step {
	case 1:
		next.CellChemistry = strings.TrimSpace(w.cellChemistry)
		next.CellVoltage = f("cellVoltage", w.cellVoltage)
		next.CellCapacity = f("cellCapacity", w.cellCapacity)
		next.CellMaxVoltage = f("cellMaxVoltage", w.cellMaxVoltage)
		next.CellMinVoltage = f("cellMinVoltage", w.cellMinVoltage)
	case 2:
		next.SeriesCells = n("seriesCells", w.seriesCells)
		next.ParallelCells = n("parallelCells", w.parallelCells)
	case 3:
		next.SeriesModules = n("seriesModules", w.seriesModules)
		next.ParallelModules = n("parallelModules", w.parallelModules)
	case 4:
		next.TargetEnergy = f("targetEnergy", w.targetEnergy)
		next.TargetRackEnergy = f("targetRackEnergy", w.targetRackEnergy)
	case 5:
		next.DOD = f("dod", w.dod)
		next.CRate = f("cRate", w.cRate)
		next.Efficiency = f("efficiency", w.efficiency)
	case 6:
		next.CellsPerIC = n("cellsPerIC", w.cellsPerIC)
		next.MaxICPerChain = n("maxICPerChain", w.maxICPerChain)
		next.ProtectionMargin = f("protectionMargin", w.protectionMargin)
		next.PeakMultiplier = f("peakMultiplier", w.peakMultiplier)
		next.PackResistanceMilliOhm = f("packResistanceMilliOhm", w.packResistance)
	}
	if err != nil {
		return err
	}

	w.input = next
	return nil
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// View implements tea.Model
func (w *Wizard) View() string {
	view := w.renderProgress() + "\n\n"
	if w.err != nil {
		view += styles.StatusCritical.Render(icons.Critical.String()+" "+w.err.Error()) + "\n\n"
	}
	return view + w.form.View()
}

// renderProgress boxes the step names, marked done, current or pending,
// above a bar filled to the current step
func (w *Wizard) renderProgress() string {
	width := max(60, w.width-1)
	inner := width - 4

	muted := lipgloss.NewStyle().Foreground(styles.Muted)
	current := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)

	steps := make([]string, len(stepNames))
	for i, name := range stepNames {
		switch n := i + 1; {
		case n < w.step:
			steps[i] = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String()) + " " + muted.Render(name)
		case n == w.step:
			steps[i] = current.Render("● " + name)
		default:
			steps[i] = muted.Render("○ " + name)
		}
	}

	filled := w.step * inner / len(stepNames)
	bar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", inner-filled))

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(steps, "  ") + "\n" + bar)
}

// Step returns the current step number, starting at 1
func (w *Wizard) Step() int {
	return w.step
}

// GetInput returns the input collected so far
func (w *Wizard) GetInput() models.DesignInput {
	return w.input
}

func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive whole number")
	}
	return nil
}

func validatePositiveFloat(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("must be a number greater than zero")
	}
	return nil
}

func validateFiniteFloat(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("must be a number")
	}
	return nil
}
