// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Loads the saved design, routes keys to the dashboard and wizard, persists edits

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Simtestlab/bess-handbook/internal/tui/dashboard"
	"github.com/Simtestlab/bess-handbook/internal/tui/debuglog"
	"github.com/Simtestlab/bess-handbook/internal/tui/icons"
	"github.com/Simtestlab/bess-handbook/internal/tui/styles"
	"github.com/Simtestlab/bess-handbook/internal/tui/wizard"
	"github.com/Simtestlab/bess-handbook/models"
	"github.com/Simtestlab/bess-handbook/report"
	"github.com/Simtestlab/bess-handbook/services"
	"github.com/Simtestlab/bess-handbook/store"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenWizard
)

// Layout constants
const (
	minTerminalWidth = 80  // Frame never renders narrower than this
	splitWidth       = 110 // Below this the inputs pane is hidden
	frameOverhead    = 4   // Header, footer and the panel's top and bottom border
)

// designComputedMsg carries the result of evaluating one input
type designComputedMsg struct {
	input  models.DesignInput
	result models.DerivedResult
	err    error
	save   bool
}

// designSavedMsg reports whether the store accepted the input
type designSavedMsg struct {
	persisted bool
}

type keyMap struct {
	Edit  key.Binding
	Save  key.Binding
	Reset key.Binding
	Quit  key.Binding
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Save, k.Reset, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Edit:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "Edit")),
		Save:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Save")),
		Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Reset")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "Quit")),
	}
}

// App is the root model for the TUI
type App struct {
	engine services.Computer
	store  store.Store
	slot   string
	keys   keyMap
	help   help.Model

	screen Screen
	width  int
	height int

	input      models.DesignInput
	dashboard  *dashboard.Dashboard
	viewport   viewport.Model
	lastUpdate time.Time
	saveStatus string

	wizardScreen *wizard.Wizard
}

// New creates a TUI for the design saved under slot. A nil store keeps
// edits in memory for the session.
func New(engine services.Computer, st store.Store, slot string) *App {
	if engine == nil {
		engine = services.NewEngine()
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	if slot == "" {
		slot = models.DefaultSlot
	}

	a := &App{
		engine:    engine,
		store:     st,
		slot:      slot,
		keys:      defaultKeyMap(),
		help:      newHelp(),
		screen:    ScreenDashboard,
		input:     models.DefaultDesignInput(),
		dashboard: dashboard.New(minTerminalWidth, 24),
		viewport:  viewport.New(minTerminalWidth, 20),
	}
	a.refreshViewport()
	return a
}

func newHelp() help.Model {
	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(styles.Primary)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(styles.Muted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(styles.Muted)
	return h
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.loadDesign()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		if a.wizardScreen != nil {
			a.wizardScreen.SetWidth(a.frameWidth())
			return a.updateWizard(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.screen {
		case ScreenDashboard:
			return a.updateDashboard(msg)
		case ScreenWizard:
			return a.updateWizard(msg)
		}

	case designComputedMsg:
		return a.handleComputed(msg)

	case designSavedMsg:
		if msg.persisted {
			a.saveStatus = "Saved to " + a.slot
		} else {
			a.saveStatus = "Not saved"
		}
		return a, nil

	case wizard.WizardCompleteMsg:
		a.wizardScreen = nil
		a.screen = ScreenDashboard
		return a, a.computeDesign(msg.Input, true)

	case wizard.WizardCancelledMsg:
		a.wizardScreen = nil
		a.screen = ScreenDashboard
		return a, nil

	default:
		// Forward unknown messages to wizard when active (needed for huh form internals)
		if a.screen == ScreenWizard && a.wizardScreen != nil {
			return a.updateWizard(msg)
		}
	}

	return a, nil
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Edit):
		return a, a.runWizard()
	case key.Matches(msg, a.keys.Save):
		return a, a.saveDesign(a.input)
	case key.Matches(msg, a.keys.Reset):
		return a, a.computeDesign(models.DefaultDesignInput(), true)
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

func (a *App) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.wizardScreen == nil {
		return a, nil
	}
	model, cmd := a.wizardScreen.Update(msg)
	a.wizardScreen = model.(*wizard.Wizard)
	return a, cmd
}

func (a *App) handleComputed(msg designComputedMsg) (tea.Model, tea.Cmd) {
	a.input = msg.input
	a.lastUpdate = time.Now()

	if msg.err != nil {
		debuglog.Error("compute", msg.err)
		a.dashboard.SetError(msg.input, msg.err)
	} else {
		a.dashboard.SetDesign(msg.input, msg.result)
	}
	a.refreshViewport()

	if msg.save {
		return a, a.saveDesign(msg.input)
	}
	return a, nil
}

// loadDesign reads the slot, falling back to defaults, and computes it
func (a *App) loadDesign() tea.Cmd {
	engine, st, slot := a.engine, a.store, a.slot
	return func() tea.Msg {
		in := store.LoadOrDefault(context.Background(), st, slot)
		r, err := engine.Compute(in)
		return designComputedMsg{input: in, result: r, err: err}
	}
}

// computeDesign evaluates in, saving it afterwards when save is set. Invalid
// inputs are saved too so an edit session survives a restart.
func (a *App) computeDesign(in models.DesignInput, save bool) tea.Cmd {
	engine := a.engine
	return func() tea.Msg {
		r, err := engine.Compute(in)
		return designComputedMsg{input: in, result: r, err: err, save: save}
	}
}

func (a *App) saveDesign(in models.DesignInput) tea.Cmd {
	st, slot := a.store, a.slot
	return func() tea.Msg {
		return designSavedMsg{persisted: store.SaveOrReport(context.Background(), st, slot, in)}
	}
}

// runWizard transitions to the wizard screen prefilled with the current input
func (a *App) runWizard() tea.Cmd {
	a.wizardScreen = wizard.New(a.input)
	a.wizardScreen.SetWidth(a.frameWidth())
	a.screen = ScreenWizard
	return a.wizardScreen.Init()
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenWizard:
		content = a.viewWizard()
	default:
		content = a.viewDashboard()
	}

	return a.wrapWithFrame(content)
}

// viewDashboard renders the scrollable dashboard with the inputs pane
func (a *App) viewDashboard() string {
	leftPane := styles.ActivePanel.Width(a.dashboardWidth()).Render(a.viewport.View())
	if !a.split() {
		return leftPane
	}

	rightPane := styles.Panel.
		Width(a.inputsWidth()).
		MaxHeight(a.contentHeight() + 2).
		Render(a.renderInputs())

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

// renderInputs lists the current input values grouped like the wizard steps
func (a *App) renderInputs() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Edit.String() + " Inputs"))
	sb.WriteString("\n")

	for _, s := range report.InputSections(a.input) {
		sb.WriteString(styles.KeyStyle.Render(s.Title))
		sb.WriteString("\n")
		for _, row := range s.Rows {
			value := row.Value
			if row.Unit != "" {
				value += " " + row.Unit
			}
			sb.WriteString(fmt.Sprintf(" %s %s\n",
				styles.LabelStyle.Render(row.Label+":"),
				styles.ValueStyle.Render(value)))
		}
	}
	return sb.String()
}

// viewWizard renders the wizard screen
func (a *App) viewWizard() string {
	if a.wizardScreen != nil {
		return a.wizardScreen.View()
	}
	return ""
}

func (a *App) resize() {
	a.viewport.Width = a.dashboardWidth() - 2
	a.viewport.Height = a.contentHeight()
	a.dashboard.SetSize(a.viewport.Width, a.viewport.Height)
	a.refreshViewport()
}

func (a *App) refreshViewport() {
	a.viewport.SetContent(a.dashboard.View())
}

// frameWidth is the width the header and footer render at. One column is
// left free to prevent wrapping on some terminals.
func (a *App) frameWidth() int {
	return max(minTerminalWidth, a.width-1)
}

func (a *App) split() bool {
	return a.width >= splitWidth
}

// dashboardWidth is the dashboard panel width excluding its border
func (a *App) dashboardWidth() int {
	if !a.split() {
		return a.frameWidth() - 2
	}
	return a.frameWidth()*2/3 - 2
}

// inputsWidth is the inputs panel width excluding its border
func (a *App) inputsWidth() int {
	return a.frameWidth() - (a.dashboardWidth() + 2) - 2
}

// contentHeight is the height available inside the dashboard panel
func (a *App) contentHeight() int {
	return max(5, a.height-frameOverhead)
}

// frameLine draws a full-width border line with left and right labels,
// opening with open and closing with closing
func (a *App) frameLine(open, left, right, closing string) string {
	fill := max(0, a.frameWidth()-4-lipgloss.Width(left)-lipgloss.Width(right))
	return lipgloss.NewStyle().Foreground(styles.Muted).
		Render(open + "─" + left + strings.Repeat("─", fill) + right + "─" + closing)
}

// renderHeader shows the app name and the active slot
func (a *App) renderHeader() string {
	title := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("BESS Handbook")
	slot := lipgloss.NewStyle().Foreground(styles.Secondary).Render(a.slot)
	return a.frameLine("╭", " "+icons.App.String()+" "+title+" ", " "+slot+" ", "╮")
}

// renderFooter shows the key bindings for the screen and the last
// compute and save status
func (a *App) renderFooter() string {
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	var shortcuts []string
	if a.screen == ScreenWizard {
		for _, s := range [][2]string{{"Tab", "Next field"}, {"Enter", "Confirm"}, {"Esc", "Cancel"}} {
			shortcuts = append(shortcuts, keyStyle.Render(s[0])+" "+labelStyle.Render(s[1]))
		}
	} else {
		shortcuts = append(shortcuts,
			a.help.ShortHelpView(a.keys.ShortHelp()),
			keyStyle.Render("↑↓")+" "+labelStyle.Render("Scroll"))
	}

	status := ""
	if a.screen == ScreenDashboard && !a.lastUpdate.IsZero() {
		text := "Computed " + timeSince(time.Since(a.lastUpdate))
		if a.saveStatus != "" {
			text = a.saveStatus + " · " + text
		}
		status = " " + lipgloss.NewStyle().Foreground(styles.Secondary).Render(text) + " "
	}

	return a.frameLine("╰", " "+strings.Join(shortcuts, "  ")+" ", status, "╯")
}

// timeSince renders an elapsed duration at a coarse, human scale
func timeSince(d time.Duration) string {
	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

// wrapWithFrame puts content between the header and footer
func (a *App) wrapWithFrame(content string) string {
	return strings.Join([]string{a.renderHeader(), content, a.renderFooter()}, "\n")
}

// Run starts the TUI. Logs go to debug.log under logDir while it runs.
func Run(engine services.Computer, st store.Store, slot, logDir string) error {
	if err := debuglog.Init(logDir); err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}
	defer debuglog.Close()

	p := tea.NewProgram(
		New(engine, st, slot),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
