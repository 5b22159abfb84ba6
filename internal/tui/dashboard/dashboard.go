// ABOUTME: Dashboard component displaying the computed design
// ABOUTME: Shows headline metrics, status banners and result sections

package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Simtestlab/bess-handbook/internal/tui/icons"
	"github.com/Simtestlab/bess-handbook/internal/tui/styles"
	"github.com/Simtestlab/bess-handbook/internal/tui/widgets"
	"github.com/Simtestlab/bess-handbook/models"
	"github.com/Simtestlab/bess-handbook/report"
	"github.com/Simtestlab/bess-handbook/services"
)

// historyLimit caps how many edits the sparklines remember
const historyLimit = 32

// Dashboard displays one design input and its derived result
type Dashboard struct {
	input  models.DesignInput
	result *models.DerivedResult
	err    error
	width  int
	height int

	lastKey       string
	packHistory   []float64
	usableHistory []float64
}

// New creates an empty dashboard
func New(width, height int) *Dashboard {
	return &Dashboard{
		width:  width,
		height: height,
	}
}

// SetDesign shows a freshly computed design and records it in the history
func (d *Dashboard) SetDesign(in models.DesignInput, r models.DerivedResult) {
	d.input = in
	d.result = &r
	d.err = nil

	if key := in.Key(); key != d.lastKey {
		d.lastKey = key
		d.packHistory = appendCapped(d.packHistory, r.PackEnergyKwh)
		d.usableHistory = appendCapped(d.usableHistory, r.UsableEnergyKwh)
	}
}

// SetError shows why the current input could not be computed. The last good
// result stays in the history.
func (d *Dashboard) SetError(in models.DesignInput, err error) {
	d.input = in
	d.result = nil
	d.err = err
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// History returns the recorded usable energy values, oldest first
func (d *Dashboard) History() []float64 {
	return d.usableHistory
}

func appendCapped(values []float64, v float64) []float64 {
	values = append(values, v)
	if len(values) > historyLimit {
		values = values[len(values)-historyLimit:]
	}
	return values
}

// View renders the dashboard
func (d *Dashboard) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Battery.String() + " BESS Design"))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s %s", d.input.CellChemistry, d.input.Topology())))
	sb.WriteString("\n")

	switch {
	case d.err != nil:
		sb.WriteString(d.renderError())
	case d.result == nil:
		sb.WriteString(styles.Subtitle.Render("Computing design..."))
	default:
		sb.WriteString(d.renderHeadlines())
		sb.WriteString("\n\n")
		sb.WriteString(d.renderCoverage())
		sb.WriteString("\n\n")
		for _, b := range report.Banners(d.input, *d.result) {
			sb.WriteString(widgets.BannerLine(b))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		sb.WriteString(d.renderSections())
	}

	return lipgloss.NewStyle().
		Width(d.width).
		Render(sb.String())
}

func (d *Dashboard) renderError() string {
	var sb strings.Builder
	sb.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " Design cannot be computed"))
	sb.WriteString("\n\n")

	var vErr *services.ValidationError
	if errors.As(d.err, &vErr) {
		for _, v := range vErr.Violations {
			sb.WriteString(fmt.Sprintf("  %s %s\n",
				styles.KeyStyle.Render(v.Field),
				styles.LabelStyle.Render(v.Reason)))
		}
	} else {
		sb.WriteString(styles.LabelStyle.Render(d.err.Error()))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render("Press e to edit the inputs or r to reset them"))
	return sb.String()
}

// renderHeadlines lays out the three headline blocks, stacking them when
// the pane is too narrow to fit them side by side
func (d *Dashboard) renderHeadlines() string {
	rows := report.Headlines(d.input, *d.result)
	config := widgets.DefaultMetricBlockConfig()
	coverage := d.coverage()

	blocks := []string{
		widgets.MetricBlockWithSparkline(icons.Battery, rows[0].Label, rows[0].Value, d.packHistory, rows[0].Unit, config),
		widgets.MetricBlockWithBar(icons.Gauge, rows[1].Label, rows[1].Value+" kWh", coverage,
			fmt.Sprintf("of %g kWh target", d.input.TargetEnergy), config),
		widgets.MetricBlock(icons.Bolt, rows[2].Label, rows[2].Value, rows[2].Unit, config),
	}

	if d.width >= len(blocks)*(config.Width+1) {
		return lipgloss.JoinHorizontal(lipgloss.Top, blocks[0], " ", blocks[1], " ", blocks[2])
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// coverage is usable energy as a percentage of the target. A zero target is
// always covered.
func (d *Dashboard) coverage() float64 {
	if d.input.TargetEnergy <= 0 {
		return 100
	}
	return d.result.UsableEnergyKwh / d.input.TargetEnergy * 100
}

// renderCoverage draws the usable energy coverage bar with its 100% marker
func (d *Dashboard) renderCoverage() string {
	config := widgets.DefaultProgressBarConfig()
	config.Width = min(40, max(10, d.width-30))
	return fmt.Sprintf("%s  %s",
		styles.LabelStyle.Render("Target coverage"),
		widgets.ProgressBarWithLabel(d.coverage(), config))
}

var sectionIcons = map[string]icons.Icon{
	"Cell & Module Configuration": icons.Cell,
	"Pack Specifications":         icons.Battery,
	"Rack Architecture":           icons.Rack,
	"Electrical Performance":      icons.Thermometer,
	"BMS & Protection":            icons.Chip,
}

// renderSections renders every result section as aligned label/value rows
func (d *Dashboard) renderSections() string {
	sections := report.Sections(*d.result)

	labelWidth := 0
	for _, s := range sections {
		for _, row := range s.Rows {
			labelWidth = max(labelWidth, lipgloss.Width(row.Label))
		}
	}

	var sb strings.Builder
	for i, s := range sections {
		icon, ok := sectionIcons[s.Title]
		if !ok {
			icon = icons.Info
		}
		sb.WriteString(styles.KeyStyle.Render(icon.String() + " " + s.Title))
		sb.WriteString("\n")
		for _, row := range s.Rows {
			value := styles.ValueStyle.Render(row.Value)
			if row.Unit != "" {
				value += " " + styles.LabelStyle.Render(row.Unit)
			}
			sb.WriteString(fmt.Sprintf("  %s  %s\n",
				styles.LabelStyle.Render(fmt.Sprintf("%-*s", labelWidth, row.Label)),
				value))
		}
		if i < len(sections)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
