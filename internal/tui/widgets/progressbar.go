// ABOUTME: Coverage bar showing how much of a target a design meets
// ABOUTME: Marks the 100% line so overshoot and shortfall read at a glance

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBarConfig holds configuration for the coverage bar
type ProgressBarConfig struct {
	Width      int
	Scale      float64 // Percentage represented by a full bar (default 125)
	WarnBelow  float64 // Coverage under this is critical (default 80)
	OKColor    lipgloss.Color
	WarnColor  lipgloss.Color
	CritColor  lipgloss.Color
	EmptyColor lipgloss.Color
}

// DefaultProgressBarConfig returns sensible defaults
func DefaultProgressBarConfig() ProgressBarConfig {
	return ProgressBarConfig{
		Width:      20,
		Scale:      125,
		WarnBelow:  80,
		OKColor:    lipgloss.Color("#10B981"), // Green
		WarnColor:  lipgloss.Color("#F59E0B"), // Amber
		CritColor:  lipgloss.Color("#EF4444"), // Red
		EmptyColor: lipgloss.Color("#374151"), // Dark gray
	}
}

// ProgressBar renders coverage of a target with a marker at 100%
func ProgressBar(percent float64, config ProgressBarConfig) string {
	if config.Width <= 0 {
		config.Width = 20
	}
	if config.Scale <= 0 {
		config.Scale = 125
	}
	if percent < 0 {
		percent = 0
	}

	filled := int(percent / config.Scale * float64(config.Width))
	if filled > config.Width {
		filled = config.Width
	}
	targetPos := int(100 / config.Scale * float64(config.Width))

	var color lipgloss.Color
	switch StatusFromCoverage(percent, config.WarnBelow) {
	case StatusOK:
		color = config.OKColor
	case StatusWarning:
		color = config.WarnColor
	default:
		color = config.CritColor
	}

	filledStyle := lipgloss.NewStyle().Foreground(color)
	emptyStyle := lipgloss.NewStyle().Foreground(config.EmptyColor)

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < config.Width; i++ {
		switch {
		case i < filled:
			bar.WriteString(filledStyle.Render("█"))
		case i == targetPos:
			bar.WriteString(emptyStyle.Render("│"))
		default:
			bar.WriteString(emptyStyle.Render("░"))
		}
	}
	bar.WriteString("]")
	return bar.String()
}

// ProgressBarWithLabel renders the coverage bar followed by its percentage
func ProgressBarWithLabel(percent float64, config ProgressBarConfig) string {
	level := StatusFromCoverage(percent, config.WarnBelow)
	return fmt.Sprintf("%s %s %s", ProgressBar(percent, config),
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%3.0f%%", percent)),
		StatusIcon(level))
}

// CompactProgressBar renders a minimal bar clamped to 100% for tight spaces
func CompactProgressBar(percent float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		width = 10
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	empty := width - filled

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▓", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#374151")).Render(strings.Repeat("░", empty))
}
