// ABOUTME: Compact metric block widget for dashboard displays
// ABOUTME: Combines icon, value, coverage bar or sparkline in a bordered panel

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Simtestlab/bess-handbook/internal/tui/icons"
)

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig returns sensible defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       26,
		BorderColor: lipgloss.Color("#6B7280"), // Muted gray
		TitleColor:  lipgloss.Color("#06B6D4"), // Cyan
		ValueColor:  lipgloss.Color("#F9FAFB"), // Light
	}
}

// padLine pads styled content to the inner width using its display width
func padLine(content string, innerWidth int) string {
	return "│  " + content + strings.Repeat(" ", max(0, innerWidth-lipgloss.Width(content))) + "│"
}

func topBorder(icon icons.Icon, title string, innerWidth int, color lipgloss.Color) string {
	titleStr := truncate(fmt.Sprintf("%s %s", icon.String(), title), innerWidth-1)
	titleStyle := lipgloss.NewStyle().Foreground(color)
	return fmt.Sprintf("┌─ %s %s┐",
		titleStyle.Render(titleStr),
		strings.Repeat("─", max(0, innerWidth-lipgloss.Width(titleStr)-1)))
}

func frame(lines []string, config MetricBlockConfig) string {
	borderStyle := lipgloss.NewStyle().Foreground(config.BorderColor)
	lines = append(lines, fmt.Sprintf("└%s┘", strings.Repeat("─", config.Width-2)))
	for i, l := range lines {
		lines[i] = borderStyle.Render(l)
	}
	return strings.Join(lines, "\n")
}

// MetricBlock renders a compact metric display block
func MetricBlock(icon icons.Icon, title string, value string, subtitle string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 26
	}
	innerWidth := config.Width - 4

	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	return frame([]string{
		topBorder(icon, title, innerWidth, config.TitleColor),
		padLine(valueStyle.Render(truncate(value, innerWidth)), innerWidth),
		padLine(subtitleStyle.Render(truncate(subtitle, innerWidth)), innerWidth),
	}, config)
}

// MetricBlockWithBar renders a metric block with a target coverage bar
func MetricBlockWithBar(icon icons.Icon, title string, value string, percent float64, details string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 26
	}
	innerWidth := config.Width - 4
	barWidth := innerWidth - 6

	level := StatusFromCoverage(percent, 80)
	color, _ := levelColors(level)

	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	detailStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	percentStr := lipgloss.NewStyle().Foreground(color).Bold(true).Render(fmt.Sprintf("%4.0f%%", percent))

	return frame([]string{
		topBorder(icon, title, innerWidth, config.TitleColor),
		padLine(valueStyle.Render(truncate(value, innerWidth)), innerWidth),
		padLine(CompactProgressBar(percent, barWidth, color)+" "+percentStr, innerWidth),
		padLine(detailStyle.Render(truncate(details, innerWidth)), innerWidth),
	}, config)
}

// MetricBlockWithSparkline renders a metric block with a history sparkline
func MetricBlockWithSparkline(icon icons.Icon, title string, value string, sparkData []float64, subtitle string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 26
	}
	innerWidth := config.Width - 4
	sparkWidth := 8

	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	spark := Sparkline(sparkData, sparkWidth, config.TitleColor)

	return frame([]string{
		topBorder(icon, title, innerWidth, config.TitleColor),
		padLine(valueStyle.Render(value)+"  "+spark, innerWidth),
		padLine(subtitleStyle.Render(truncate(subtitle, innerWidth)), innerWidth),
	}, config)
}

// truncate shortens a string to maxLen runes with ellipsis if needed
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:max(0, maxLen)])
	}
	return string(r[:maxLen-3]) + "..."
}
