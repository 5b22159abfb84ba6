// ABOUTME: Status badge widgets for design and energy status lines
// ABOUTME: Maps report severities onto colored badges and icons

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Simtestlab/bess-handbook/internal/tui/icons"
	"github.com/Simtestlab/bess-handbook/report"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// Badge colors
var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeOKFg      = lipgloss.Color("#FFFFFF")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeWarnFg    = lipgloss.Color("#000000")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeCritFg    = lipgloss.Color("#FFFFFF")
	BadgeInfoBg    = lipgloss.Color("#3B82F6")
	BadgeInfoFg    = lipgloss.Color("#FFFFFF")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
	BadgeNeutralFg = lipgloss.Color("#FFFFFF")
)

// LevelFromSeverity converts a report banner severity to a badge level
func LevelFromSeverity(s report.Severity) StatusLevel {
	switch s {
	case report.SeverityOK:
		return StatusOK
	case report.SeverityWarning:
		return StatusWarning
	case report.SeverityCritical:
		return StatusCritical
	default:
		return StatusNeutral
	}
}

// StatusFromCoverage returns the level for how much of a target is met.
// Full coverage is OK, partial coverage above warnBelow is a warning.
func StatusFromCoverage(percent, warnBelow float64) StatusLevel {
	if percent >= 100 {
		return StatusOK
	}
	if percent >= warnBelow {
		return StatusWarning
	}
	return StatusCritical
}

func levelColors(level StatusLevel) (bg, fg lipgloss.Color) {
	switch level {
	case StatusOK:
		return BadgeOKBg, BadgeOKFg
	case StatusWarning:
		return BadgeWarnBg, BadgeWarnFg
	case StatusCritical:
		return BadgeCritBg, BadgeCritFg
	case StatusInfo:
		return BadgeInfoBg, BadgeInfoFg
	default:
		return BadgeNeutralBg, BadgeNeutralFg
	}
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	bg, fg := levelColors(level)

	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true)

	return style.Render(text)
}

// StatusBadge renders a predefined status badge (OK, WARN, CRIT)
func StatusBadge(level StatusLevel) string {
	switch level {
	case StatusOK:
		return Badge("OK", StatusOK)
	case StatusWarning:
		return Badge("WARN", StatusWarning)
	case StatusCritical:
		return Badge("CRIT", StatusCritical)
	case StatusInfo:
		return Badge("INFO", StatusInfo)
	default:
		return Badge("--", StatusNeutral)
	}
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	bg, _ := levelColors(level)
	style := lipgloss.NewStyle().Foreground(bg)

	switch level {
	case StatusOK:
		return style.Render(icons.CheckOK.String())
	case StatusWarning:
		return style.Render(icons.Warning.String())
	case StatusCritical:
		return style.Render(icons.Critical.String())
	case StatusInfo:
		return style.Render(icons.Info.String())
	default:
		return style.Render("•")
	}
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	bg, _ := levelColors(level)
	textStyle := lipgloss.NewStyle().Foreground(bg)
	return fmt.Sprintf("%s %s", StatusIcon(level), textStyle.Render(text))
}

// BannerLine renders one status banner as a badge, icon and colored message
func BannerLine(b report.Banner) string {
	level := LevelFromSeverity(b.Severity)
	return StatusBadge(level) + " " + StatusText(b.Message, level)
}
