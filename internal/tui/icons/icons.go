// ABOUTME: Icons with Nerd Font glyphs and plain Unicode fallbacks
// ABOUTME: Glyph choice follows BESS_NERD_FONTS or the detected terminal

package icons

import (
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/Simtestlab/bess-handbook/report"
)

// nerdFontTerminals ship with, or are commonly set up with, a Nerd Font
var nerdFontTerminals = []string{"iterm.app", "alacritty", "wezterm", "kitty", "ghostty"}

// HasNerdFonts reports whether icons should use Nerd Font glyphs. It is
// decided once per process: BESS_NERD_FONTS forces it on or off, otherwise
// the terminal is recognised from TERM_PROGRAM or TERM.
var HasNerdFonts = sync.OnceValue(func() bool {
	if v := os.Getenv("BESS_NERD_FONTS"); v != "" {
		on, err := strconv.ParseBool(v)
		return err == nil && on
	}

	terminal := strings.ToLower(os.Getenv("TERM_PROGRAM") + " " + os.Getenv("TERM"))
	return slices.ContainsFunc(nerdFontTerminals, func(t string) bool {
		return strings.Contains(terminal, t)
	})
})

// Icon is one glyph in both renderings
type Icon struct {
	NerdFont string
	Fallback string
}

// String picks the rendering for the current terminal
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Icon definitions - Nerd Font codepoints with Unicode fallbacks
var (
	// Hardware
	Battery     = Icon{"󰁹", "▮"} // nf-md-battery
	Bolt        = Icon{"󱐋", "ϟ"} // nf-md-lightning_bolt
	Rack        = Icon{"󰒋", "▣"} // nf-md-server
	Cell        = Icon{"󰂄", "□"} // nf-md-battery_charging
	Chip        = Icon{"", "◆"} // nf-oct-cpu
	Thermometer = Icon{"", "≈"} // nf-fa-thermometer_half
	Shield      = Icon{"󰒃", "⛊"} // nf-md-shield_check

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	// Charts
	Chart = Icon{"󰄭", "▁"} // nf-md-chart_line
	Gauge = Icon{"󰓅", "◐"} // nf-md-gauge

	// Actions
	Edit  = Icon{"󰏫", "✎"} // nf-md-pencil
	Save  = Icon{"󰆓", "↓"} // nf-md-content_save
	Reset = Icon{"󰑓", "↻"} // nf-md-refresh
	Quit  = Icon{"󰗼", "×"} // nf-md-exit_to_app

	// Application
	App = Icon{"󰂄", "◈"} // nf-md-battery_charging
)

// ForSeverity returns the status icon for a banner severity
func ForSeverity(s report.Severity) Icon {
	switch s {
	case report.SeverityCritical:
		return Critical
	case report.SeverityWarning:
		return Warning
	default:
		return CheckOK
	}
}
