// ABOUTME: Sparkline widget renders mini trend charts using block characters
// ABOUTME: Shows how a headline figure moved across the session's edits

package widgets

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// SparklineBlocks are the block characters from lowest to highest
var SparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline draws values, most recent last, as exactly width blocks scaled
// between their own minimum and maximum.
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	window := sampleValues(values, width)
	lo, hi := slices.Min(window), slices.Max(window)

	blocks := make([]rune, 0, len(window))
	for _, v := range window {
		blocks = append(blocks, valueToBlock(v, lo, hi))
	}

	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(color)
	}
	return style.Render(string(blocks))
}

// sampleValues keeps the last width values, left-padding a short history
// with its first value so the line starts flat
func sampleValues(values []float64, width int) []float64 {
	if len(values) >= width {
		return values[len(values)-width:]
	}

	padded := make([]float64, 0, width)
	for len(padded) < width-len(values) {
		padded = append(padded, values[0])
	}
	return append(padded, values...)
}

// valueToBlock picks the block for value's position in [lo, hi]. A flat
// range draws mid-height.
func valueToBlock(value, lo, hi float64) rune {
	top := len(SparklineBlocks) - 1
	if hi == lo {
		return SparklineBlocks[len(SparklineBlocks)/2]
	}
	idx := int((value - lo) / (hi - lo) * float64(top))
	return SparklineBlocks[min(max(idx, 0), top)]
}
