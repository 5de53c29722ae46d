package components

import (
	"fmt"
	"math"
	"strings"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the last width values as a one-line trend, right
// aligned. A flat series renders mid-height.
func Sparkline(data []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", width-len(data)))
	if len(data) == 0 {
		return sb.String()
	}

	lo, hi := data[0], data[0]
	for _, v := range data {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	top := len(sparkBlocks) - 1
	for _, v := range data {
		idx := top / 2
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(top)))
		}
		sb.WriteRune(sparkBlocks[idx])
	}
	return sb.String()
}

// SuccessBar renders percent as a filled bar of the given width.
func SuccessBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(percent, 100))
	filled := int(math.Round(float64(percent) / 100 * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// FormatDistance renders a distance in pixels with two decimals.
func FormatDistance(px float64) string {
	return fmt.Sprintf("%.2f px", px)
}

// FormatDrift renders a signed distance change.
func FormatDrift(px float64) string {
	return fmt.Sprintf("%+.2f px", px)
}
