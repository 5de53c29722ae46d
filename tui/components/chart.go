package components

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

// chartBlocks are eighth-height blocks; index 0 is empty, index 8 is full.
var chartBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// chartLabelWidth is the width reserved for Y-axis labels.
const chartLabelWidth = 10

// RenderChart draws data (oldest to newest, left to right) as a block-column
// chart of the given size, title row included. The Y axis spans the data's
// range with a margin so small movements stay visible; format renders the
// axis labels.
func RenderChart(data []float64, width, height int, title string, format func(float64) string) string {
	if width < chartLabelWidth+2 {
		width = chartLabelWidth + 2
	}
	if height < 4 {
		height = 4
	}
	plotWidth := width - chartLabelWidth
	plotHeight := height - 1

	lines := make([]string, 0, height)
	lines = append(lines, centerText(title, width))

	if len(data) == 0 {
		blank := strings.Repeat(" ", width)
		for i := 0; i < plotHeight; i++ {
			lines = append(lines, blank)
		}
		return strings.Join(lines, "\n")
	}
	if len(data) > plotWidth {
		data = data[len(data)-plotWidth:]
	}

	lo, hi := chartRange(data)
	step := (hi - lo) / float64(plotHeight)

	for row := plotHeight - 1; row >= 0; row-- {
		bottom := lo + step*float64(row)
		top := bottom + step

		var sb strings.Builder
		sb.WriteString(runewidth.FillLeft(format(top), chartLabelWidth-1))
		sb.WriteRune(' ')
		sb.WriteString(strings.Repeat(" ", plotWidth-len(data)))
		for _, v := range data {
			sb.WriteRune(cellBlock(v, bottom, top))
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// chartRange returns the plotted range: the data's extent widened by a tenth
// on each side, and at least one unit tall.
func chartRange(data []float64) (lo, hi float64) {
	lo, hi = data[0], data[0]
	for _, v := range data {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	margin := (hi - lo) * 0.1
	if margin < 0.5 {
		margin = 0.5
	}
	lo -= margin
	hi += margin
	if lo < 0 && data[0] >= 0 {
		lo = 0
	}
	return lo, hi
}

// cellBlock picks the block for a value within one row of the chart.
func cellBlock(v, bottom, top float64) rune {
	switch {
	case v <= bottom:
		return chartBlocks[0]
	case v >= top:
		return chartBlocks[8]
	}
	idx := int(math.Round((v - bottom) / (top - bottom) * 8))
	return chartBlocks[max(0, min(idx, 8))]
}

// centerText centers s within the given display width.
func centerText(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "")
	}
	pad := (width - w) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-w-pad)
}
