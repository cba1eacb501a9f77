package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisSeparator       = " │ "
	axisLabelWidth      = 4
	colorTrend          = "\x1b[36m"
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// MinTrendDays is the number of distinct days needed to draw a trend.
const MinTrendDays = 2

// TrendWindow is the number of days averaged into each trend point.
const TrendWindow = 3

// RenderTrend draws daily accuracy as a braille line chart on a fixed 0-100% scale.
func RenderTrend(w io.Writer, days []DayAccuracy, width, height int, forceColor bool) error {
	if _, err := fmt.Fprintf(w, "Accuracy Trend (%d-day average)\n", TrendWindow); err != nil {
		return err
	}
	if len(days) < MinTrendDays {
		_, err := fmt.Fprintf(w, "At least %d days of history are needed to show a trend.\n", MinTrendDays)
		return err
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	values := TrendSeries(days)
	// Two braille dot columns per cell.
	points := resample(values, width*2)
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	dotRows := height * 4
	prevRow := -1
	for x, v := range points {
		row := percentToRow(v, dotRows)
		from, to := row, row
		if prevRow >= 0 {
			from, to = min(prevRow, row), max(prevRow, row)
		}
		for y := from; y <= to; y++ {
			setDot(cells, x, y)
		}
		prevRow = row
	}

	useColor := shouldUseColor(w, forceColor)
	for y := 0; y < height; y++ {
		var line strings.Builder
		line.WriteString(fmt.Sprintf("%*s%s", axisLabelWidth, axisLabel(y, height), axisSeparator))
		if useColor {
			line.WriteString(colorTrend)
		}
		for x := 0; x < width; x++ {
			line.WriteRune(rune(0x2800 + int(cells[y][x])))
		}
		if useColor {
			line.WriteString(colorReset)
		}
		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return err
		}
	}

	first := days[0].Date.Format("1/2")
	last := days[len(days)-1].Date.Format("1/2")
	gap := max(1, width-utf8.RuneCountInString(first)-utf8.RuneCountInString(last))
	indent := strings.Repeat(" ", axisLabelWidth+utf8.RuneCountInString(axisSeparator))
	if _, err := fmt.Fprintf(w, "%s%s%s%s\n", indent, first, strings.Repeat(" ", gap), last); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Latest: %d%% on %s (%d answers)\n\n", days[len(days)-1].Percent(), days[len(days)-1].Date.Format("2006-01-02"), days[len(days)-1].Total)
	return err
}

// TrendSeries returns daily accuracy percentages smoothed over TrendWindow days.
func TrendSeries(days []DayAccuracy) []float64 {
	values := make([]float64, len(days))
	for i, d := range days {
		values[i] = float64(d.Percent())
	}
	return MovingAverage(values, TrendWindow)
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisLabelWidth - utf8.RuneCountInString(axisSeparator)
	return max(plotWidth, minPlotWidth)
}

func axisLabel(row, height int) string {
	switch {
	case row == 0:
		return "100%"
	case row == height-1:
		return "0%"
	case height > 2 && row == height/2:
		return "50%"
	default:
		return ""
	}
}

func percentToRow(v float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	v = math.Max(0, math.Min(100, v))
	return int(math.Round((1 - v/100) * float64(rows-1)))
}

// resample stretches or shrinks values to n points using linear interpolation.
func resample(values []float64, n int) []float64 {
	if len(values) == 0 || n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if len(values) == 1 || n == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := range out {
		pos := float64(i) * float64(len(values)-1) / float64(n-1)
		idx := int(math.Floor(pos))
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

// Braille dot bits indexed by [column][row] within a 2x4 cell.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func setDot(cells [][]uint8, x, y int) {
	cellY, cellX := y/4, x/2
	if x < 0 || y < 0 || cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleBits[x%2][y%4]
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
