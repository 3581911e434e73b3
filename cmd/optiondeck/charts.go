package main

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"

	"optiondeck/internal/dashboard"
	"optiondeck/internal/domain"
)

// Chart styles.
var (
	skewLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	axisStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	chartLblStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ceBarStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	peBarStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const chartHeight = 10

func renderCharts(b *strings.Builder, snap *domain.Snapshot, width int) {
	skew := dashboard.BuildSkewSeries(snap)
	ce, pe := dashboard.BuildRatioSeries(snap)

	chartW := width/2 - 4
	if chartW < 30 {
		chartW = width - 4
	}
	if chartW < 20 {
		return
	}

	skewChart := renderSkewChart(skew, chartW, chartHeight)
	ratioChart := renderRatioChart(ce, pe, chartW, chartHeight)

	skewTitle := titleStyle.Render("  OI Skew by Strike")
	ratioTitle := titleStyle.Render("  Volume/OI by Strike  ") +
		ceBarStyle.Render("■ CE ") + peBarStyle.Render("■ PE")

	if width/2-4 >= 30 {
		left := skewTitle + "\n  " + skewChart
		right := ratioTitle + "\n  " + ratioChart
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	} else {
		b.WriteString(skewTitle + "\n  " + skewChart + "\n\n" + ratioTitle + "\n  " + ratioChart)
	}
	b.WriteString("\n")
}

// renderSkewChart draws the per-strike OI-skew series as a braille line
// chart with the strike axis labeled.
func renderSkewChart(s dashboard.ChartSeries, width, height int) string {
	if len(s.X) < 2 {
		return dimStyle.Render("(not enough strikes to chart)")
	}

	minY, maxY := s.Y[0], s.Y[0]
	for _, y := range s.Y {
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	margin := (maxY - minY) * 0.1
	if margin == 0 {
		margin = 0.1
	}

	lc := linechart.New(width, height,
		s.X[0], s.X[len(s.X)-1],
		minY-margin, maxY+margin,
		linechart.WithXYSteps(6, 4),
		linechart.WithXLabelFormatter(func(_ int, v float64) string {
			return dashboard.FormatStrike(v)
		}),
		linechart.WithYLabelFormatter(func(_ int, v float64) string {
			return fmt.Sprintf("%.2f", v)
		}),
		linechart.WithStyles(axisStyle, chartLblStyle, skewLineStyle),
	)

	for i := 0; i < len(s.X)-1; i++ {
		lc.DrawBrailleLineWithStyle(
			canvas.Float64Point{X: s.X[i], Y: s.Y[i]},
			canvas.Float64Point{X: s.X[i+1], Y: s.Y[i+1]},
			skewLineStyle,
		)
	}
	lc.DrawXYAxisAndLabel()
	return lc.View()
}

// renderRatioChart draws paired CE/PE volume-to-OI bars per strike.
func renderRatioChart(ce, pe dashboard.ChartSeries, width, height int) string {
	if len(ce.X) == 0 {
		return dimStyle.Render("(no chain data)")
	}

	bc := barchart.New(width, height)
	for i := range ce.X {
		bc.Push(barchart.BarData{
			Label: dashboard.FormatStrike(ce.X[i]),
			Values: []barchart.BarValue{
				{Name: ce.Name, Value: ce.Y[i], Style: ceBarStyle},
				{Name: pe.Name, Value: pe.Y[i], Style: peBarStyle},
			},
		})
	}
	bc.Draw()
	return bc.View()
}
