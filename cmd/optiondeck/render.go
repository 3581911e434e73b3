package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"optiondeck/internal/dashboard"
)

// Styles.
var (
	headerBarStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	bannerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1"))
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("4"))
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	colHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dangerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	atmStyle       = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("236"))
)

// sevStyle maps a panel severity to its terminal style.
func sevStyle(s dashboard.Severity) lipgloss.Style {
	switch s {
	case dashboard.SeveritySuccess:
		return successStyle
	case dashboard.SeverityWarning:
		return warningStyle
	case dashboard.SeverityDanger:
		return dangerStyle
	case dashboard.SeverityInfo:
		return infoStyle
	default:
		return valueStyle
	}
}

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}

	v := m.state.View()

	// Instrument tabs with exactly one active entry.
	var tabs strings.Builder
	for i, sym := range m.instruments {
		label := fmt.Sprintf(" %d:%s ", i+1, sym)
		if sym == v.Selected {
			tabs.WriteString(tabActiveStyle.Render(label))
		} else {
			tabs.WriteString(tabStyle.Render(label))
		}
	}

	status := ""
	if v.Timestamp != "" {
		status = "  " + v.Timestamp
	}
	if v.AutoRefresh {
		status += "  auto:on "
	} else {
		status += "  auto:OFF "
	}
	tabsW := lipgloss.Width(tabs.String())
	gap := m.width - tabsW - runewidth.StringWidth(status)
	if gap < 0 {
		gap = 0
	}
	headerBar := tabs.String() + headerBarStyle.Render(strings.Repeat(" ", gap)+status)

	var footerText string
	if m.filtering {
		footerText = " filter " + m.filterInput.View()
	} else {
		pct := m.viewport.ScrollPercent() * 100
		footerLeft := " q quit  1-9/tab instrument  / filter  a auto-refresh  d dismiss  pgup/dn scroll"
		footerRight := fmt.Sprintf("%.0f%% ", pct)
		fgap := m.width - len(footerLeft) - len(footerRight)
		if fgap < 0 {
			fgap = 0
		}
		footerText = footerLeft + strings.Repeat(" ", fgap) + footerRight
	}
	footerBar := footerBarStyle.Render(padOrTrunc(footerText, m.width))

	return headerBar + "\n" + m.viewport.View() + "\n" + footerBar
}

func (m model) renderContent(v dashboard.View) string {
	var b strings.Builder

	if v.ErrorBanner != "" {
		b.WriteString(bannerStyle.Render(padOrTrunc("  "+v.ErrorBanner+"  (d to dismiss)", m.width)))
		b.WriteString("\n")
	}

	if v.Snapshot == nil {
		b.WriteString(dimStyle.Render("  Waiting for first snapshot..."))
		b.WriteString("\n")
		return b.String()
	}

	// While a switch is in flight the previous instrument's data stays up,
	// labeled as its own.
	if v.DataInstrument != v.Selected {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  showing %s, fetching %s...", v.DataInstrument, v.Selected)))
		b.WriteString("\n\n")
	}

	renderMetrics(&b, dashboard.BuildKeyMetrics(v.Snapshot))
	b.WriteString("\n")
	renderSignals(&b, dashboard.BuildSignals(v.Signals))
	b.WriteString("\n")
	renderLevels(&b, dashboard.BuildLevels(v.Snapshot), m.width)
	b.WriteString("\n")
	renderCharts(&b, v.Snapshot, m.width)
	b.WriteString("\n")
	renderChain(&b, dashboard.BuildChainRows(v.Snapshot, v.Filter), v.Filter)

	return b.String()
}

func renderMetrics(b *strings.Builder, cards []dashboard.MetricCard) {
	b.WriteString(titleStyle.Render("  Key Metrics"))
	b.WriteString("\n  ")
	for i, c := range cards {
		if i > 0 {
			b.WriteString(dimStyle.Render("  │  "))
		}
		b.WriteString(labelStyle.Render(c.Label + " "))
		b.WriteString(sevStyle(c.Severity).Render(c.Value))
	}
	b.WriteString("\n")
}

func renderSignals(b *strings.Builder, sv dashboard.SignalsView) {
	b.WriteString(titleStyle.Render("  Trading Signals"))
	b.WriteString("\n  ")
	biasLine := fmt.Sprintf("%s %s", sv.Icon, string(sv.Bias))
	b.WriteString(sevStyle(sv.Severity).Bold(true).Render(biasLine))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  confidence %d%%", sv.Confidence)))
	b.WriteString("\n")
	if sv.Placeholder != "" {
		b.WriteString(dimStyle.Render("  " + sv.Placeholder))
		b.WriteString("\n")
		return
	}
	for _, item := range sv.Items {
		b.WriteString("  ")
		b.WriteString(sevStyle(sv.Severity).Render("• " + item))
		b.WriteString("\n")
	}
}

func renderLevels(b *strings.Builder, lv dashboard.LevelsView, width int) {
	b.WriteString(titleStyle.Render("  Support / Resistance"))
	b.WriteString("\n")
	if lv.Placeholder != "" {
		b.WriteString(dimStyle.Render("  " + lv.Placeholder))
		b.WriteString("\n")
		return
	}

	colW := 34
	if width/2-4 < colW {
		colW = width/2 - 4
	}
	sup := levelColumn("Support", lv.Support, successStyle, colW)
	res := levelColumn("Resistance", lv.Resistance, dangerStyle, colW)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, "  ", sup, "  ", res))
	b.WriteString("\n")
}

func levelColumn(title string, entries []dashboard.LevelEntry, style lipgloss.Style, width int) string {
	var b strings.Builder
	b.WriteString(colHeaderStyle.Render(padOrTrunc(title, width)))
	b.WriteString("\n")
	if len(entries) == 0 {
		b.WriteString(dimStyle.Render(padOrTrunc("(none)", width)))
		return b.String()
	}
	for i, e := range entries {
		line := fmt.Sprintf("%-10s %8s", e.Price, e.Distance)
		st := style
		if e.Strong {
			st = style.Bold(true)
			line += " ◆"
		}
		b.WriteString(st.Render(padOrTrunc(line, width)))
		if i < len(entries)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderChain(b *strings.Builder, rows []dashboard.ChainRow, filter string) {
	b.WriteString(titleStyle.Render("  Option Chain"))
	if filter != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  filter: %q", filter)))
	}
	b.WriteString("\n")

	colLine := fmt.Sprintf("  %9s %9s %9s %6s  %8s %7s  %6s %9s %9s %9s",
		"CE OI", "CE Chg", "CE Vol", "CE V/O", "STRIKE", "Skew", "PE V/O", "PE Vol", "PE Chg", "PE OI")
	b.WriteString(colHeaderStyle.Render(colLine))
	b.WriteString("\n")

	shown := 0
	for _, r := range rows {
		if r.Hidden {
			continue
		}
		shown++

		strikeCell := fmt.Sprintf("%8s", r.StrikeLabel)
		strikeStyle := valueStyle
		if r.ATM {
			strikeStyle = atmStyle
			strikeCell = fmt.Sprintf("%7s*", r.StrikeLabel)
		}

		b.WriteString("  ")
		b.WriteString(sevStyle(r.CESeverity).Render(fmt.Sprintf("%9s", r.CEOI)))
		b.WriteString(" ")
		b.WriteString(changeStyle(r.CEChangePos).Render(fmt.Sprintf("%9s", r.CEChangeOI)))
		b.WriteString(" ")
		b.WriteString(valueStyle.Render(fmt.Sprintf("%9s", r.CEVolume)))
		b.WriteString(" ")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%6s", r.CERatio)))
		b.WriteString("  ")
		b.WriteString(strikeStyle.Render(strikeCell))
		b.WriteString(" ")
		b.WriteString(sevStyle(r.SkewSeverity).Render(fmt.Sprintf("%7s", r.OISkew)))
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%6s", r.PERatio)))
		b.WriteString(" ")
		b.WriteString(valueStyle.Render(fmt.Sprintf("%9s", r.PEVolume)))
		b.WriteString(" ")
		b.WriteString(changeStyle(r.PEChangePos).Render(fmt.Sprintf("%9s", r.PEChangeOI)))
		b.WriteString(" ")
		b.WriteString(sevStyle(r.PESeverity).Render(fmt.Sprintf("%9s", r.PEOI)))
		b.WriteString("\n")
	}
	if shown == 0 {
		b.WriteString(dimStyle.Render("  (no strikes match the filter)"))
		b.WriteString("\n")
	}
}

func changeStyle(positive bool) lipgloss.Style {
	if positive {
		return successStyle
	}
	return dangerStyle
}

// padOrTrunc pads s with spaces to width, or truncates if longer. Width is
// measured in terminal cells, not bytes.
func padOrTrunc(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}
