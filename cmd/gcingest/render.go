package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/crimson-sun/gcingest/internal/engine/summary"
)

var (
	colorCyan    = lipgloss.Color("#8BE9FD")
	colorMagenta = lipgloss.Color("#FF79C6")
	colorGray    = lipgloss.Color("#6272A4")
	colorYellow  = lipgloss.Color("#F1FA8C")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorMagenta).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(colorGray)
	warnStyle   = lipgloss.NewStyle().Foreground(colorYellow)
)

func renderSummary(sessionID string, groups []summary.Group) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("session " + sessionID))
	b.WriteString("\n")
	if len(groups) == 0 {
		b.WriteString(dimStyle.Render("no events"))
		return b.String()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers("PHASE", "CAUSE", "MODE", "COUNT", "TOTAL PAUSE", "MAX PAUSE", "MEAN PAUSE", "FREED", "SPAN").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	var total int
	for _, g := range groups {
		total += g.Count
		t.Row(
			g.Phase.String(),
			g.Cause.String(),
			g.Concurrency.String(),
			humanize.Comma(int64(g.Count)),
			g.TotalPause.String(),
			g.MaxPause.String(),
			g.MeanPause().String(),
			freed(g.FreedKB),
			g.Span(),
		)
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s events in %d groups", humanize.Comma(int64(total)), len(groups))))
	return b.String()
}

func freed(kb int64) string {
	if kb < 0 {
		return warnStyle.Render("-" + humanize.IBytes(uint64(-kb)*1024))
	}
	return humanize.IBytes(uint64(kb) * 1024)
}

func renderFormats(rows [][]string) string {
	headers := []string{"VM"}
	for _, c := range collectorsShown {
		headers = append(headers, c.String())
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}
