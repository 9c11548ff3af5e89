package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/ordercraft/ordercraft/internal/domain"
)

// ── Warm terminal palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	statusColors = map[domain.OrderStatus]lipgloss.Color{
		domain.StatusPending:   warning,
		domain.StatusConfirmed: success,
		domain.StatusRejected:  danger,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	nameStyle     = lipgloss.NewStyle().Bold(true).Foreground(fg)
	totalStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderSearchResults formats ranked catalog matches for terminal output.
func RenderSearchResults(query string, results []domain.ProductReference) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("ordercraft")
	subtitle := dimStyle.Render("Product Search")
	queryLine := titleStyle.Render(fmt.Sprintf("%q", query))
	countLine := dimStyle.Render(fmt.Sprintf("%d matches", len(results)))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + queryLine + "  " + countLine))
	b.WriteString("\n\n")

	if len(results) == 0 {
		b.WriteString("  " + dimStyle.Render("No products matched.") + "\n")
		return b.String()
	}

	// ── Results ──
	for _, p := range results {
		renderSearchResult(&b, p)
	}

	b.WriteString("\n")
	return b.String()
}

func renderSearchResult(b *strings.Builder, p domain.ProductReference) {
	pct := min(int(p.Score*100+0.5), 100)
	bar := coloredBar(scoreColor(pct), pct, 20)
	scoreText := lipgloss.NewStyle().Bold(true).Foreground(scoreColor(pct)).Render(fmt.Sprintf("%3d%%", pct))
	name := nameStyle.Render(truncateOrPad(p.Name, 26))
	price := titleStyle.Render(fmt.Sprintf("%10s", money(p.UnitPrice)))

	fmt.Fprintf(b, "  %s %s  %s %s\n", name, bar, scoreText, price)

	meta := dimStyle.Render(padRight(p.ProductID, 22)) + faintStyle.Render(p.Category)
	if note := stockNote(p.StockState); note != "" {
		meta += "  " + note
	}
	fmt.Fprintf(b, "    %s %s\n", stockIcon(p.StockState), meta)

	if p.Description != "" {
		fmt.Fprintf(b, "      %s\n", faintStyle.Render(p.Description))
	}
}

func stockIcon(s domain.StockState) string {
	switch s {
	case domain.StockInStock:
		return passStyle.Render("●")
	case domain.StockLimited:
		return warnStyle.Render("●")
	default:
		return failStyle.Render("○")
	}
}

func stockNote(s domain.StockState) string {
	switch s {
	case domain.StockLimited:
		return warnStyle.Render("limited stock")
	case domain.StockOutOfStock:
		return failStyle.Render("out of stock")
	default:
		return ""
	}
}

func statusColor(s domain.OrderStatus) lipgloss.Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return fg
}

func statusTag(s domain.OrderStatus) string {
	return lipgloss.NewStyle().Bold(true).Foreground(statusColor(s)).Render(string(s))
}

func coloredBar(color lipgloss.Color, pct, width int) string {
	filled := max(0, min(pct*width/100, width))
	empty := width - filled

	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func scoreColor(pct int) lipgloss.Color {
	switch {
	case pct >= 80:
		return success
	case pct >= 60:
		return lipgloss.Color("#A3E635") // lime
	case pct >= 40:
		return warning
	default:
		return danger
	}
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func truncateOrPad(s string, width int) string {
	if len(s) > width {
		return s[:width-1] + "…"
	}
	return padRight(s, width)
}
