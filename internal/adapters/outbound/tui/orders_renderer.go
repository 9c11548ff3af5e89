package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ordercraft/ordercraft/internal/domain"
)

const ordersMaxRows = 15

// RenderOrders renders orders as a table, newest first.
func RenderOrders(orders []*domain.Order) string {
	if len(orders) == 0 {
		return "\n  " + dimStyle.Render("No orders yet.") + "\n\n"
	}

	var b strings.Builder
	b.WriteString("\n")

	// Header.
	hdrLine := fmt.Sprintf("  %-28s %-10s %5s %12s  %s",
		"Order", "Status", "Items", "Total", "Created")
	b.WriteString(titleStyle.Render(hdrLine) + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 76)) + "\n")

	shown := min(len(orders), ordersMaxRows)
	for _, o := range orders[:shown] {
		id := dimStyle.Render(padRight(o.OrderID, 28))
		status := lipgloss.NewStyle().Foreground(statusColor(o.Status)).Render(padRight(string(o.Status), 10))
		created := dimStyle.Render(o.CreatedAt.Format("2006-01-02 15:04"))

		line := fmt.Sprintf("  %s %s %5d %12s  %s",
			id, status, len(o.Items), money(o.TotalAmount), created)
		b.WriteString(line + "\n")
	}

	remaining := len(orders) - shown
	if remaining > 0 {
		b.WriteString(faintStyle.Render(fmt.Sprintf("  (%d more orders)\n", remaining)))
	}

	b.WriteString("\n")
	return b.String()
}

// RenderStats renders aggregate order statistics.
func RenderStats(stats *domain.OrderStats) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("ordercraft")
	subtitle := dimStyle.Render("Order Statistics")
	countLine := totalStyle.Render(fmt.Sprintf("%d orders", stats.TotalOrders))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + countLine))
	b.WriteString("\n\n")

	if stats.TotalOrders == 0 {
		b.WriteString("  " + dimStyle.Render("No orders yet.") + "\n")
		return b.String()
	}

	// ── Status breakdown ──
	for _, status := range []domain.OrderStatus{domain.StatusPending, domain.StatusConfirmed, domain.StatusRejected} {
		count := stats.StatusCounts[status]
		pct := count * 100 / stats.TotalOrders
		name := lipgloss.NewStyle().Bold(true).Foreground(statusColor(status)).Render(padRight(string(status), 12))
		bar := coloredBar(statusColor(status), pct, 20)

		fmt.Fprintf(&b, "  %s %s  %s\n", name, bar, dimStyle.Render(fmt.Sprintf("%d", count)))
	}

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	// ── Revenue ──
	fmt.Fprintf(&b, "  %s %s\n",
		titleStyle.Render(padRight("Total revenue", 16)),
		totalStyle.Render(money(stats.TotalRevenue)),
	)
	fmt.Fprintf(&b, "  %s %s\n",
		titleStyle.Render(padRight("Average order", 16)),
		dimStyle.Render(money(stats.AverageOrderValue)),
	)
	b.WriteString("  " + faintStyle.Render("Revenue excludes rejected orders.") + "\n")

	b.WriteString("\n")
	return b.String()
}
