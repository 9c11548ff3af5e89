package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ordercraft/ordercraft/internal/domain"
)

var hintStyle = lipgloss.NewStyle().Foreground(dim).Italic(true)

// RenderOrder renders a single order as a styled TUI string.
func RenderOrder(o *domain.Order) string {
	var b strings.Builder

	// ── Header ──
	idLine := titleStyle.Render(o.OrderID) + "  " + statusTag(o.Status)
	createdLine := dimStyle.Render(o.CreatedAt.Format("2006-01-02 15:04 MST"))

	b.WriteString(boxStyle.Render(idLine + "\n" + createdLine))
	b.WriteString("\n\n")

	// ── Items ──
	for _, l := range o.Items {
		name := nameStyle.Render(truncateOrPad(l.ProductName, 30))
		qty := dimStyle.Render(fmt.Sprintf("×%-4d", l.Quantity))
		unit := dimStyle.Render(fmt.Sprintf("%10s", money(l.UnitPrice)))
		total := titleStyle.Render(fmt.Sprintf("%10s", money(l.TotalPrice)))
		fmt.Fprintf(&b, "  %s %s  %s  %s\n", name, qty, unit, total)
	}

	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 60)) + "\n")
	grand := totalStyle.Render(fmt.Sprintf("%10s", money(o.TotalAmount)))
	fmt.Fprintf(&b, "  %s%s\n", titleStyle.Render(padRight("Total", 50)), grand)

	// ── Customer ──
	if o.Customer != nil {
		b.WriteString("\n")
		b.WriteString("  " + titleStyle.Render("Customer") + "\n")
		renderCustomerLine(&b, "name", o.Customer.Name)
		renderCustomerLine(&b, "email", o.Customer.Email)
		renderCustomerLine(&b, "phone", o.Customer.Phone)
		renderCustomerLine(&b, "address", o.Customer.Address)
	}

	if o.Notes != "" {
		b.WriteString("\n")
		b.WriteString("  " + titleStyle.Render("Notes") + "\n")
		b.WriteString("    " + dimStyle.Render(o.Notes) + "\n")
	}

	b.WriteString("\n")
	return b.String()
}

func renderCustomerLine(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "    %s %s\n", dimStyle.Render(padRight(label, 8)), value)
}

// RenderOutcome renders the engine's answer to a place request: the created
// order, a clarification question, or a typed rejection.
func RenderOutcome(out *domain.Outcome) string {
	switch out.Kind {
	case domain.OutcomeOrderCreated:
		return RenderOrder(out.Order)
	case domain.OutcomeClarification:
		return renderClarification(out.Clarification)
	default:
		return renderRejection(out.Rejection)
	}
}

func renderClarification(question string) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + infoTagStyle.Render("clarification needed") + "\n")
	b.WriteString("    " + titleStyle.Render(question) + "\n")
	b.WriteString("\n")
	b.WriteString("  " + hintStyle.Render("Answer the question and place the order again.") + "\n")
	return b.String()
}

func renderRejection(r *domain.Rejection) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + errorTagStyle.Render("rejected") + "  " + dimStyle.Render(string(r.Kind)) + "\n")
	b.WriteString("    " + titleStyle.Render(r.Message) + "\n")

	if len(r.Candidates) > 0 {
		b.WriteString("\n")
		for _, p := range r.Candidates {
			fmt.Fprintf(&b, "    %s %s %s  %s\n",
				stockIcon(p.StockState),
				dimStyle.Render(padRight(p.ProductID, 22)),
				truncateOrPad(p.Name, 26),
				dimStyle.Render(money(p.UnitPrice)),
			)
		}
	}

	if r.Kind == domain.RejectQuantityExceeded {
		b.WriteString("\n")
		b.WriteString("  " + hintStyle.Render(fmt.Sprintf("Re-run with --clamp to cap quantities at %d.", r.MaxQuantity)) + "\n")
	}

	return b.String()
}
