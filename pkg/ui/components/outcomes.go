// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// OutcomeRow is one finished plan entry in the feed.
type OutcomeRow struct {
	Time     string
	Account  int
	Cycle    int
	Index    int
	Route    string
	Amount   string
	Status   string // "succeeded", "skipped", "failed"
	Detail   string // digest or error text
	Attempts int
}

// OutcomesComponent renders the newest-first outcome feed.
type OutcomesComponent struct {
	rows    []OutcomeRow
	maxRows int
	visible int
	offset  int
}

// NewOutcomesComponent creates a feed keeping maxRows rows and showing visible at a time.
func NewOutcomesComponent(maxRows, visible int) *OutcomesComponent {
	return &OutcomesComponent{
		rows:    make([]OutcomeRow, 0, maxRows),
		maxRows: maxRows,
		visible: visible,
	}
}

// Add puts row at the top of the feed.
func (o *OutcomesComponent) Add(row OutcomeRow) {
	o.rows = append([]OutcomeRow{row}, o.rows...)
	if len(o.rows) > o.maxRows {
		o.rows = o.rows[:o.maxRows]
	}
	o.offset = 0
}

// Clear clears the feed.
func (o *OutcomesComponent) Clear() {
	o.rows = o.rows[:0]
	o.offset = 0
}

// Len returns the number of rows kept.
func (o *OutcomesComponent) Len() int {
	return len(o.rows)
}

// ScrollUp moves the window towards newer rows.
func (o *OutcomesComponent) ScrollUp() {
	if o.offset > 0 {
		o.offset--
	}
}

// ScrollDown moves the window towards older rows.
func (o *OutcomesComponent) ScrollDown() {
	if o.offset+o.visible < len(o.rows) {
		o.offset++
	}
}

// View renders the outcomes component.
func (o *OutcomesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	skipStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("SWAPS (%d)", len(o.rows))))
	sb.WriteString("\n\n")

	if len(o.rows) == 0 {
		sb.WriteString(mutedStyle.Render("  No swaps yet..."))
		return sb.String()
	}

	end := min(o.offset+o.visible, len(o.rows))
	for _, row := range o.rows[o.offset:end] {
		icon, style := "✓", okStyle
		switch row.Status {
		case "skipped":
			icon, style = "–", skipStyle
		case "failed":
			icon, style = "✗", failStyle
		}

		attempts := ""
		if row.Attempts > 1 {
			attempts = fmt.Sprintf(" x%d", row.Attempts)
		}
		fmt.Fprintf(&sb, "  %s %s #%d c%d.%d %-14s %12s%s  %s\n",
			mutedStyle.Render(row.Time),
			style.Render(icon),
			row.Account,
			row.Cycle,
			row.Index,
			row.Route,
			row.Amount,
			attempts,
			mutedStyle.Render(truncate(row.Detail, 60)),
		)
	}
	if len(o.rows) > o.visible {
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("  showing %d-%d of %d", o.offset+1, end, len(o.rows))))
	}
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
