package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Position is where the run currently is.
type Position struct {
	Account      int
	Accounts     int
	Label        string
	Address      string
	Cycle        int
	Cycles       int
	Entry        string
	EntryIndex   int
	EntriesTotal int
}

// StatusComponent renders the current run position.
type StatusComponent struct {
	pos Position
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{}
}

// Update replaces the position.
func (s *StatusComponent) Update(pos Position) {
	s.pos = pos
}

// Position returns the current position.
func (s *StatusComponent) Position() Position {
	return s.pos
}

// View renders the status component. spinner is shown before the running entry.
func (s *StatusComponent) View(spinner string) string {
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)

	if s.pos.Account == 0 {
		return mutedStyle.Render("Waiting for the run to start...")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "├─ Account: %s %s\n",
		valueStyle.Render(fmt.Sprintf("%d/%d", s.pos.Account, s.pos.Accounts)),
		s.pos.Label,
	)
	fmt.Fprintf(&sb, "├─ Address: %s\n", mutedStyle.Render(s.pos.Address))
	fmt.Fprintf(&sb, "├─ Cycle:   %s\n", valueStyle.Render(fmt.Sprintf("%d/%d", s.pos.Cycle, s.pos.Cycles)))
	if s.pos.Entry != "" {
		fmt.Fprintf(&sb, "└─ Swap:    %s %s %s",
			spinner,
			valueStyle.Render(fmt.Sprintf("%d/%d", s.pos.EntryIndex, s.pos.EntriesTotal)),
			s.pos.Entry,
		)
	} else {
		sb.WriteString("└─ Swap:    " + mutedStyle.Render("waiting"))
	}
	return sb.String()
}
