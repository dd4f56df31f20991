package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds run counts for display.
type Stats struct {
	Planned   int
	Succeeded int
	Skipped   int
	Failed    int
	Elapsed   time.Duration
}

// Done returns the number of finished entries.
func (s Stats) Done() int {
	return s.Succeeded + s.Skipped + s.Failed
}

// StatsComponent renders run statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// Stats returns the current statistics.
func (s *StatsComponent) Stats() Stats {
	return s.stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	skipStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	failedDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.Failed))
	if s.stats.Failed > 0 {
		failedDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.Failed))
	}

	progress := float64(0)
	if s.stats.Planned > 0 {
		progress = float64(s.stats.Done()) / float64(s.stats.Planned) * 100
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Done: %s/%d (%.0f%%)  │  Succeeded: %s  │  Skipped: %s  │  Failed: %s  │  Elapsed: %s",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Done())),
			s.stats.Planned,
			progress,
			okStyle.Render(fmt.Sprintf("%d", s.stats.Succeeded)),
			skipStyle.Render(fmt.Sprintf("%d", s.stats.Skipped)),
			failedDisplay,
			s.stats.Elapsed.Round(time.Second),
		)
}
