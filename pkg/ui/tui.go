package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/sui-swap-bot/business/swap/domain"
	"github.com/fd1az/sui-swap-bot/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWaiting  Phase = "waiting"  // Before the first RunStartedMsg
	PhaseRunning  Phase = "running"  // Swaps in progress
	PhaseFinished Phase = "finished" // Summary shown, waiting for quit
)

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	status   *components.StatusComponent
	outcomes *components.OutcomesComponent
	stats    *components.StatsComponent
	spinner  spinner.Model
	keys     KeyMap

	// Phase state
	phase   Phase
	started time.Time

	// State
	quitting bool
	width    int
	height   int
	runID    string
	entries  int // plan entries per cycle
	summary  *domain.RunSummary
	errors   []ErrorEntry // Persistent error panel (last 3)
	onQuit   func()
}

// New creates a new TUI model for a plan of entries swaps per cycle.
// onQuit runs once when the operator quits; it should cancel the run.
func New(entries int, onQuit func()) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorSecondary)

	return Model{
		status:   components.NewStatusComponent(),
		outcomes: components.NewOutcomesComponent(200, 12),
		stats:    components.NewStatsComponent(),
		spinner:  s,
		keys:     DefaultKeyMap(),
		phase:    PhaseWaiting,
		entries:  entries,
		errors:   make([]ErrorEntry, 0, 3),
		onQuit:   onQuit,
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// tickCmd refreshes the elapsed time once a second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			if m.onQuit != nil {
				m.onQuit()
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Clear):
			m.outcomes.Clear()
			m.errors = m.errors[:0]
		case key.Matches(msg, m.keys.Up):
			m.outcomes.ScrollUp()
		case key.Matches(msg, m.keys.Down):
			m.outcomes.ScrollDown()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		if m.phase == PhaseRunning {
			m.updateStats(func(s *components.Stats) { s.Elapsed = time.Since(m.started) })
		}
		return m, tickCmd()

	case RunStartedMsg:
		m.phase = PhaseRunning
		m.runID = msg.RunID
		m.started = time.Now()
		m.status.Update(components.Position{Accounts: msg.Accounts, Cycles: msg.Cycles})
		m.updateStats(func(s *components.Stats) { s.Planned = msg.Accounts * msg.Cycles * m.entries })

	case AccountStartedMsg:
		pos := m.status.Position()
		pos.Account, pos.Accounts = msg.Index, msg.Total
		pos.Label, pos.Address = msg.Label, msg.Address
		pos.Cycle, pos.Entry, pos.EntryIndex = 0, "", 0
		m.status.Update(pos)

	case CycleStartedMsg:
		pos := m.status.Position()
		pos.Cycle, pos.Cycles = msg.Cycle, msg.Total
		pos.Entry, pos.EntryIndex = "", 0
		m.status.Update(pos)

	case EntryStartedMsg:
		pos := m.status.Position()
		pos.Entry, pos.EntryIndex, pos.EntriesTotal = msg.Entry, msg.Index, m.entries
		m.status.Update(pos)

	case OutcomeMsg:
		m.addOutcome(msg.Outcome)

	case RunFinishedMsg:
		m.phase = PhaseFinished
		summary := msg.Summary
		m.summary = &summary
		m.updateStats(func(s *components.Stats) {
			s.Succeeded, s.Skipped, s.Failed = summary.Succeeded, summary.Skipped, summary.Failed
			s.Elapsed = summary.Finished.Sub(summary.Started)
		})

	case ErrorMsg:
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}
	}

	return m, nil
}

func (m Model) updateStats(fn func(*components.Stats)) {
	s := m.stats.Stats()
	fn(&s)
	m.stats.Update(s)
}

func (m Model) addOutcome(o domain.Outcome) {
	detail := o.Digest
	if o.Status != domain.StatusSucceeded {
		detail = o.ErrorText()
	}
	route := o.Route
	if route == "" {
		route = o.Entry.Pool
	}
	m.outcomes.Add(components.OutcomeRow{
		Time:     time.Now().Format("15:04:05"),
		Account:  m.status.Position().Account,
		Cycle:    o.Cycle,
		Index:    o.Index,
		Route:    route,
		Amount:   o.Amount,
		Status:   string(o.Status),
		Detail:   detail,
		Attempts: o.Attempts,
	})
	m.updateStats(func(s *components.Stats) {
		switch o.Status {
		case domain.StatusSucceeded:
			s.Succeeded++
		case domain.StatusSkipped:
			s.Skipped++
		default:
			s.Failed++
		}
	})
	pos := m.status.Position()
	pos.Entry = ""
	m.status.Update(pos)
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render(" Sui Swap Bot "))
	if m.runID != "" {
		b.WriteString(MutedValue.Render("  run " + m.runID))
	}
	b.WriteString("\n\n")

	width := m.width - 4
	if width < 40 {
		width = 80
	}

	b.WriteString(BoxStyle.Width(width).Render(m.status.View(m.spinner.View())))
	b.WriteString("\n")
	b.WriteString(BoxStyle.Width(width).Render(m.stats.View()))
	b.WriteString("\n")
	b.WriteString(BoxStyle.Width(width).Render(m.outcomes.View()))
	b.WriteString("\n\n")

	if m.phase == PhaseFinished && m.summary != nil {
		b.WriteString(HeaderStyle.Render("RUN FINISHED"))
		b.WriteString(fmt.Sprintf("  %d succeeded, %d skipped, %d failed\n\n",
			m.summary.Succeeded, m.summary.Skipped, m.summary.Failed))
	}

	// Persistent error panel (show last 3 errors)
	if len(m.errors) > 0 {
		b.WriteString(NegativeValue.Bold(true).Render("ERRORS"))
		b.WriteString(MutedValue.Render(" (c: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(NegativeValue.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(MutedValue.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Help
	helpText := "q: quit • c: clear • ↑↓: scroll"
	if m.phase == PhaseFinished {
		helpText = "q: exit • ↑↓: scroll"
	}
	b.WriteString(HelpStyle.Render(helpText))

	return b.String()
}
