package infra

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fd1az/sui-swap-bot/business/swap/app"
	"github.com/fd1az/sui-swap-bot/business/swap/domain"
	"github.com/fd1az/sui-swap-bot/pkg/ui"
)

// Sender delivers messages to a running Bubble Tea program.
type Sender interface {
	Send(msg tea.Msg)
}

// TUIReporter implements ProgressReporter for the Bubble Tea TUI.
type TUIReporter struct {
	program Sender
}

// NewTUIReporter creates a TUIReporter feeding program. The program is run
// by the caller.
func NewTUIReporter(program Sender) *TUIReporter {
	return &TUIReporter{program: program}
}

// Start initializes the TUI reporter.
func (r *TUIReporter) Start(ctx context.Context) error {
	return nil
}

// RunStarted sends the run header to the TUI.
func (r *TUIReporter) RunStarted(runID string, accounts, cycles int) {
	r.program.Send(ui.RunStartedMsg{RunID: runID, Accounts: accounts, Cycles: cycles})
}

// AccountStarted sends the current account to the TUI.
func (r *TUIReporter) AccountStarted(index, total int, acct app.Account) {
	r.program.Send(ui.AccountStartedMsg{
		Index:   index,
		Total:   total,
		Address: acct.Address().String(),
		Label:   acct.Label(),
	})
}

// CycleStarted sends the current cycle to the TUI.
func (r *TUIReporter) CycleStarted(cycle, total int) {
	r.program.Send(ui.CycleStartedMsg{Cycle: cycle, Total: total})
}

// EntryStarted sends the running plan entry to the TUI.
func (r *TUIReporter) EntryStarted(cycle, index int, entry domain.PlanEntry) {
	r.program.Send(ui.EntryStartedMsg{Cycle: cycle, Index: index, Entry: entry.String()})
}

// Report sends an outcome to the TUI feed.
func (r *TUIReporter) Report(o domain.Outcome) {
	r.program.Send(ui.OutcomeMsg{Outcome: o})
}

// RunFinished sends the final counts to the TUI.
func (r *TUIReporter) RunFinished(summary domain.RunSummary) {
	r.program.Send(ui.RunFinishedMsg{Summary: summary})
}

// Stop gracefully shuts down the TUI reporter. The program keeps running
// until the operator quits.
func (r *TUIReporter) Stop() error {
	return nil
}

var _ app.ProgressReporter = (*TUIReporter)(nil)
