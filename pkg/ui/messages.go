// Package ui provides the Bubble Tea TUI for the swap bot.
package ui

import (
	"github.com/fd1az/sui-swap-bot/business/swap/domain"
)

// Message types for TUI updates

// RunStartedMsg is sent when a run begins.
type RunStartedMsg struct {
	RunID    string
	Accounts int
	Cycles   int
}

// AccountStartedMsg is sent when the run moves to the next account.
type AccountStartedMsg struct {
	Index   int
	Total   int
	Address string
	Label   string
}

// CycleStartedMsg is sent when a cycle of the current account begins.
type CycleStartedMsg struct {
	Cycle int
	Total int
}

// EntryStartedMsg is sent before a plan entry runs.
type EntryStartedMsg struct {
	Cycle int
	Index int
	Entry string
}

// OutcomeMsg is sent when a plan entry finished.
type OutcomeMsg struct {
	Outcome domain.Outcome
}

// RunFinishedMsg is sent with the final counts.
type RunFinishedMsg struct {
	Summary domain.RunSummary
}

// ErrorMsg is sent when the run fails outside any swap.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}
