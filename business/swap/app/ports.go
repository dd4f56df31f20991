// Package app contains application services and port definitions for the swap context.
package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/sui-swap-bot/business/swap/domain"
	"github.com/fd1az/sui-swap-bot/internal/sui"
)

// Account is a signing identity the bot swaps for.
type Account interface {
	Address() sui.Address
	Label() string
	SignTransaction(txBytes []byte) (string, error)
}

// SwapExecutor performs one flash swap. A nil requested amount swaps all
// available balance minus the source asset's headroom.
type SwapExecutor interface {
	Execute(ctx context.Context, acct Account, route domain.Route, requested *decimal.Decimal) (*SwapResult, error)
}

// ProgressReporter receives run progress. Implementations must not block.
type ProgressReporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// RunStarted announces a run over accounts accounts of cycles cycles each.
	RunStarted(runID string, accounts, cycles int)

	// AccountStarted announces the index-th (1-based) account.
	AccountStarted(index, total int, acct Account)

	// CycleStarted announces a cycle of the current account.
	CycleStarted(cycle, total int)

	// EntryStarted announces a plan entry about to run.
	EntryStarted(cycle, index int, entry domain.PlanEntry)

	// Report delivers the outcome of one plan entry.
	Report(o domain.Outcome)

	// RunFinished delivers the final counts.
	RunFinished(summary domain.RunSummary)

	// Stop gracefully shuts down the reporter.
	Stop() error
}

// Journal persists outcomes for later audit.
type Journal interface {
	Record(ctx context.Context, o domain.Outcome) error
}

// Sleeper waits for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}
