// Package infra contains infrastructure adapters for the swap context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fd1az/sui-swap-bot/business/swap/app"
	"github.com/fd1az/sui-swap-bot/business/swap/domain"
)

const rule = "================================================================================"

// ConsoleReporter implements ProgressReporter for CLI output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a new ConsoleReporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return NewConsoleReporterTo(os.Stdout)
}

// NewConsoleReporterTo creates a ConsoleReporter writing to out.
func NewConsoleReporterTo(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Sui Swap Bot Started")
	fmt.Fprintln(r.out, "====================")
	return nil
}

// RunStarted prints the run header.
func (r *ConsoleReporter) RunStarted(runID string, accounts, cycles int) {
	fmt.Fprintf(r.out, "Run %s: %d account(s), %d cycle(s) each\n", runID, accounts, cycles)
}

// AccountStarted prints the account banner.
func (r *ConsoleReporter) AccountStarted(index, total int, acct app.Account) {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "ACCOUNT %d/%d  %s\n", index, total, acct.Label())
	fmt.Fprintf(r.out, "Address:        %s\n", acct.Address().String())
	fmt.Fprintln(r.out, rule)
}

// CycleStarted prints the cycle separator.
func (r *ConsoleReporter) CycleStarted(cycle, total int) {
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintf(r.out, "Cycle %d/%d\n", cycle, total)
}

// EntryStarted prints the plan entry about to run.
func (r *ConsoleReporter) EntryStarted(cycle, index int, entry domain.PlanEntry) {
	fmt.Fprintf(r.out, "  [%d.%d] %s\n", cycle, index, entry.String())
}

// Report prints the outcome of one entry.
func (r *ConsoleReporter) Report(o domain.Outcome) {
	switch o.Status {
	case domain.StatusSucceeded:
		fmt.Fprintf(r.out, "        OK      %s %s -> %s  digest %s (%s)\n",
			o.Amount, o.Source, o.Target, o.Digest, o.Duration.Round(time.Millisecond))
	case domain.StatusSkipped:
		fmt.Fprintf(r.out, "        SKIPPED %s: %s\n", describe(o), o.ErrorText())
	default:
		fmt.Fprintf(r.out, "        FAILED  %s after %d attempt(s): %s\n", describe(o), o.Attempts, o.ErrorText())
	}
}

// RunFinished prints the run summary.
func (r *ConsoleReporter) RunFinished(s domain.RunSummary) {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintln(r.out, "RUN SUMMARY")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "Run:            %s\n", s.RunID)
	fmt.Fprintf(r.out, "Accounts:       %d\n", s.Accounts)
	fmt.Fprintf(r.out, "Swaps:          %d\n", s.Total())
	fmt.Fprintf(r.out, "  Succeeded:    %d\n", s.Succeeded)
	fmt.Fprintf(r.out, "  Skipped:      %d\n", s.Skipped)
	fmt.Fprintf(r.out, "  Failed:       %d\n", s.Failed)
	if !s.Finished.IsZero() {
		fmt.Fprintf(r.out, "Elapsed:        %s\n", s.Finished.Sub(s.Started).Round(time.Second))
	}
	fmt.Fprintln(r.out, rule)
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	return nil
}

// describe names an entry by its route, or by its pool when the route never resolved.
func describe(o domain.Outcome) string {
	if o.Route != "" {
		return o.Route
	}
	return o.Entry.Pool
}

var _ app.ProgressReporter = (*ConsoleReporter)(nil)
