package infra

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/sui-swap-bot/business/swap/domain"
	"github.com/fd1az/sui-swap-bot/internal/sui"
	"github.com/fd1az/sui-swap-bot/pkg/ui"
)

type stubAccount struct{}

func (stubAccount) Address() sui.Address                   { return sui.MustParseAddress("0x2a") }
func (stubAccount) Label() string                          { return "main" }
func (stubAccount) SignTransaction([]byte) (string, error) { return "", nil }

func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporterTo(&buf)

	require.NoError(t, r.Start(context.Background()))
	r.RunStarted("run-1", 1, 5)
	r.AccountStarted(1, 1, stubAccount{})
	r.CycleStarted(1, 5)
	r.EntryStarted(1, 1, domain.PlanEntry{Pool: "SUI_USDC"})
	r.Report(domain.Outcome{
		Status: domain.StatusSucceeded, Amount: "45", Source: "SUI", Target: "USDC",
		Digest: "D1", Duration: 1500 * time.Millisecond,
	})
	r.Report(domain.Outcome{
		Entry: domain.PlanEntry{Pool: "SUI_DOGE"}, Status: domain.StatusSkipped,
		Err: errors.New("no funds"),
	})
	r.Report(domain.Outcome{
		Route: "USDC→SUI", Status: domain.StatusFailed, Attempts: 3,
		Err: errors.New("timeout"),
	})
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	r.RunFinished(domain.RunSummary{
		RunID: "run-1", Accounts: 1, Succeeded: 1, Skipped: 1, Failed: 1,
		Started: start, Finished: start.Add(90 * time.Second),
	})
	require.NoError(t, r.Stop())

	out := buf.String()
	for _, want := range []string{
		"Run run-1: 1 account(s), 5 cycle(s) each",
		"ACCOUNT 1/1  main",
		sui.MustParseAddress("0x2a").String(),
		"Cycle 1/5",
		"[1.1] SUI_USDC all",
		"OK      45 SUI -> USDC  digest D1 (1.5s)",
		"SKIPPED SUI_DOGE: no funds",
		"FAILED  USDC→SUI after 3 attempt(s): timeout",
		"Swaps:          3",
		"Elapsed:        1m30s",
	} {
		assert.Contains(t, out, want)
	}
}

type recordingSender struct{ msgs []tea.Msg }

func (s *recordingSender) Send(msg tea.Msg) { s.msgs = append(s.msgs, msg) }

func TestTUIReporter_SendsMessages(t *testing.T) {
	sender := &recordingSender{}
	r := NewTUIReporter(sender)

	require.NoError(t, r.Start(context.Background()))
	r.RunStarted("run-1", 2, 5)
	r.AccountStarted(1, 2, stubAccount{})
	r.CycleStarted(1, 5)
	r.EntryStarted(1, 1, domain.PlanEntry{Pool: "SUI_USDC"})
	r.Report(domain.Outcome{Status: domain.StatusSucceeded})
	r.RunFinished(domain.RunSummary{RunID: "run-1"})
	require.NoError(t, r.Stop())

	require.Len(t, sender.msgs, 6)
	assert.Equal(t, ui.RunStartedMsg{RunID: "run-1", Accounts: 2, Cycles: 5}, sender.msgs[0])
	assert.Equal(t, ui.AccountStartedMsg{
		Index: 1, Total: 2, Address: sui.MustParseAddress("0x2a").String(), Label: "main",
	}, sender.msgs[1])
	assert.Equal(t, ui.CycleStartedMsg{Cycle: 1, Total: 5}, sender.msgs[2])
	assert.Equal(t, ui.EntryStartedMsg{Cycle: 1, Index: 1, Entry: "SUI_USDC all"}, sender.msgs[3])
	assert.IsType(t, ui.OutcomeMsg{}, sender.msgs[4])
	assert.IsType(t, ui.RunFinishedMsg{}, sender.msgs[5])
}
