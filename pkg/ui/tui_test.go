package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	accountDomain "github.com/fd1az/sui-swap-bot/business/account/domain"
	"github.com/fd1az/sui-swap-bot/business/swap/domain"
)

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_TracksRun(t *testing.T) {
	m := New(6, nil)
	m = step(t, m, RunStartedMsg{RunID: "run-1", Accounts: 2, Cycles: 5})
	m = step(t, m, AccountStartedMsg{Index: 1, Total: 2, Address: "0xabc", Label: "main"})
	m = step(t, m, CycleStartedMsg{Cycle: 1, Total: 5})
	m = step(t, m, EntryStartedMsg{Cycle: 1, Index: 1, Entry: "SUI_USDC 45"})

	pos := m.status.Position()
	if pos.Account != 1 || pos.Label != "main" || pos.Cycle != 1 || pos.Entry != "SUI_USDC 45" {
		t.Fatalf("position = %+v", pos)
	}
	if got := m.stats.Stats().Planned; got != 60 {
		t.Errorf("planned = %d, want 60", got)
	}

	m = step(t, m, OutcomeMsg{Outcome: domain.Outcome{
		Cycle: 1, Index: 1, Route: "SUI→USDC", Status: domain.StatusSucceeded, Amount: "45", Digest: "D1",
	}})
	m = step(t, m, OutcomeMsg{Outcome: domain.Outcome{
		Cycle: 1, Index: 2, Entry: domain.PlanEntry{Pool: "USDC_SUI"}, Status: domain.StatusFailed,
		Err: errors.New("dry run: abort"),
	}})

	s := m.stats.Stats()
	if s.Succeeded != 1 || s.Failed != 1 || s.Done() != 2 {
		t.Errorf("stats = %+v", s)
	}
	if m.outcomes.Len() != 2 {
		t.Errorf("feed has %d rows, want 2", m.outcomes.Len())
	}
	if m.status.Position().Entry != "" {
		t.Error("entry should clear once reported")
	}

	view := m.View()
	for _, want := range []string{"Sui Swap Bot", "run-1", "SUI→USDC", "USDC_SUI", "dry run: abort"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	now := time.Now()
	m = step(t, m, RunFinishedMsg{Summary: domain.RunSummary{
		Succeeded: 1, Failed: 1, Started: now.Add(-time.Minute), Finished: now,
	}})
	if m.phase != PhaseFinished {
		t.Errorf("phase = %s, want finished", m.phase)
	}
	if !strings.Contains(m.View(), "RUN FINISHED") {
		t.Error("view should show the finished banner")
	}
}

func TestModel_QuitCancelsRun(t *testing.T) {
	cancelled := false
	m := New(6, func() { cancelled = true })

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !cancelled {
		t.Error("quit should call onQuit")
	}
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should be tea.Quit")
	}
	if next.(Model).View() != "\n  Goodbye!\n\n" {
		t.Error("view after quit")
	}
}

func TestModel_ErrorPanelKeepsLastThree(t *testing.T) {
	m := New(1, nil)
	for i := range 5 {
		m = step(t, m, ErrorMsg{Error: errors.New(strings.Repeat("e", i+1))})
	}
	if len(m.errors) != 3 {
		t.Fatalf("errors = %d, want 3", len(m.errors))
	}
	if m.errors[0].Message != "eee" {
		t.Errorf("oldest kept = %q", m.errors[0].Message)
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if len(m.errors) != 0 {
		t.Error("clear should drop errors")
	}
}

func TestAccountTable(t *testing.T) {
	snapshots := []accountDomain.Snapshot{
		{
			Index:   1,
			Label:   "main",
			Address: "0x01",
			Balances: []accountDomain.Balance{
				{Symbol: "SUI", Amount: "12.5"},
				{Symbol: "USDC", Amount: "0"},
			},
			LastSwap: "2025-05-01 04:15:00",
			Volume:   "1234.5",
		},
		{
			Index:    2,
			Label:    accountDomain.NoLabel,
			Address:  "0x02",
			LastSwap: accountDomain.NoRecord,
		},
	}

	out := AccountTable(snapshots, []string{"SUI", "USDC"}, false)
	for _, want := range []string{"No.", "Note", "Address", "SUI", "USDC", "Last Swap Time", "12.5", "2025-05-01 04:15:00", "Not set", "No record", "?"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q", want)
		}
	}
	if strings.Contains(out, "Volume") {
		t.Error("volume column should be hidden")
	}

	out = AccountTable(snapshots, []string{"SUI"}, true)
	if !strings.Contains(out, "Volume") || !strings.Contains(out, "1234.5") {
		t.Error("volume column should be shown")
	}
}
