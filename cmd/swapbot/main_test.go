package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fd1az/sui-swap-bot/business/swap/domain"
	"github.com/fd1az/sui-swap-bot/business/swap/infra/journal"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"run", "balances", "claim", "volume", "history", "version"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not found", name)
		}
	}
	for _, flag := range []string{"config", "accounts", "tui", "cycles"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("flag --%s not registered", flag)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(out.String(), "swapbot dev") {
		t.Errorf("output = %q", out.String())
	}
}

func TestHistoryTable(t *testing.T) {
	got := historyTable([]journal.Entry{{
		Account:   "0x00000000000000000000000000000000000000000000000000000000000000aa",
		Cycle:     2,
		Index:     3,
		Pool:      "SUI_USDC",
		Status:    domain.StatusSucceeded,
		Amount:    "45",
		Digest:    "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
		CreatedAt: time.Now(),
	}})

	for _, want := range []string{"2.3", "SUI_USDC", "45", "0x000000…00aa"} {
		if !strings.Contains(got, want) {
			t.Errorf("history table missing %q:\n%s", want, got)
		}
	}
}

func TestShortAddress(t *testing.T) {
	if got := shortAddress("0x2a"); got != "0x2a" {
		t.Errorf("shortAddress(short) = %q", got)
	}
}
