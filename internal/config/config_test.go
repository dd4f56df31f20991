package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeFile(t, "config.yaml", "app:\n  name: test-bot\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Name != "test-bot" {
		t.Errorf("app.name = %q", cfg.App.Name)
	}
	if cfg.Sui.RPCURL != "https://fullnode.mainnet.sui.io:443" {
		t.Errorf("sui.rpc_url = %q", cfg.Sui.RPCURL)
	}
	if cfg.Swap.Cycles != 5 {
		t.Errorf("swap.cycles = %d, want 5", cfg.Swap.Cycles)
	}
	if len(cfg.Swap.Plan) != 6 {
		t.Fatalf("swap.plan has %d entries, want 6", len(cfg.Swap.Plan))
	}
	if got := cfg.Swap.Plan[0]; got.Pool != "SUI_USDC" || got.Amount != "45" || got.Reverse {
		t.Errorf("plan[0] = %+v", got)
	}
	if got := cfg.Swap.Plan[1]; got.Pool != "USDC_SUI" || got.Amount != "all" {
		t.Errorf("plan[1] = %+v", got)
	}
	if cfg.Retry.Attempts != 3 || cfg.Retry.Delay != 8*time.Second {
		t.Errorf("retry = %+v", cfg.Retry)
	}
	if cfg.Pacing.SwapDelayMin != 30*time.Second || cfg.Pacing.SwapDelayMax != 80*time.Second {
		t.Errorf("pacing = %+v", cfg.Pacing)
	}
	if cfg.Sui.GasMultiplier != 1.2 {
		t.Errorf("sui.gas_multiplier = %v", cfg.Sui.GasMultiplier)
	}
}

func TestLoad_FilePlanAndEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `
swap:
  cycles: 2
  plan:
    - pool: SUI_USDC
      amount: 1.5
    - pool: SUI_USDC
      reverse: true
`)
	t.Setenv("SWAPBOT_SUI_RPC_URL", "https://rpc.example.org")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sui.RPCURL != "https://rpc.example.org" {
		t.Errorf("sui.rpc_url = %q, want env override", cfg.Sui.RPCURL)
	}
	if cfg.Swap.Cycles != 2 || len(cfg.Swap.Plan) != 2 {
		t.Fatalf("swap = %+v", cfg.Swap)
	}
	if cfg.Swap.Plan[0].Amount != "1.5" {
		t.Errorf("plan[0].amount = %q", cfg.Swap.Plan[0].Amount)
	}
	if !cfg.Swap.Plan[1].Reverse || cfg.Swap.Plan[1].Amount != "" {
		t.Errorf("plan[1] = %+v", cfg.Swap.Plan[1])
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Sui: SuiConfig{
				RPCURL:        "https://fullnode.mainnet.sui.io:443",
				MaxGasBudget:  200_000_000,
				DryRunBudget:  50_000_000,
				GasMultiplier: 1.2,
			},
			Swap:     SwapConfig{Cycles: 1, Plan: []PlanEntryConfig{{Pool: "SUI_USDC"}}},
			Retry:    RetryConfig{Attempts: 1},
			Accounts: AccountsConfig{File: "accounts.json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad rpc url", func(c *Config) { c.Sui.RPCURL = "fullnode" }, "sui.rpc_url"},
		{"low multiplier", func(c *Config) { c.Sui.GasMultiplier = 0.5 }, "gas_multiplier"},
		{"budget order", func(c *Config) { c.Sui.MaxGasBudget = 1 }, "max_gas_budget"},
		{"no cycles", func(c *Config) { c.Swap.Cycles = 0 }, "swap.cycles"},
		{"empty plan", func(c *Config) { c.Swap.Plan = nil }, "swap.plan"},
		{"entry without pool", func(c *Config) { c.Swap.Plan[0].Pool = " " }, "swap.plan[0]"},
		{"no attempts", func(c *Config) { c.Retry.Attempts = 0 }, "retry.attempts"},
		{"delay range", func(c *Config) { c.Pacing.SwapDelayMin = time.Minute }, "swap_delay_max"},
		{"no accounts file", func(c *Config) { c.Accounts.File = "" }, "accounts.file"},
		{"journal without path", func(c *Config) { c.Journal.Enabled = true }, "journal.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadAccounts(t *testing.T) {
	path := writeFile(t, "accounts.json", `{
  "accounts": [
    {"suiPrivateKey": "suiprivkey1aaa", "nickname": "main"},
    {"suiPrivateKey": "suiprivkey1bbb"}
  ]
}`)

	accounts, err := LoadAccounts(path)
	if err != nil {
		t.Fatalf("LoadAccounts: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(accounts))
	}
	if accounts[0].PrivateKey != "suiprivkey1aaa" || accounts[0].Nickname != "main" {
		t.Errorf("accounts[0] = %+v", accounts[0])
	}
	if accounts[1].Nickname != "" {
		t.Errorf("accounts[1].nickname = %q, want empty", accounts[1].Nickname)
	}
}

func TestLoadAccounts_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", `{"accounts": [`},
		{"empty", `{"accounts": []}`},
		{"missing key", `{"accounts": [{"nickname": "x"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadAccounts(writeFile(t, "accounts.json", tt.content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := LoadAccounts(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
