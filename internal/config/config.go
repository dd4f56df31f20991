// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Sui         SuiConfig         `mapstructure:"sui"`
	Swap        SwapConfig        `mapstructure:"swap"`
	Retry       RetryConfig       `mapstructure:"retry"`
	Pacing      PacingConfig      `mapstructure:"pacing"`
	Market      MarketConfig      `mapstructure:"market"`
	Accounts    AccountsConfig    `mapstructure:"accounts"`
	Claim       ClaimConfig       `mapstructure:"claim"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Journal     JournalConfig     `mapstructure:"journal"`
	Health      HealthConfig      `mapstructure:"health"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	TUIMode     bool   `mapstructure:"-"` // Set at runtime, not from config file
}

// SuiConfig holds the fullnode connection and gas settings.
type SuiConfig struct {
	RPCURL            string        `mapstructure:"rpc_url"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxGasBudget      uint64        `mapstructure:"max_gas_budget"`
	DryRunBudget      uint64        `mapstructure:"dry_run_budget"`
	GasMultiplier     float64       `mapstructure:"gas_multiplier"`
}

// PlanEntryConfig is one swap of the plan as written in the config file.
// Amount is in display units; empty or "all" swaps everything available.
type PlanEntryConfig struct {
	Pool    string `mapstructure:"pool"`
	Amount  string `mapstructure:"amount"`
	Reverse bool   `mapstructure:"reverse"`
}

// SwapConfig holds the swap plan.
type SwapConfig struct {
	Cycles int               `mapstructure:"cycles"`
	Plan   []PlanEntryConfig `mapstructure:"plan"`
}

// RetryConfig bounds retries of transient failures.
type RetryConfig struct {
	Attempts int           `mapstructure:"attempts"`
	Delay    time.Duration `mapstructure:"delay"`
}

// PacingConfig holds the delays between on-chain actions.
type PacingConfig struct {
	SettleDelay  time.Duration `mapstructure:"settle_delay"`
	SwapDelayMin time.Duration `mapstructure:"swap_delay_min"`
	SwapDelayMax time.Duration `mapstructure:"swap_delay_max"`
	CycleDelay   time.Duration `mapstructure:"cycle_delay"`
	AccountDelay time.Duration `mapstructure:"account_delay"`
}

// MarketConfig points at the pool registry. An empty file uses the built-in one.
type MarketConfig struct {
	RegistryFile string `mapstructure:"registry_file"`
}

// AccountsConfig points at the accounts JSON file and picks the balance
// columns of the account table.
type AccountsConfig struct {
	File   string   `mapstructure:"file"`
	Assets []string `mapstructure:"assets"`
}

// ClaimConfig selects the pool whose position yield is claimed.
type ClaimConfig struct {
	Pool string `mapstructure:"pool"`
}

// LeaderboardConfig holds the volume API settings.
type LeaderboardConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	BaseURL   string        `mapstructure:"base_url"`
	Liquidity int           `mapstructure:"liquidity"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// JournalConfig holds the local swap history store settings.
type JournalConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Path     string `mapstructure:"path"`
	LockPath string `mapstructure:"lock_path"`
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("SWAPBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	_ = v.BindEnv("app.name", "SWAPBOT_APP_NAME", "SERVICE_NAME")
	_ = v.BindEnv("app.environment", "SWAPBOT_ENVIRONMENT", "ENVIRONMENT")
	_ = v.BindEnv("app.log_level", "SWAPBOT_LOG_LEVEL", "LOG_LEVEL")

	// Sui
	_ = v.BindEnv("sui.rpc_url", "SWAPBOT_SUI_RPC_URL", "SUI_RPC_URL")

	// Files
	_ = v.BindEnv("accounts.file", "SWAPBOT_ACCOUNTS_FILE")
	_ = v.BindEnv("market.registry_file", "SWAPBOT_REGISTRY_FILE")
	_ = v.BindEnv("journal.path", "SWAPBOT_JOURNAL_PATH")

	// Telemetry
	_ = v.BindEnv("telemetry.enabled", "SWAPBOT_OTEL_ENABLED", "OTEL_ENABLED")
	_ = v.BindEnv("telemetry.service_name", "SWAPBOT_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	_ = v.BindEnv("telemetry.otlp_endpoint", "SWAPBOT_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "sui-swap-bot")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Sui mainnet defaults
	v.SetDefault("sui.rpc_url", "https://fullnode.mainnet.sui.io:443")
	v.SetDefault("sui.request_timeout", "30s")
	v.SetDefault("sui.requests_per_second", 10)
	v.SetDefault("sui.burst", 5)
	v.SetDefault("sui.max_gas_budget", 200_000_000)
	v.SetDefault("sui.dry_run_budget", 50_000_000)
	v.SetDefault("sui.gas_multiplier", 1.2)

	// Swap defaults: SUI out to each token and back
	v.SetDefault("swap.cycles", 5)
	v.SetDefault("swap.plan", []map[string]any{
		{"pool": "SUI_USDC", "amount": "45"},
		{"pool": "USDC_SUI", "amount": "all"},
		{"pool": "SUI_WAL", "amount": "45"},
		{"pool": "WAL_SUI", "amount": "all"},
		{"pool": "SUI_STSUI", "amount": "45"},
		{"pool": "STSUI_SUI", "amount": "all"},
	})

	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.delay", "8s")

	v.SetDefault("pacing.settle_delay", "2s")
	v.SetDefault("pacing.swap_delay_min", "30s")
	v.SetDefault("pacing.swap_delay_max", "80s")
	v.SetDefault("pacing.cycle_delay", "30s")
	v.SetDefault("pacing.account_delay", "30s")

	v.SetDefault("market.registry_file", "")
	v.SetDefault("accounts.file", "data/config.json")
	v.SetDefault("accounts.assets", []string{"SUI", "USDC", "WAL", "STSUI"})
	v.SetDefault("claim.pool", "SUI_USDC")

	v.SetDefault("leaderboard.enabled", false)
	v.SetDefault("leaderboard.base_url", "https://api.mmt.finance")
	v.SetDefault("leaderboard.liquidity", 20)
	v.SetDefault("leaderboard.timeout", "10s")

	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", "data/journal.db")
	v.SetDefault("journal.lock_path", "data/journal.lock")

	v.SetDefault("health.enabled", false)
	v.SetDefault("health.port", 8080)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "sui-swap-bot")
	v.SetDefault("telemetry.trace_provider", "console")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Sui.RPCURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid sui.rpc_url: %q", c.Sui.RPCURL)
	}
	if c.Sui.GasMultiplier < 1 {
		return fmt.Errorf("sui.gas_multiplier must be at least 1, got %v", c.Sui.GasMultiplier)
	}
	if c.Sui.DryRunBudget == 0 || c.Sui.MaxGasBudget < c.Sui.DryRunBudget {
		return fmt.Errorf("sui.max_gas_budget (%d) must be at least sui.dry_run_budget (%d) and both positive",
			c.Sui.MaxGasBudget, c.Sui.DryRunBudget)
	}
	if c.Swap.Cycles <= 0 {
		return fmt.Errorf("swap.cycles must be positive, got %d", c.Swap.Cycles)
	}
	if len(c.Swap.Plan) == 0 {
		return fmt.Errorf("swap.plan cannot be empty")
	}
	for i, e := range c.Swap.Plan {
		if strings.TrimSpace(e.Pool) == "" {
			return fmt.Errorf("swap.plan[%d]: pool is required", i)
		}
	}
	if c.Retry.Attempts <= 0 {
		return fmt.Errorf("retry.attempts must be positive, got %d", c.Retry.Attempts)
	}
	if c.Pacing.SwapDelayMax < c.Pacing.SwapDelayMin {
		return fmt.Errorf("pacing.swap_delay_max (%s) is below pacing.swap_delay_min (%s)",
			c.Pacing.SwapDelayMax, c.Pacing.SwapDelayMin)
	}
	if c.Accounts.File == "" {
		return fmt.Errorf("accounts.file is required")
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		return fmt.Errorf("journal.path is required when the journal is enabled")
	}
	return nil
}
