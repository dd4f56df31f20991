package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fd1az/sui-swap-bot/business/account"
	"github.com/fd1az/sui-swap-bot/business/ledger"
	ledgerDI "github.com/fd1az/sui-swap-bot/business/ledger/di"
	"github.com/fd1az/sui-swap-bot/business/swap"
	"github.com/fd1az/sui-swap-bot/internal/apm"
	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/config"
	"github.com/fd1az/sui-swap-bot/internal/health"
	"github.com/fd1az/sui-swap-bot/internal/logger"
	"github.com/fd1az/sui-swap-bot/internal/metrics"
	"github.com/fd1az/sui-swap-bot/internal/monolith"
)

const shutdownTimeout = 5 * time.Second

// bot is the wired application shared by every command.
type bot struct {
	cfg     *config.Config
	log     logger.LoggerInterface
	mono    *monolith.App
	modules []monolith.Module
	health  *health.Server
	close   func()
}

// bootstrap loads configuration, sets up logging and telemetry, and
// registers the business modules. Modules are not started yet so callers
// can add services first. adjust, if set, edits the loaded config.
func bootstrap(ctx context.Context, opts *options, adjust func(*config.Config)) (*bot, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, configError("failed to load config", err)
	}
	if opts.accountsPath != "" {
		cfg.Accounts.File = opts.accountsPath
	}
	if opts.cycles > 0 {
		cfg.Swap.Cycles = opts.cycles
	}
	if adjust != nil {
		adjust(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, configError("invalid config", err)
	}

	// Set TUI mode in config so modules know
	cfg.App.TUIMode = opts.tui

	// The TUI owns the terminal, so logs are discarded
	var w io.Writer = os.Stderr
	if opts.tui {
		w = io.Discard
	}
	log := logger.New(w, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
	log.Info(ctx, "starting Sui Swap Bot",
		"version", version,
		"environment", cfg.App.Environment,
	)

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create monolith: %w", err)
	}

	if cfg.Telemetry.Enabled {
		if err := setupTelemetry(ctx, cfg, log, mono); err != nil {
			_ = mono.Close()
			return nil, err
		}
	}

	modules := []monolith.Module{
		&ledger.Module{},  // Must be first - provides balances and submission
		&swap.Module{},    // Depends on ledger
		&account.Module{}, // Depends on ledger and the swap registry
	}
	if err := mono.RegisterModules(modules...); err != nil {
		_ = mono.Close()
		return nil, configError("failed to register modules", err)
	}

	rt := &bot{
		cfg:     cfg,
		log:     log,
		mono:    mono,
		modules: modules,
	}
	rt.close = func() {
		if err := mono.Close(); err != nil {
			log.Warn(context.Background(), "shutdown", "error", err)
		}
	}
	return rt, nil
}

// start starts the modules and, when enabled, the health endpoint.
func (rt *bot) start(ctx context.Context) error {
	if err := rt.mono.StartModules(ctx, rt.modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	if !rt.cfg.Health.Enabled {
		return nil
	}

	srv := health.NewServer(rt.cfg.Health.Port, version)
	srv.RegisterCheck("ledger", health.PingCheck(ledgerDI.GetAdapter(rt.mono.Services())))
	if err := srv.Start(); err != nil {
		rt.log.Warn(ctx, "failed to start health server", "error", err)
		return nil
	}
	rt.log.Info(ctx, "health server started", "port", rt.cfg.Health.Port)
	rt.health = srv
	rt.mono.OnClose(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(ctx)
	})
	return nil
}

func (rt *bot) setRunState(state string) {
	if rt.health != nil {
		rt.health.SetRunState(state)
	}
}

func setupTelemetry(ctx context.Context, cfg *config.Config, log logger.LoggerInterface, mono monolith.Monolith) error {
	provider := apm.ParseProvider(cfg.Telemetry.TraceProvider)
	tp, err := apm.NewTraceProvider(ctx, apm.Config{
		Provider:    provider,
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Headers:     cfg.Telemetry.OTLPHeaders,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	mono.OnClose(tp.Stop)

	metricOpts := []metrics.OptionFn{
		metrics.WithServiceName(cfg.Telemetry.ServiceName),
		metrics.WithProviderConfig(metrics.ProviderCfg{Provider: metrics.PrometheusProvider}),
	}
	if provider == apm.OTLPGRPCProvider && cfg.Telemetry.OTLPEndpoint != "" {
		metricOpts = append(metricOpts, metrics.WithProviderConfig(metrics.NewOtelCollectorConfig(
			cfg.Telemetry.OTLPEndpoint,
			apm.ParseHeaders(cfg.Telemetry.OTLPHeaders),
			metrics.SecureOtel,
		)))
	}
	mp, err := metrics.NewMetricProvider(ctx, metricOpts...)
	if err != nil {
		return fmt.Errorf("failed to init metrics: %w", err)
	}
	mono.OnClose(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return mp.Shutdown(ctx)
	})

	prom := metrics.NewPrometheusServer(cfg.Telemetry.PrometheusPort)
	if err := prom.Start(); err != nil {
		log.Warn(ctx, "failed to start prometheus server", "error", err)
		return nil
	}
	log.Info(ctx, "prometheus metrics server started", "port", cfg.Telemetry.PrometheusPort)
	mono.OnClose(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return prom.Stop(ctx)
	})
	return nil
}

// configError marks err as a configuration problem unless it already
// carries a code.
func configError(msg string, err error) error {
	if apperror.IsAppError(err) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return apperror.New(apperror.CodeConfigurationError, apperror.WithContext(msg), apperror.WithCause(err))
}
