// Package swap implements the swap bounded context: the pool registry, the
// flash-swap executor and the cycle orchestrator.
package swap

import (
	"context"
	"fmt"

	ledgerDI "github.com/fd1az/sui-swap-bot/business/ledger/di"
	"github.com/fd1az/sui-swap-bot/business/swap/app"
	swapDI "github.com/fd1az/sui-swap-bot/business/swap/di"
	"github.com/fd1az/sui-swap-bot/business/swap/domain"
	"github.com/fd1az/sui-swap-bot/business/swap/infra"
	"github.com/fd1az/sui-swap-bot/business/swap/infra/journal"
	"github.com/fd1az/sui-swap-bot/business/swap/infra/registryfile"
	"github.com/fd1az/sui-swap-bot/internal/config"
	"github.com/fd1az/sui-swap-bot/internal/di"
	"github.com/fd1az/sui-swap-bot/internal/logger"
	"github.com/fd1az/sui-swap-bot/internal/monolith"
)

// Module implements the swap bounded context.
type Module struct{}

// RegisterServices registers all swap services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register Registry (public - the account module shows its assets)
	di.RegisterToken(c, swapDI.Registry, func(sr di.ServiceRegistry) *domain.Registry {
		cfg := sr.Get("config").(*config.Config)

		registry, err := registryfile.Load(cfg.Market.RegistryFile)
		if err != nil {
			panic("failed to load pool registry: " + err.Error())
		}
		return registry
	})

	// Register Executor (private - used by orchestrator and claimer)
	di.RegisterToken(c, swapDI.Executor, func(sr di.ServiceRegistry) *app.Executor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		execCfg := app.ExecutorConfig{
			DryRunBudget:  cfg.Sui.DryRunBudget,
			MaxGasBudget:  cfg.Sui.MaxGasBudget,
			GasMultiplier: cfg.Sui.GasMultiplier,
		}
		executor, err := app.NewExecutor(swapDI.GetRegistry(sr), ledgerDI.GetBalanceService(sr), execCfg, log)
		if err != nil {
			panic("failed to create swap executor: " + err.Error())
		}
		return executor
	})

	// Register Claimer (public)
	di.RegisterToken(c, swapDI.Claimer, func(sr di.ServiceRegistry) *app.Claimer {
		cfg := sr.Get("config").(*config.Config)
		return app.NewClaimer(swapDI.GetExecutor(sr), cfg.Claim.Pool)
	})

	// Register Journal (public - nil when disabled or unavailable)
	di.RegisterToken(c, swapDI.Journal, func(sr di.ServiceRegistry) *journal.Store {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		if !cfg.Journal.Enabled {
			return nil
		}
		store, err := journal.Open(cfg.Journal.Path, cfg.Journal.LockPath)
		if err != nil {
			log.Warn(context.Background(), "swap journal disabled", "path", cfg.Journal.Path, "error", err)
			return nil
		}
		return store
	})

	// Register Reporter (private - console or TUI depending on mode)
	di.RegisterToken(c, swapDI.Reporter, func(sr di.ServiceRegistry) app.ProgressReporter {
		cfg := sr.Get("config").(*config.Config)
		if cfg.App.TUIMode {
			return infra.NewTUIReporter(swapDI.GetProgressSender(sr))
		}
		return infra.NewConsoleReporter()
	})

	// Register Orchestrator (public)
	di.RegisterToken(c, swapDI.Orchestrator, func(sr di.ServiceRegistry) *app.Orchestrator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		orchCfg, err := OrchestratorConfig(cfg)
		if err != nil {
			panic("invalid swap plan: " + err.Error())
		}

		var j app.Journal
		if store := swapDI.GetJournal(sr); store != nil {
			j = store
		}

		orch, err := app.NewOrchestrator(
			swapDI.GetRegistry(sr),
			swapDI.GetExecutor(sr),
			swapDI.GetReporter(sr),
			j,
			app.ClockSleeper{},
			orchCfg,
			log,
		)
		if err != nil {
			panic("failed to create orchestrator: " + err.Error())
		}
		return orch
	})

	return nil
}

// Startup validates the plan against the registry and ties the journal to
// the application lifetime.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	sr := mono.Services()

	registry := swapDI.GetRegistry(sr)
	orchCfg, err := OrchestratorConfig(mono.Config())
	if err != nil {
		return err
	}
	if err := orchCfg.Plan.Validate(registry); err != nil {
		return fmt.Errorf("swap plan: %w", err)
	}

	if store := swapDI.GetJournal(sr); store != nil {
		mono.OnClose(store.Close)
	}

	log.Info(ctx, "swap module started",
		"pools", registry.PoolNames(),
		"plan_entries", len(orchCfg.Plan),
		"cycles", orchCfg.Cycles,
	)
	return nil
}

// OrchestratorConfig builds the run parameters from cfg.
func OrchestratorConfig(cfg *config.Config) (app.OrchestratorConfig, error) {
	plan := make(domain.Plan, 0, len(cfg.Swap.Plan))
	for i, e := range cfg.Swap.Plan {
		entry, err := domain.ParsePlanEntry(e.Pool, e.Amount, e.Reverse)
		if err != nil {
			return app.OrchestratorConfig{}, fmt.Errorf("swap.plan[%d]: %w", i, err)
		}
		plan = append(plan, entry)
	}

	return app.OrchestratorConfig{
		Plan:   plan,
		Cycles: cfg.Swap.Cycles,
		Retry: app.RetryPolicy{
			Attempts: cfg.Retry.Attempts,
			Delay:    cfg.Retry.Delay,
		},
		Pacing: app.Pacing{
			SettleDelay:  cfg.Pacing.SettleDelay,
			SwapDelayMin: cfg.Pacing.SwapDelayMin,
			SwapDelayMax: cfg.Pacing.SwapDelayMax,
			CycleDelay:   cfg.Pacing.CycleDelay,
			AccountDelay: cfg.Pacing.AccountDelay,
		},
	}, nil
}
