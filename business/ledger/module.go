// Package ledger implements the ledger bounded context: coin queries,
// transaction dry-runs and submission against a Sui full node.
package ledger

import (
	"context"

	"github.com/fd1az/sui-swap-bot/business/ledger/app"
	ledgerDI "github.com/fd1az/sui-swap-bot/business/ledger/di"
	"github.com/fd1az/sui-swap-bot/business/ledger/infra/suiledger"
	"github.com/fd1az/sui-swap-bot/internal/config"
	"github.com/fd1az/sui-swap-bot/internal/di"
	"github.com/fd1az/sui-swap-bot/internal/logger"
	"github.com/fd1az/sui-swap-bot/internal/monolith"
	"github.com/fd1az/sui-swap-bot/internal/sui"
)

// Module implements the ledger bounded context.
type Module struct{}

// RegisterServices registers all ledger services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register Adapter (private - also backs the health check)
	di.RegisterToken(c, ledgerDI.Adapter, func(sr di.ServiceRegistry) *suiledger.Adapter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("suiClient").(*sui.Client)

		adapterCfg := suiledger.DefaultConfig()
		if cfg.Sui.RequestsPerSecond > 0 {
			adapterCfg.RequestsPerSecond = cfg.Sui.RequestsPerSecond
		}
		if cfg.Sui.Burst > 0 {
			adapterCfg.Burst = cfg.Sui.Burst
		}

		adapter, err := suiledger.NewAdapter(client, adapterCfg, log)
		if err != nil {
			panic("failed to create ledger adapter: " + err.Error())
		}
		return adapter
	})

	// Register Ledger port
	di.RegisterToken(c, ledgerDI.Ledger, func(sr di.ServiceRegistry) app.Ledger {
		return ledgerDI.GetAdapter(sr)
	})

	// Register BalanceService (public - exposed to other modules)
	di.RegisterToken(c, ledgerDI.BalanceService, func(sr di.ServiceRegistry) *app.BalanceService {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewBalanceService(ledgerDI.GetLedger(sr), log)
	})

	return nil
}

// Startup checks that the full node answers. An unreachable node is logged,
// not fatal: every later call retries on its own.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	adapter := ledgerDI.GetAdapter(mono.Services())
	if err := adapter.Ping(ctx); err != nil {
		log.Warn(ctx, "sui node not reachable", "endpoint", mono.SuiClient().Endpoint(), "error", err)
		return nil
	}

	log.Info(ctx, "ledger module started", "endpoint", mono.SuiClient().Endpoint())
	return nil
}
