// Package account implements the account bounded context: signing keys
// loaded from the accounts file and their reporting view.
package account

import (
	"context"
	"fmt"

	"github.com/fd1az/sui-swap-bot/business/account/app"
	accountDI "github.com/fd1az/sui-swap-bot/business/account/di"
	"github.com/fd1az/sui-swap-bot/business/account/domain"
	"github.com/fd1az/sui-swap-bot/business/account/infra/leaderboard"
	ledgerDI "github.com/fd1az/sui-swap-bot/business/ledger/di"
	ledgerDomain "github.com/fd1az/sui-swap-bot/business/ledger/domain"
	swapDI "github.com/fd1az/sui-swap-bot/business/swap/di"
	swapDomain "github.com/fd1az/sui-swap-bot/business/swap/domain"
	"github.com/fd1az/sui-swap-bot/internal/asset"
	"github.com/fd1az/sui-swap-bot/internal/config"
	"github.com/fd1az/sui-swap-bot/internal/di"
	"github.com/fd1az/sui-swap-bot/internal/logger"
	"github.com/fd1az/sui-swap-bot/internal/monolith"
)

// Module implements the account bounded context.
type Module struct{}

// RegisterServices registers all account services with the DI container.
// The accounts file is read here so a missing or malformed file fails
// startup with an error.
func (m *Module) RegisterServices(c di.Container) error {
	cfg := c.Get("config").(*config.Config)
	accounts, err := LoadAccounts(cfg.Accounts.File)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}

	// Register Leaderboard (private - nil when disabled)
	di.RegisterToken(c, accountDI.Leaderboard, func(sr di.ServiceRegistry) *leaderboard.Client {
		cfg := sr.Get("config").(*config.Config)
		if !cfg.Leaderboard.Enabled {
			return nil
		}

		lbCfg := leaderboard.DefaultConfig()
		if cfg.Leaderboard.BaseURL != "" {
			lbCfg.BaseURL = cfg.Leaderboard.BaseURL
		}
		if cfg.Leaderboard.Liquidity > 0 {
			lbCfg.Liquidity = cfg.Leaderboard.Liquidity
		}
		if cfg.Leaderboard.Timeout > 0 {
			lbCfg.Timeout = cfg.Leaderboard.Timeout
		}

		client, err := leaderboard.NewClient(lbCfg)
		if err != nil {
			panic("failed to create leaderboard client: " + err.Error())
		}
		return client
	})

	// Register Service (public)
	di.RegisterToken(c, accountDI.Service, func(sr di.ServiceRegistry) *app.Service {
		log := sr.Get("logger").(logger.LoggerInterface)

		registry := swapDI.GetRegistry(sr)
		assets := make([]*asset.Asset, 0, len(cfg.Accounts.Assets))
		for _, sym := range cfg.Accounts.Assets {
			a, err := registry.Asset(sym)
			if err != nil {
				panic("accounts.assets: " + err.Error())
			}
			assets = append(assets, a)
		}

		var volume app.VolumeSource
		if client := accountDI.GetLeaderboard(sr); client != nil {
			volume = client
		}

		swapCall := ledgerDomain.MoveFunction{
			Package:  registry.Protocol().TradePackage,
			Module:   swapDomain.TradeModule,
			Function: swapDomain.FlashSwapFunction,
		}
		return app.NewService(accounts, ledgerDI.GetBalanceService(sr), swapCall, assets, volume, log)
	})

	return nil
}

// Startup logs the loaded accounts.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	svc := accountDI.GetService(mono.Services())

	for i, acct := range svc.Accounts() {
		log.Info(ctx, "account loaded", "index", i+1, "label", acct.Label(), "address", acct.Address().String())
	}
	log.Info(ctx, "account module started", "accounts", len(svc.Accounts()))
	return nil
}

// LoadAccounts reads and decodes the accounts file.
func LoadAccounts(path string) ([]*domain.Account, error) {
	entries, err := config.LoadAccounts(path)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(entries))
	for i, e := range entries {
		acct, err := domain.Parse(e.PrivateKey, e.Nickname)
		if err != nil {
			return nil, fmt.Errorf("accounts[%d]: %w", i, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}
