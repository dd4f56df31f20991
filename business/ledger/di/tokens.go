// Package di contains dependency injection tokens for the ledger context.
package di

import (
	"github.com/fd1az/sui-swap-bot/business/ledger/app"
	"github.com/fd1az/sui-swap-bot/business/ledger/infra/suiledger"
	"github.com/fd1az/sui-swap-bot/internal/di"
)

// Private service tokens - internal to ledger module
var (
	Adapter = di.NewToken[*suiledger.Adapter]("ledger.Adapter")
)

// Public service tokens - exposed to other modules
var (
	BalanceService = di.NewToken[*app.BalanceService]("ledger.BalanceService")
	Ledger         = di.NewToken[app.Ledger]("ledger.Ledger")
)

// Helper functions for type-safe access
func GetAdapter(c di.ServiceRegistry) *suiledger.Adapter {
	return di.GetToken(c, Adapter)
}

func GetBalanceService(c di.ServiceRegistry) *app.BalanceService {
	return di.GetToken(c, BalanceService)
}

func GetLedger(c di.ServiceRegistry) app.Ledger {
	return di.GetToken(c, Ledger)
}
