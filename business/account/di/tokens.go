// Package di contains dependency injection tokens for the account context.
package di

import (
	"github.com/fd1az/sui-swap-bot/business/account/app"
	"github.com/fd1az/sui-swap-bot/business/account/infra/leaderboard"
	"github.com/fd1az/sui-swap-bot/internal/di"
)

// Private service tokens - internal to account module
var (
	Leaderboard = di.NewToken[*leaderboard.Client]("account.Leaderboard")
)

// Public service tokens - exposed to other modules
var (
	Service = di.NewToken[*app.Service]("account.Service")
)

// Helper functions for type-safe access

// GetLeaderboard returns the leaderboard client, or nil when it is disabled.
func GetLeaderboard(c di.ServiceRegistry) *leaderboard.Client {
	return di.GetToken(c, Leaderboard)
}

func GetService(c di.ServiceRegistry) *app.Service {
	return di.GetToken(c, Service)
}
