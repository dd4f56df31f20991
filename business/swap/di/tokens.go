// Package di contains dependency injection tokens for the swap context.
package di

import (
	"github.com/fd1az/sui-swap-bot/business/swap/app"
	"github.com/fd1az/sui-swap-bot/business/swap/domain"
	"github.com/fd1az/sui-swap-bot/business/swap/infra"
	"github.com/fd1az/sui-swap-bot/business/swap/infra/journal"
	"github.com/fd1az/sui-swap-bot/internal/di"
)

// Private service tokens - internal to swap module
var (
	Executor = di.NewToken[*app.Executor]("swap.Executor")
	Reporter = di.NewToken[app.ProgressReporter]("swap.Reporter")
)

// Public service tokens - exposed to other modules and commands
var (
	Registry     = di.NewToken[*domain.Registry]("swap.Registry")
	Claimer      = di.NewToken[*app.Claimer]("swap.Claimer")
	Journal      = di.NewToken[*journal.Store]("swap.Journal")
	Orchestrator = di.NewToken[*app.Orchestrator]("swap.Orchestrator")

	// ProgressSender is registered by the command when the TUI is on.
	ProgressSender = di.NewToken[infra.Sender]("swap.ProgressSender")
)

// Helper functions for type-safe access
func GetExecutor(c di.ServiceRegistry) *app.Executor {
	return di.GetToken(c, Executor)
}

func GetReporter(c di.ServiceRegistry) app.ProgressReporter {
	return di.GetToken(c, Reporter)
}

func GetRegistry(c di.ServiceRegistry) *domain.Registry {
	return di.GetToken(c, Registry)
}

func GetClaimer(c di.ServiceRegistry) *app.Claimer {
	return di.GetToken(c, Claimer)
}

// GetJournal returns the journal, or nil when it is disabled.
func GetJournal(c di.ServiceRegistry) *journal.Store {
	return di.GetToken(c, Journal)
}

func GetOrchestrator(c di.ServiceRegistry) *app.Orchestrator {
	return di.GetToken(c, Orchestrator)
}

func GetProgressSender(c di.ServiceRegistry) infra.Sender {
	return di.GetToken(c, ProgressSender)
}
