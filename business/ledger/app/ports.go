// Package app contains application services and port definitions for the ledger context.
package app

import (
	"context"

	"github.com/fd1az/sui-swap-bot/business/ledger/domain"
	"github.com/fd1az/sui-swap-bot/internal/asset"
	"github.com/fd1az/sui-swap-bot/internal/sui"
)

// Ledger is the read/write port to the Sui network.
type Ledger interface {
	// Coins returns one page of coin objects of coinType owned by owner.
	Coins(ctx context.Context, owner sui.Address, coinType asset.CoinType, cursor *string) (*domain.CoinPage, error)

	// OwnedObjects returns the objects of structType owned by owner.
	OwnedObjects(ctx context.Context, owner sui.Address, structType string) ([]domain.OwnedObject, error)

	// ReferenceGasPrice returns the current reference gas price in MIST.
	ReferenceGasPrice(ctx context.Context) (uint64, error)

	// DryRun simulates a transaction.
	DryRun(ctx context.Context, txBytes []byte) (*domain.DryRunResult, error)

	// Execute submits a signed transaction and waits for local execution.
	Execute(ctx context.Context, txBytes []byte, signature string) (*domain.TxResult, error)

	// RecentTransactions returns up to limit transactions sent by sender, newest first.
	RecentTransactions(ctx context.Context, sender sui.Address, limit int) ([]domain.TxSummary, error)
}
