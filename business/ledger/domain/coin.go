// Package domain contains the core domain types for the ledger context.
package domain

import (
	"math/big"
	"time"

	"github.com/fd1az/sui-swap-bot/internal/asset"
	"github.com/fd1az/sui-swap-bot/internal/sui"
)

// Coin is one fund object: an indivisible unit of value of one asset type.
type Coin struct {
	Ref      sui.ObjectRef
	CoinType asset.CoinType
	Balance  *big.Int
}

// CoinPage is one page of coins and the cursor of the next one.
type CoinPage struct {
	Coins      []Coin
	NextCursor *string
	HasNext    bool
}

// SumBalances adds up the balances of coins.
func SumBalances(coins []Coin) *big.Int {
	total := new(big.Int)
	for _, c := range coins {
		if c.Balance != nil {
			total.Add(total, c.Balance)
		}
	}
	return total
}

// OwnedObject is a non-coin object owned by an account.
type OwnedObject struct {
	Ref  sui.ObjectRef
	Type string
}

// MoveFunction identifies a Move function by package, module and name.
type MoveFunction struct {
	Package  sui.Address
	Module   string
	Function string
}

func (f MoveFunction) String() string {
	return f.Package.String() + "::" + f.Module + "::" + f.Function
}

// TxSummary is the part of a past transaction the reporting needs.
type TxSummary struct {
	Digest    string
	Timestamp time.Time
	Calls     []MoveFunction // MoveCall targets in command order
}

// Invokes reports whether the transaction called fn.
func (t TxSummary) Invokes(fn MoveFunction) bool {
	for _, c := range t.Calls {
		if c == fn {
			return true
		}
	}
	return false
}
