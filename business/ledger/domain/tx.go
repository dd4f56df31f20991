package domain

import (
	"math/big"

	"github.com/fd1az/sui-swap-bot/internal/asset"
)

// GasCost is the gas summary of an executed or simulated transaction.
type GasCost struct {
	Computation *big.Int
	Storage     *big.Int
	Rebate      *big.Int
}

// Net returns computation + storage - rebate. It may be negative.
func (g GasCost) Net() *big.Int {
	net := new(big.Int)
	for _, v := range []*big.Int{g.Computation, g.Storage} {
		if v != nil {
			net.Add(net, v)
		}
	}
	if g.Rebate != nil {
		net.Sub(net, g.Rebate)
	}
	return net
}

// BalanceChange is the signed delta of one owner's balance of one coin type.
type BalanceChange struct {
	Owner    string
	CoinType asset.CoinType
	Amount   *big.Int
}

// DryRunResult is the simulated outcome of a transaction.
type DryRunResult struct {
	Success bool
	Error   string
	Gas     GasCost
}

// TxResult is the outcome of an executed transaction.
type TxResult struct {
	Digest         string
	Success        bool
	Error          string
	Gas            GasCost
	BalanceChanges []BalanceChange
}

// ChangesFor returns the balance changes of owner.
func (r *TxResult) ChangesFor(owner string) []BalanceChange {
	var out []BalanceChange
	for _, c := range r.BalanceChanges {
		if c.Owner == owner {
			out = append(out, c)
		}
	}
	return out
}
