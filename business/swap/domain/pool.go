// Package domain contains the core domain types for the swap context.
package domain

import (
	"math/big"
	"strings"

	"github.com/fd1az/sui-swap-bot/internal/asset"
	"github.com/fd1az/sui-swap-bot/internal/sui"
)

// SharedObject is a shared on-chain object and its initial shared version.
type SharedObject struct {
	ID                   sui.Address
	InitialSharedVersion uint64
}

// Swaps are flash swaps through the trade module of the trade package.
const (
	TradeModule       = "trade"
	FlashSwapFunction = "flash_swap"
)

// Protocol holds the DEX package ids and its global objects.
type Protocol struct {
	TradePackage    sui.Address
	SlippagePackage sui.Address
	Version         SharedObject
	Clock           SharedObject
}

// Pool is a CLMM pool with a fixed on-chain token order.
type Pool struct {
	Name                 string
	ObjectID             sui.Address
	InitialSharedVersion uint64
	TokenA               *asset.Asset
	TokenB               *asset.Asset
	ForwardLimit         *big.Int // sqrt-price limit for A→B
	ReverseLimit         *big.Int // sqrt-price limit for B→A
}

// Shared returns the pool as a shared object reference.
func (p *Pool) Shared() SharedObject {
	return SharedObject{ID: p.ObjectID, InitialSharedVersion: p.InitialSharedVersion}
}

// Route swaps from tokenA to tokenB, or from tokenB to tokenA when reverse.
func (p *Pool) Route(reverse bool) Route {
	return Route{Pool: p, A2B: !reverse}
}

// Has reports whether a is one of the pool's tokens.
func (p *Pool) Has(a *asset.Asset) bool {
	return p.TokenA.Equals(a) || p.TokenB.Equals(a)
}

func (p *Pool) namesTokens(x, y string) bool {
	a, b := p.TokenA.Symbol(), p.TokenB.Symbol()
	return (strings.EqualFold(x, a) && strings.EqualFold(y, b)) ||
		(strings.EqualFold(x, b) && strings.EqualFold(y, a))
}

// Route is a pool plus a pool-relative direction.
type Route struct {
	Pool *Pool
	A2B  bool
}

// Source is the asset spent.
func (r Route) Source() *asset.Asset {
	if r.A2B {
		return r.Pool.TokenA
	}
	return r.Pool.TokenB
}

// Target is the asset received.
func (r Route) Target() *asset.Asset {
	if r.A2B {
		return r.Pool.TokenB
	}
	return r.Pool.TokenA
}

// SqrtLimit is the price limit for the route's direction.
func (r Route) SqrtLimit() *big.Int {
	if r.A2B {
		return r.Pool.ForwardLimit
	}
	return r.Pool.ReverseLimit
}

// String renders e.g. "SUI→USDC".
func (r Route) String() string {
	if r.Pool == nil {
		return "?"
	}
	return r.Source().Symbol() + "→" + r.Target().Symbol()
}
