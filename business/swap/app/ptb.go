package app

import (
	"math/big"

	ledgerDomain "github.com/fd1az/sui-swap-bot/business/ledger/domain"
	"github.com/fd1az/sui-swap-bot/business/swap/domain"
	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/sui"
)

// Move modules called by the programmable transactions.
const (
	tradeModule    = domain.TradeModule
	collectModule  = "collect"
	slippageModule = "slippage_check"
	positionType   = "position::Position"

	flashSwapFunction = domain.FlashSwapFunction
)

func target(pkg sui.Address, module, function string) string {
	return pkg.String() + "::" + module + "::" + function
}

func framework(module, function string) string {
	return target(sui.FrameworkAddress, module, function)
}

// sourceCoin returns a coin holding exactly amount of the source asset.
// SUI is split from the gas coin; other assets merge every coin into the
// first and split from it.
func sourceCoin(b *sui.Builder, route domain.Route, coins []ledgerDomain.Coin, amount uint64) (sui.Argument, error) {
	if route.Source().IsGas() {
		return b.SplitCoins(sui.GasCoin(), b.PureU64(amount)).Nested(0), nil
	}
	if len(coins) == 0 {
		return sui.Argument{}, apperror.New(apperror.CodeNoFunds,
			apperror.WithContext(route.Source().CoinType().String()))
	}

	primary := b.OwnedObject(coins[0].Ref)
	if len(coins) > 1 {
		rest := make([]sui.Argument, 0, len(coins)-1)
		for _, c := range coins[1:] {
			rest = append(rest, b.OwnedObject(c.Ref))
		}
		b.MergeCoins(primary, rest...)
	}
	return b.SplitCoins(primary, b.PureU64(amount)).Nested(0), nil
}

// buildFlashSwap adds the borrow-swap-repay sequence for route to b. The
// pool lends the output up front; the split source coin pays the receipt's
// debt and the output is sent back to sender together with the leftover
// split coin.
func buildFlashSwap(b *sui.Builder, protocol domain.Protocol, route domain.Route, coins []ledgerDomain.Coin, amount *big.Int, sender sui.Address) error {
	if !amount.IsUint64() {
		return apperror.New(apperror.CodeTransactionEncoding,
			apperror.WithContext("amount exceeds u64: "+amount.String()))
	}
	amt := amount.Uint64()

	src, err := sourceCoin(b, route, coins, amt)
	if err != nil {
		return err
	}

	var (
		pool     = route.Pool
		a2b      = route.A2B
		typeA    = pool.TokenA.CoinType().String()
		typeB    = pool.TokenB.CoinType().String()
		srcType  = route.Source().CoinType().String()
		dstType  = route.Target().CoinType().String()
		pair     = []string{typeA, typeB}
		trade    = protocol.TradePackage
		poolArg  = b.SharedObject(pool.ObjectID, pool.InitialSharedVersion, true)
		a2bArg   = b.PureBool(a2b)
		limitArg = b.PureU128(route.SqrtLimit())
		clock    = b.SharedObject(protocol.Clock.ID, protocol.Clock.InitialSharedVersion, false)
		version  = b.SharedObject(protocol.Version.ID, protocol.Version.InitialSharedVersion, false)
	)

	flash := b.MoveCall(target(trade, tradeModule, flashSwapFunction), pair,
		poolArg, a2bArg, b.PureBool(true), b.PureU64(amt), limitArg, clock, version)
	balA, balB, receipt := flash.Nested(0), flash.Nested(1), flash.Nested(2)

	// The borrowed side is empty after the swap.
	empty, out := balB, balA
	if a2b {
		empty, out = balA, balB
	}
	b.MoveCall(framework("balance", "destroy_zero"), []string{srcType}, empty)

	zero := b.MoveCall(framework("coin", "zero"), []string{dstType})

	debts := b.MoveCall(target(trade, tradeModule, "swap_receipt_debts"), nil, receipt)
	debt := debts.Nested(1)
	if a2b {
		debt = debts.Nested(0)
	}
	owed := b.MoveCall(framework("coin", "split"), []string{srcType}, src, debt)

	payA, payB := owed, zero
	if !a2b {
		payA, payB = zero, owed
	}
	repayA := b.MoveCall(framework("coin", "into_balance"), []string{typeA}, payA)
	repayB := b.MoveCall(framework("coin", "into_balance"), []string{typeB}, payB)
	b.MoveCall(target(trade, tradeModule, "repay_flash_swap"), pair,
		poolArg, receipt, repayA, repayB, version)

	b.MoveCall(target(protocol.SlippagePackage, slippageModule, "assert_slippage"), pair,
		poolArg, limitArg, a2bArg)

	received := b.MoveCall(framework("coin", "from_balance"), []string{dstType}, out)

	recipient := b.PureAddress(sender)
	b.TransferObjects([]sui.Argument{src}, recipient)
	b.TransferObjects([]sui.Argument{received}, recipient)
	return nil
}

// buildClaim collects the rewards of both pool tokens and the trading fees
// of position and sends them to sender.
func buildClaim(b *sui.Builder, protocol domain.Protocol, pool *domain.Pool, position sui.ObjectRef, sender sui.Address) {
	var (
		typeA   = pool.TokenA.CoinType().String()
		typeB   = pool.TokenB.CoinType().String()
		trade   = protocol.TradePackage
		poolArg = b.SharedObject(pool.ObjectID, pool.InitialSharedVersion, true)
		pos     = b.OwnedObject(position)
		clock   = b.SharedObject(protocol.Clock.ID, protocol.Clock.InitialSharedVersion, false)
		version = b.SharedObject(protocol.Version.ID, protocol.Version.InitialSharedVersion, false)
	)

	rewardA := b.MoveCall(target(trade, collectModule, "reward"), []string{typeA, typeB, typeA},
		poolArg, pos, clock, version)
	rewardB := b.MoveCall(target(trade, collectModule, "reward"), []string{typeA, typeB, typeB},
		poolArg, pos, clock, version)

	recipient := b.PureAddress(sender)
	b.TransferObjects([]sui.Argument{rewardA, rewardB}, recipient)

	fee := b.MoveCall(target(trade, collectModule, "fee"), []string{typeA, typeB},
		poolArg, pos, clock, version)
	b.TransferObjects([]sui.Argument{fee.Nested(0), fee.Nested(1)}, recipient)
}
