package domain

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/asset"
)

// Headroom is how much of a balance an "all available" swap leaves behind.
// A percentage reserve keeps Percent% of the balance; an absolute reserve
// keeps a fixed number of base units.
type Headroom struct {
	Percent  int64
	Absolute *big.Int
}

// DefaultHeadroom applies to assets without an explicit policy.
var DefaultHeadroom = Headroom{Percent: 1}

// PercentHeadroom keeps pct percent of the balance.
func PercentHeadroom(pct int64) Headroom {
	return Headroom{Percent: pct}
}

// AbsoluteHeadroom keeps units base units.
func AbsoluteHeadroom(units int64) Headroom {
	return Headroom{Absolute: big.NewInt(units)}
}

// Spendable returns the balance minus the reserve, floored at zero.
func (h Headroom) Spendable(balance asset.Amount) asset.Amount {
	if !balance.IsPositive() {
		return asset.Zero(balance.Asset())
	}
	if h.Absolute != nil {
		out, err := balance.Sub(asset.NewAmount(balance.Asset(), h.Absolute))
		if err != nil {
			return asset.Zero(balance.Asset())
		}
		return out
	}
	keep := min(max(h.Percent, 0), 100)
	return balance.MulDiv(100-keep, 100)
}

// ResolveAmount picks the amount of balance's asset to swap. An explicit
// requested amount must be covered by balance; without one the headroom
// policy applies. A non-positive result is ZERO_AMOUNT.
func ResolveAmount(balance asset.Amount, requested *decimal.Decimal, headroom Headroom) (asset.Amount, error) {
	source := balance.Asset()

	var amount asset.Amount
	if requested != nil {
		var err error
		if amount, err = asset.ParseDecimal(source, *requested); err != nil {
			return asset.Amount{}, apperror.New(apperror.CodeInvalidInput,
				apperror.WithContext(source.Symbol()+": "+requested.String()),
				apperror.WithCause(err))
		}
		if cmp, _ := balance.Cmp(amount); amount.IsPositive() && cmp < 0 {
			return asset.Amount{}, apperror.New(apperror.CodeInsufficientBalance,
				apperror.WithContext(source.Symbol()+": available "+
					balance.ToDecimal().String()+", required "+requested.String()))
		}
	} else {
		amount = headroom.Spendable(balance)
	}

	if !amount.IsPositive() {
		return asset.Amount{}, apperror.New(apperror.CodeZeroAmount,
			apperror.WithContext(source.Symbol()+": balance "+balance.ToDecimal().String()))
	}
	return amount, nil
}
