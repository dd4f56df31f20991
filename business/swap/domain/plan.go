package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fd1az/sui-swap-bot/internal/asset"
)

// PlanEntry is one swap of a cycle. A nil Amount means "all available".
type PlanEntry struct {
	Pool    string
	Amount  *decimal.Decimal
	Reverse bool
}

// ParsePlanEntry builds an entry from its config form. amount is a decimal
// in display units, or "all"/"" for all available.
func ParsePlanEntry(pool, amount string, reverse bool) (PlanEntry, error) {
	e := PlanEntry{Pool: strings.TrimSpace(pool), Reverse: reverse}
	if e.Pool == "" {
		return PlanEntry{}, fmt.Errorf("plan entry: pool is required")
	}

	amount = strings.TrimSpace(amount)
	if amount == "" || strings.EqualFold(amount, "all") {
		return e, nil
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return PlanEntry{}, fmt.Errorf("plan entry %s: invalid amount %q: %w", pool, amount, err)
	}
	if !d.IsPositive() {
		return PlanEntry{}, fmt.Errorf("plan entry %s: amount must be positive", pool)
	}
	e.Amount = &d
	return e, nil
}

// All reports whether the entry swaps all available balance.
func (e PlanEntry) All() bool {
	return e.Amount == nil
}

func (e PlanEntry) String() string {
	amt := "all"
	if e.Amount != nil {
		amt = e.Amount.String()
	}
	if e.Reverse {
		return fmt.Sprintf("%s %s (reverse)", e.Pool, amt)
	}
	return fmt.Sprintf("%s %s", e.Pool, amt)
}

// Plan is the ordered sequence of entries forming one cycle.
type Plan []PlanEntry

// DefaultPlan rotates SUI through USDC, WAL and STSUI and back.
func DefaultPlan() Plan {
	fortyFive := decimal.NewFromInt(45)
	return Plan{
		{Pool: "SUI_USDC", Amount: &fortyFive},
		{Pool: "USDC_SUI"},
		{Pool: "SUI_WAL", Amount: &fortyFive},
		{Pool: "WAL_SUI"},
		{Pool: "SUI_STSUI", Amount: &fortyFive},
		{Pool: "STSUI_SUI"},
	}
}

// Validate checks that every entry resolves against the registry and that
// explicit amounts fit the source asset's precision.
func (p Plan) Validate(r *Registry) error {
	if len(p) == 0 {
		return fmt.Errorf("plan is empty")
	}
	for i, e := range p {
		route, err := r.Route(e.Pool, e.Reverse)
		if err != nil {
			return fmt.Errorf("plan entry %d: %w", i+1, err)
		}
		if e.Amount == nil {
			continue
		}
		if _, err := asset.ParseDecimal(route.Source(), *e.Amount); err != nil {
			return fmt.Errorf("plan entry %d (%s): %w", i+1, e, err)
		}
	}
	return nil
}
