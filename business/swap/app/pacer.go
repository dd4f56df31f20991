package app

import (
	"context"
	"math/rand/v2"
	"time"
)

// Pacing holds the delays between swaps, cycles and accounts.
type Pacing struct {
	SettleDelay  time.Duration // after each confirmed swap
	SwapDelayMin time.Duration
	SwapDelayMax time.Duration
	CycleDelay   time.Duration
	AccountDelay time.Duration
}

// DefaultPacing returns the delays used on mainnet.
func DefaultPacing() Pacing {
	return Pacing{
		SettleDelay:  2 * time.Second,
		SwapDelayMin: 30 * time.Second,
		SwapDelayMax: 80 * time.Second,
		CycleDelay:   30 * time.Second,
		AccountDelay: 30 * time.Second,
	}
}

// SwapDelay picks a delay in [SwapDelayMin, SwapDelayMax).
func (p Pacing) SwapDelay() time.Duration {
	span := p.SwapDelayMax - p.SwapDelayMin
	if span <= 0 {
		return p.SwapDelayMin
	}
	return p.SwapDelayMin + rand.N(span)
}

// ClockSleeper sleeps on the wall clock.
type ClockSleeper struct{}

// Sleep waits for d or until ctx is done.
func (ClockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
