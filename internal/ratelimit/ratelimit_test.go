package ratelimit_test

import (
	"context"
	"testing"

	"github.com/fd1az/sui-swap-bot/internal/ratelimit"
)

func TestLimiter_Burst(t *testing.T) {
	l := ratelimit.New(0.001, 2)

	if !l.Allow() || !l.Allow() {
		t.Fatal("burst of 2 should allow two immediate calls")
	}
	if l.Allow() {
		t.Fatal("third call should be throttled")
	}
}

func TestLimiter_DisabledAndNil(t *testing.T) {
	l := ratelimit.New(0, 1)
	for i := 0; i < 100; i++ {
		if !l.Allow() {
			t.Fatal("disabled limiter throttled")
		}
	}

	var nilLimiter *ratelimit.Limiter
	if err := nilLimiter.Wait(context.Background()); err != nil {
		t.Fatalf("nil limiter Wait: %v", err)
	}
}
