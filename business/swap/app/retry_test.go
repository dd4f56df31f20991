package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/sui-swap-bot/internal/apperror"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestRetryPolicy_Do(t *testing.T) {
	policy := RetryPolicy{Attempts: 3, Delay: 8 * time.Second}

	t.Run("timeout is retried to the bound", func(t *testing.T) {
		s := &recordingSleeper{}
		calls := 0
		attempts, err := policy.Do(context.Background(), s, func(context.Context, int) error {
			calls++
			return errors.New("request timeout")
		})
		require.Error(t, err)
		assert.Equal(t, 3, attempts)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []time.Duration{8 * time.Second, 8 * time.Second}, s.delays)
	})

	t.Run("invalid signature is not retried", func(t *testing.T) {
		for _, sigErr := range []error{
			apperror.New(apperror.CodeInvalidSignature, apperror.WithContext("invalid signature")),
			errors.New("invalid signature"),
		} {
			s := &recordingSleeper{}
			attempts, err := policy.Do(context.Background(), s, func(context.Context, int) error {
				return sigErr
			})
			require.Error(t, err)
			assert.Equal(t, 1, attempts)
			assert.Empty(t, s.delays)
		}
	})

	t.Run("recovers", func(t *testing.T) {
		attempts, err := policy.Do(context.Background(), &recordingSleeper{}, func(_ context.Context, attempt int) error {
			if attempt < 2 {
				return apperror.New(apperror.CodeRateLimitExceeded)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
	})

	t.Run("cancelled sleep ends retries", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		s := &recordingSleeper{cancel: cancel, after: 1}
		attempts, err := policy.Do(ctx, s, func(context.Context, int) error {
			return errors.New("network down")
		})
		assert.EqualError(t, err, "network down")
		assert.Equal(t, 1, attempts)
	})
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{apperror.New(apperror.CodeServiceTimeout), true},
		{apperror.New(apperror.CodeServiceUnavailable, apperror.WithContext("status 502")), true},
		{apperror.New(apperror.CodeLedgerUnreachable), true},
		{apperror.New(apperror.CodeCircuitOpen), true},
		{apperror.New(apperror.CodeTransactionFailed, apperror.WithContext("network abort")), false},
		{apperror.New(apperror.CodeInsufficientBalance), false},
		{apperror.New(apperror.CodePoolNotFound), false},
		{apperror.New(apperror.CodeInvalidSignature), false},
		{apperror.Internal(apperror.CodeInternalError, "rpc", errors.New("connection refused")), true},
		{apperror.New(apperror.CodeLedgerRPCError,
			apperror.WithContext("sui_executeTransactionBlock"),
			apperror.WithCause(errors.New("Transaction timed out before reaching finality: TimeoutBeforeFinality"))), true},
		{apperror.New(apperror.CodeLedgerRPCError,
			apperror.WithContext("sui_executeTransactionBlock"),
			apperror.WithCause(errors.New("Invalid params"))), false},
		{context.DeadlineExceeded, true},
		{context.Canceled, false},
		{fmt.Errorf("post: %w", timeoutErr{}), true},
		{errors.New("HTTP 502 Bad Gateway"), true},
		{errors.New("Network is unreachable"), true},
		{errors.New("MoveAbort in slippage_check"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTransient(tt.err), "%v", tt.err)
	}
}

func TestPacing_SwapDelay(t *testing.T) {
	p := DefaultPacing()
	for range 100 {
		d := p.SwapDelay()
		assert.GreaterOrEqual(t, d, 30*time.Second)
		assert.Less(t, d, 80*time.Second)
	}
}

func TestClockSleeper_HonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ClockSleeper{}.Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, ClockSleeper{}.Sleep(context.Background(), 0))
}
