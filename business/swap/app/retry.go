package app

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/fd1az/sui-swap-bot/internal/apperror"
)

// RetryPolicy retries transient failures a bounded number of times with a
// fixed delay.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy returns 3 attempts 8 seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Delay: 8 * time.Second}
}

// Do runs fn until it succeeds, returns a non-transient error, or the
// attempts are used up. It returns the number of attempts made.
func (p RetryPolicy) Do(ctx context.Context, sleeper Sleeper, fn func(ctx context.Context, attempt int) error) (int, error) {
	attempts := max(p.Attempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx, attempt); err == nil {
			return attempt, nil
		}
		if attempt == attempts || !IsTransient(err) || ctx.Err() != nil {
			return attempt, err
		}
		if serr := sleeper.Sleep(ctx, p.Delay); serr != nil {
			return attempt, err
		}
	}
	return attempts, err
}

// transientHints match uncoded errors that look like network trouble.
var transientHints = []string{"502", "network", "timeout", "connection"}

// IsTransient reports whether err is worth retrying. Coded errors are
// classified by code; uncoded ones, and node-reported RPC errors whose code
// says nothing about the cause, by timeouts and then by message.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	if apperror.IsAppError(err) {
		switch code := apperror.GetCode(err); code {
		case apperror.CodeInternalError, apperror.CodeUnknownError, apperror.CodeLedgerRPCError:
		default:
			return code.Transient()
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, hint := range transientHints {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
