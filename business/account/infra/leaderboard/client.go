// Package leaderboard fetches trading volume from the DEX leaderboard API.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/circuitbreaker"
	"github.com/fd1az/sui-swap-bot/internal/httpclient"
	"github.com/fd1az/sui-swap-bot/internal/sui"
)

const (
	tracerName = "github.com/fd1az/sui-swap-bot/business/account/infra/leaderboard"

	// DefaultBaseURL is the public leaderboard API.
	DefaultBaseURL = "https://api.mmt.finance"
)

// Config holds the client settings.
type Config struct {
	BaseURL   string
	Liquidity int
	Timeout   time.Duration
	Breaker   circuitbreaker.Config
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	br := circuitbreaker.DefaultConfig("leaderboard")
	br.FailureThreshold = 3
	br.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, errNoUserData)
	}
	return Config{
		BaseURL:   DefaultBaseURL,
		Liquidity: 20,
		Timeout:   10 * time.Second,
		Breaker:   br,
	}
}

// errNoUserData marks addresses the leaderboard has never seen. It does not
// count against the breaker.
var errNoUserData = errors.New("no user data")

type userData struct {
	Volume *decimal.Decimal `json:"volume"`
}

type payload struct {
	UserData *userData `json:"userData"`
}

type response struct {
	Status int      `json:"status"`
	Data   *payload `json:"data"`
}

// Client queries the leaderboard.
type Client struct {
	http      httpclient.Client
	liquidity int
	breaker   *circuitbreaker.CircuitBreaker[string]
	tracer    trace.Tracer
}

// NewClient creates a leaderboard client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Liquidity <= 0 {
		cfg.Liquidity = DefaultConfig().Liquidity
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = DefaultConfig().Breaker
	}

	h, err := httpclient.New(
		httpclient.WithProviderName("leaderboard"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithHeaders(map[string]string{
			"Accept": "application/json",
			"Origin": "https://app.mmt.finance",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	return &Client{
		http:      h,
		liquidity: cfg.Liquidity,
		breaker:   circuitbreaker.New[string](cfg.Breaker),
		tracer:    otel.Tracer(tracerName),
	}, nil
}

// Volume returns the traded volume of address. A response without data or
// user data is LEADERBOARD_UNAVAILABLE.
func (c *Client) Volume(ctx context.Context, address sui.Address) (string, error) {
	ctx, span := c.tracer.Start(ctx, "leaderboard.Volume", trace.WithAttributes(
		attribute.String("address", address.String()),
	))
	defer span.End()

	v, err := c.breaker.Execute(func() (string, error) {
		return c.fetch(ctx, address)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetStatus(codes.Ok, "")
	return v, nil
}

func (c *Client) fetch(ctx context.Context, address sui.Address) (string, error) {
	var res response
	_, err := c.http.NewRequest(
		httpclient.WithResponseErrorHandler(func(status int, _ []byte) error {
			if status != http.StatusOK {
				return apperror.New(apperror.CodeLeaderboardUnavailable,
					apperror.WithContext("status "+strconv.Itoa(status)))
			}
			return nil
		}),
	).
		SetQueryParam("address", address.String()).
		SetQueryParam("liquidity", strconv.Itoa(c.liquidity)).
		SetResult(&res).
		Get(ctx, "/leaderboard")
	if err != nil {
		return "", apperror.Wrap(err, apperror.CodeLeaderboardUnavailable, "leaderboard request")
	}

	if res.Status != http.StatusOK {
		return "", apperror.New(apperror.CodeLeaderboardUnavailable,
			apperror.WithContext("api status "+strconv.Itoa(res.Status)))
	}
	if res.Data == nil || res.Data.UserData == nil || res.Data.UserData.Volume == nil {
		return "", apperror.New(apperror.CodeLeaderboardUnavailable,
			apperror.WithCause(errNoUserData))
	}
	return res.Data.UserData.Volume.String(), nil
}
