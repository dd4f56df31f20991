// Package suiledger implements the ledger port on top of the Sui JSON-RPC client.
package suiledger

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/sui-swap-bot/business/ledger/domain"
	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/asset"
	"github.com/fd1az/sui-swap-bot/internal/cache"
	"github.com/fd1az/sui-swap-bot/internal/circuitbreaker"
	"github.com/fd1az/sui-swap-bot/internal/logger"
	"github.com/fd1az/sui-swap-bot/internal/ratelimit"
	"github.com/fd1az/sui-swap-bot/internal/sui"
)

const (
	tracerName = "github.com/fd1az/sui-swap-bot/business/ledger/infra/suiledger"
	meterName  = "github.com/fd1az/sui-swap-bot/business/ledger"

	coinPageSize   = 50
	objectPageSize = 50
	gasPriceKey    = "reference"
)

// Config holds the adapter settings.
type Config struct {
	RequestsPerSecond float64
	Burst             int
	GasPriceTTL       time.Duration // reference gas price changes once per epoch
	Breaker           circuitbreaker.Config
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	br := circuitbreaker.DefaultConfig("sui-rpc")
	br.IsSuccessful = func(err error) bool {
		return err == nil || !apperror.GetCode(err).Transient()
	}
	return Config{
		RequestsPerSecond: 10,
		Burst:             5,
		GasPriceTTL:       time.Minute,
		Breaker:           br,
	}
}

type adapterMetrics struct {
	calls    metric.Int64Counter
	gasPrice metric.Int64Gauge
}

// Adapter implements app.Ledger.
type Adapter struct {
	client  *sui.Client
	logger  logger.LoggerInterface
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.CircuitBreaker[any]
	gasTTL  time.Duration
	prices  *cache.Cache[string, uint64]

	tracer  trace.Tracer
	metrics *adapterMetrics
}

// NewAdapter creates a ledger adapter.
func NewAdapter(client *sui.Client, cfg Config, log logger.LoggerInterface) (*Adapter, error) {
	if cfg.Breaker.Name == "" {
		cfg.Breaker = DefaultConfig().Breaker
	}
	if cfg.Breaker.OnStateChange == nil {
		cfg.Breaker.OnStateChange = func(name string, from, to gobreaker.State) {
			log.Warn(context.Background(), "circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		}
	}
	a := &Adapter{
		client:  client,
		logger:  log,
		limiter: ratelimit.New(cfg.RequestsPerSecond, cfg.Burst),
		breaker: circuitbreaker.New[any](cfg.Breaker),
		gasTTL:  cfg.GasPriceTTL,
		prices:  cache.New[string, uint64](0),
		tracer:  otel.Tracer(tracerName),
	}

	if err := a.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return a, nil
}

func (a *Adapter) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	a.metrics = &adapterMetrics{}

	a.metrics.calls, err = meter.Int64Counter(
		"ledger_rpc_calls_total",
		metric.WithDescription("Total ledger RPC calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return err
	}

	a.metrics.gasPrice, err = meter.Int64Gauge(
		"ledger_reference_gas_price",
		metric.WithDescription("Reference gas price in MIST"),
		metric.WithUnit("MIST"),
	)
	return err
}

// read runs a read-only call through the limiter and the breaker.
func read[T any](ctx context.Context, a *Adapter, method string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := a.tracer.Start(ctx, "ledger."+method)
	defer span.End()

	var zero T
	if err := a.limiter.Wait(ctx); err != nil {
		return zero, err
	}

	res, err := a.breaker.Execute(func() (any, error) {
		return fn(ctx)
	})
	a.record(ctx, span, method, err)
	if err != nil {
		return zero, err
	}
	return res.(T), nil
}

func (a *Adapter) record(ctx context.Context, span trace.Span, method string, err error) {
	a.metrics.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.Bool("success", err == nil),
	))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperror.GetCode(err)))
		return
	}
	span.SetStatus(codes.Ok, "")
}

func (a *Adapter) Coins(ctx context.Context, owner sui.Address, coinType asset.CoinType, cursor *string) (*domain.CoinPage, error) {
	page, err := read(ctx, a, "get_coins", func(ctx context.Context) (*sui.CoinPage, error) {
		return a.client.GetCoins(ctx, owner, coinType.String(), cursor, coinPageSize)
	})
	if err != nil {
		return nil, err
	}

	out := &domain.CoinPage{NextCursor: page.NextCursor, HasNext: page.HasNextPage}
	for _, c := range page.Data {
		ref, err := c.Ref()
		if err != nil {
			return nil, apperror.New(apperror.CodeLedgerRPCError,
				apperror.WithContext("coin "+c.CoinObjectID), apperror.WithCause(err))
		}
		bal, ok := c.BalanceInt()
		if !ok {
			return nil, apperror.New(apperror.CodeLedgerRPCError,
				apperror.WithContext(fmt.Sprintf("coin %s: balance %q", c.CoinObjectID, c.Balance)))
		}
		ct, err := asset.ParseCoinType(c.CoinType)
		if err != nil {
			ct = coinType
		}
		out.Coins = append(out.Coins, domain.Coin{Ref: ref, CoinType: ct, Balance: bal})
	}
	return out, nil
}

func (a *Adapter) OwnedObjects(ctx context.Context, owner sui.Address, structType string) ([]domain.OwnedObject, error) {
	page, err := read(ctx, a, "get_owned_objects", func(ctx context.Context) (*sui.ObjectsPage, error) {
		return a.client.GetOwnedObjects(ctx, owner, structType, nil, objectPageSize)
	})
	if err != nil {
		return nil, err
	}

	var out []domain.OwnedObject
	for _, o := range page.Data {
		if o.Data == nil {
			continue
		}
		ref, err := o.Data.Ref()
		if err != nil {
			return nil, apperror.New(apperror.CodeLedgerRPCError,
				apperror.WithContext("object "+o.Data.ObjectID), apperror.WithCause(err))
		}
		out = append(out, domain.OwnedObject{Ref: ref, Type: o.Data.Type})
	}
	return out, nil
}

func (a *Adapter) ReferenceGasPrice(ctx context.Context) (uint64, error) {
	if p, ok := a.prices.Get(ctx, gasPriceKey); ok {
		return p, nil
	}

	price, err := read(ctx, a, "reference_gas_price", a.client.GetReferenceGasPrice)
	if err != nil {
		return 0, err
	}

	a.prices.Set(ctx, gasPriceKey, price, a.gasTTL)
	a.metrics.gasPrice.Record(ctx, int64(price))
	return price, nil
}

func (a *Adapter) DryRun(ctx context.Context, txBytes []byte) (*domain.DryRunResult, error) {
	resp, err := read(ctx, a, "dry_run", func(ctx context.Context) (*sui.DryRunResponse, error) {
		return a.client.DryRun(ctx, txBytes)
	})
	if err != nil {
		return nil, err
	}
	return &domain.DryRunResult{
		Success: resp.Effects.Status.Succeeded(),
		Error:   resp.Effects.Status.Error,
		Gas:     toGasCost(resp.Effects.GasUsed),
	}, nil
}

// Execute is limited but not guarded by the breaker: a rejected transaction
// says nothing about node health.
func (a *Adapter) Execute(ctx context.Context, txBytes []byte, signature string) (*domain.TxResult, error) {
	ctx, span := a.tracer.Start(ctx, "ledger.execute",
		trace.WithAttributes(attribute.String("digest", sui.TransactionDigest(txBytes))),
	)
	defer span.End()

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := a.client.Execute(ctx, txBytes, signature)
	a.record(ctx, span, "execute", err)
	if err != nil {
		return nil, err
	}

	res := &domain.TxResult{Digest: resp.Digest}
	if resp.Effects != nil {
		res.Success = resp.Effects.Status.Succeeded()
		res.Error = resp.Effects.Status.Error
		res.Gas = toGasCost(resp.Effects.GasUsed)
	}
	for _, bc := range resp.BalanceChanges {
		amt, ok := new(big.Int).SetString(bc.Amount, 10)
		if !ok {
			continue
		}
		ct, err := asset.ParseCoinType(bc.CoinType)
		if err != nil {
			continue
		}
		owner := bc.Owner.AddressOwner
		if addr, err := sui.ParseAddress(owner); err == nil {
			owner = addr.String()
		}
		res.BalanceChanges = append(res.BalanceChanges, domain.BalanceChange{
			Owner:    owner,
			CoinType: ct,
			Amount:   amt,
		})
	}
	return res, nil
}

func (a *Adapter) RecentTransactions(ctx context.Context, sender sui.Address, limit int) ([]domain.TxSummary, error) {
	page, err := read(ctx, a, "query_transactions", func(ctx context.Context) (*sui.TransactionPage, error) {
		return a.client.QueryTransactionsFrom(ctx, sender, nil, limit)
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.TxSummary, 0, len(page.Data))
	for i := range page.Data {
		tx := &page.Data[i]
		s := domain.TxSummary{Digest: tx.Digest}
		if ms, err := strconv.ParseInt(tx.TimestampMs, 10, 64); err == nil {
			s.Timestamp = time.UnixMilli(ms)
		}
		for _, call := range tx.MoveCalls() {
			pkg, err := sui.ParseAddress(call.Package)
			if err != nil {
				continue
			}
			s.Calls = append(s.Calls, domain.MoveFunction{
				Package:  pkg,
				Module:   call.Module,
				Function: call.Function,
			})
		}
		out = append(out, s)
	}
	return out, nil
}

// Ping checks node reachability for the health endpoint.
func (a *Adapter) Ping(ctx context.Context) error {
	_, err := a.client.GetReferenceGasPrice(ctx)
	return err
}

func toGasCost(g sui.GasCostSummary) domain.GasCost {
	return domain.GasCost{
		Computation: parseBig(g.ComputationCost),
		Storage:     parseBig(g.StorageCost),
		Rebate:      parseBig(g.StorageRebate),
	}
}

func parseBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}
