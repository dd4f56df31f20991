package app

import (
	"context"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	ledgerApp "github.com/fd1az/sui-swap-bot/business/ledger/app"
	ledgerDomain "github.com/fd1az/sui-swap-bot/business/ledger/domain"
	"github.com/fd1az/sui-swap-bot/business/swap/domain"
	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/asset"
	"github.com/fd1az/sui-swap-bot/internal/logger"
	"github.com/fd1az/sui-swap-bot/internal/sui"
)

// maxGasCoins is the protocol limit on gas payment objects.
const maxGasCoins = 256

// ExecutorConfig holds gas settings for submitted transactions.
type ExecutorConfig struct {
	DryRunBudget  uint64  // budget of the estimating dry run, in MIST
	MaxGasBudget  uint64  // ceiling of the final budget, in MIST
	GasMultiplier float64 // headroom applied to the dry-run cost
}

// DefaultExecutorConfig returns sensible defaults.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		DryRunBudget:  50_000_000,
		MaxGasBudget:  200_000_000,
		GasMultiplier: 1.2,
	}
}

// SwapResult is a confirmed swap.
type SwapResult struct {
	Route     domain.Route
	Amount    *big.Int // base units of the source asset put in
	Digest    string
	GasBudget uint64
	Gas       ledgerDomain.GasCost
	Spent     *big.Int // absolute source balance change, gas included for SUI
	Received  *big.Int // absolute target balance change
}

// AmountText renders Amount in display units of the source asset.
func (r *SwapResult) AmountText() string {
	return asset.FormatUnits(r.Amount, r.Route.Source().Decimals())
}

// Executor builds, estimates, signs and submits flash swaps.
type Executor struct {
	registry *domain.Registry
	balances *ledgerApp.BalanceService
	ledger   ledgerApp.Ledger
	config   ExecutorConfig
	logger   logger.LoggerInterface

	tracer  trace.Tracer
	metrics *swapMetrics
}

// NewExecutor creates a new Executor.
func NewExecutor(
	registry *domain.Registry,
	balances *ledgerApp.BalanceService,
	config ExecutorConfig,
	log logger.LoggerInterface,
) (*Executor, error) {
	if config.GasMultiplier < 1 {
		config.GasMultiplier = 1
	}
	if config.DryRunBudget == 0 {
		config.DryRunBudget = DefaultExecutorConfig().DryRunBudget
	}
	if config.MaxGasBudget == 0 {
		config.MaxGasBudget = DefaultExecutorConfig().MaxGasBudget
	}

	m, err := newSwapMetrics()
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return &Executor{
		registry: registry,
		balances: balances,
		ledger:   balances.Ledger(),
		config:   config,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
		metrics:  m,
	}, nil
}

// Execute swaps requested units of route's source asset, or all available
// balance minus headroom when requested is nil. Balance errors are returned
// before anything is built or simulated.
func (e *Executor) Execute(ctx context.Context, acct Account, route domain.Route, requested *decimal.Decimal) (*SwapResult, error) {
	ctx, span := e.tracer.Start(ctx, "swap.Execute", trace.WithAttributes(
		attribute.String("route", route.String()),
		attribute.String("pool", route.Pool.Name),
		attribute.Bool("a2b", route.A2B),
	))
	defer span.End()

	res, err := e.execute(ctx, acct, route, requested)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("digest", res.Digest))
	span.SetStatus(codes.Ok, "")
	return res, nil
}

func (e *Executor) execute(ctx context.Context, acct Account, route domain.Route, requested *decimal.Decimal) (*SwapResult, error) {
	owner := acct.Address()
	source := route.Source()

	coins, err := e.balances.ListFundObjects(ctx, owner, source.CoinType())
	if err != nil {
		return nil, err
	}
	// A gas-source swap splits from the merged gas coin, so only the coins
	// that fit in the payment count as balance.
	if source.IsGas() {
		coins = limitGasCoins(coins)
	}
	balance := asset.NewAmount(source, ledgerDomain.SumBalances(coins))

	amount, err := domain.ResolveAmount(balance, requested, e.registry.Headroom(source.Symbol()))
	if err != nil {
		return nil, err
	}

	gasCoins := coins
	if !source.IsGas() {
		if gasCoins, err = e.balances.ListFundObjects(ctx, owner, asset.SUICoinType); err != nil {
			return nil, err
		}
		gasCoins = limitGasCoins(gasCoins)
	}

	spare := ledgerDomain.SumBalances(gasCoins)
	if source.IsGas() {
		spare.Sub(spare, amount.Raw())
	}

	e.logger.Info(ctx, "executing swap",
		"account", owner.String(),
		"route", route.String(),
		"pool", route.Pool.Name,
		"amount", amount.ToDecimal().String(),
		"balance", balance.ToDecimal().String(),
	)

	protocol := e.registry.Protocol()
	tx, err := e.submit(ctx, acct, gasCoins, spare, func(b *sui.Builder) error {
		return buildFlashSwap(b, protocol, route, coins, amount.Raw(), owner)
	})
	if err != nil {
		return nil, err
	}

	res := &SwapResult{
		Route:     route,
		Amount:    amount.Raw(),
		Digest:    tx.result.Digest,
		GasBudget: tx.budget,
		Gas:       tx.result.Gas,
		Spent:     absChange(tx.result, owner, source.CoinType()),
		Received:  absChange(tx.result, owner, route.Target().CoinType()),
	}
	e.logger.Info(ctx, "swap confirmed",
		"account", owner.String(),
		"route", route.String(),
		"digest", res.Digest,
		"spent", asset.FormatUnits(res.Spent, source.Decimals()),
		"received", asset.FormatUnits(res.Received, route.Target().Decimals()),
	)
	return res, nil
}

type submitted struct {
	result *ledgerDomain.TxResult
	budget uint64
}

// submit builds the transaction twice: once for a dry run that prices it,
// once with the final budget for signing and execution.
func (e *Executor) submit(
	ctx context.Context,
	acct Account,
	gasCoins []ledgerDomain.Coin,
	spare *big.Int,
	build func(*sui.Builder) error,
) (*submitted, error) {
	owner := acct.Address()
	if spare.Sign() <= 0 {
		return nil, apperror.New(apperror.CodeInsufficientBalance,
			apperror.WithContext("no SUI left for gas"))
	}

	price, err := e.ledger.ReferenceGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	gas := sui.GasData{
		Payment: make([]sui.ObjectRef, 0, len(gasCoins)),
		Owner:   owner,
		Price:   price,
		Budget:  capBudget(e.config.DryRunBudget, spare),
	}
	for _, c := range gasCoins {
		gas.Payment = append(gas.Payment, c.Ref)
	}

	encode := func(gas sui.GasData) ([]byte, error) {
		b := sui.NewBuilder()
		if err := build(b); err != nil {
			return nil, err
		}
		txBytes, err := b.Build(owner, gas)
		if err != nil {
			return nil, apperror.New(apperror.CodeTransactionEncoding, apperror.WithCause(err))
		}
		return txBytes, nil
	}

	txBytes, err := encode(gas)
	if err != nil {
		return nil, err
	}

	dry, err := e.ledger.DryRun(ctx, txBytes)
	if err != nil {
		return nil, err
	}
	if !dry.Success {
		return nil, apperror.New(apperror.CodeTransactionFailed,
			apperror.WithContext("dry run: "+dry.Error))
	}

	budget, err := e.gasBudget(dry.Gas)
	if err != nil {
		return nil, err
	}
	if new(big.Int).SetUint64(budget).Cmp(spare) > 0 {
		return nil, apperror.New(apperror.CodeInsufficientBalance,
			apperror.WithContext(fmt.Sprintf("gas budget %d exceeds spare SUI %s", budget, spare)))
	}
	gas.Budget = budget

	if txBytes, err = encode(gas); err != nil {
		return nil, err
	}
	sig, err := acct.SignTransaction(txBytes)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidSignature, apperror.WithCause(err))
	}

	e.metrics.attempts.Add(ctx, 1)
	e.metrics.gas.Record(ctx, int64(budget))

	res, err := e.ledger.Execute(ctx, txBytes, sig)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, apperror.New(apperror.CodeTransactionFailed,
			apperror.WithContext(res.Digest+": "+res.Error))
	}
	return &submitted{result: res, budget: budget}, nil
}

// gasBudget is the dry-run cost times the multiplier, floored at the
// computation cost and capped at the configured maximum.
func (e *Executor) gasBudget(cost ledgerDomain.GasCost) (uint64, error) {
	if cost.Computation == nil || cost.Computation.Sign() <= 0 {
		return 0, apperror.New(apperror.CodeGasEstimationFailed,
			apperror.WithContext("dry run reported no computation cost"))
	}

	budget := decimal.NewFromBigInt(cost.Net(), 0).
		Mul(decimal.NewFromFloat(e.config.GasMultiplier)).
		Ceil().
		BigInt()
	if budget.Cmp(cost.Computation) < 0 {
		budget = new(big.Int).Set(cost.Computation)
	}

	limit := new(big.Int).SetUint64(e.config.MaxGasBudget)
	if budget.Cmp(limit) > 0 {
		budget = limit
	}
	return budget.Uint64(), nil
}

func capBudget(budget uint64, spare *big.Int) uint64 {
	if spare.IsUint64() && spare.Uint64() < budget {
		return spare.Uint64()
	}
	return budget
}

func limitGasCoins(coins []ledgerDomain.Coin) []ledgerDomain.Coin {
	if len(coins) > maxGasCoins {
		return coins[:maxGasCoins]
	}
	return coins
}

func absChange(res *ledgerDomain.TxResult, owner sui.Address, coinType asset.CoinType) *big.Int {
	total := new(big.Int)
	for _, c := range res.ChangesFor(owner.String()) {
		if c.CoinType == coinType && c.Amount != nil {
			total.Add(total, c.Amount)
		}
	}
	return total.Abs(total)
}

var _ SwapExecutor = (*Executor)(nil)
