package app

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	ledgerDomain "github.com/fd1az/sui-swap-bot/business/ledger/domain"
	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/asset"
	"github.com/fd1az/sui-swap-bot/internal/sui"
)

// DefaultClaimPool is the pool whose position rewards are claimed.
const DefaultClaimPool = "SUI_USDC"

// ClaimResult is a confirmed claim of position rewards and fees.
type ClaimResult struct {
	Pool     string
	Position sui.Address
	Digest   string
	Changes  []ledgerDomain.BalanceChange
}

// Claimer collects the pending yield of an account's liquidity position.
type Claimer struct {
	executor *Executor
	pool     string
}

// NewClaimer creates a Claimer for pool, or DefaultClaimPool when empty.
func NewClaimer(executor *Executor, pool string) *Claimer {
	if pool == "" {
		pool = DefaultClaimPool
	}
	return &Claimer{executor: executor, pool: pool}
}

// Claim collects both reward tokens and the trading fees of the account's
// first position NFT.
func (c *Claimer) Claim(ctx context.Context, acct Account) (*ClaimResult, error) {
	e := c.executor
	ctx, span := e.tracer.Start(ctx, "swap.Claim", trace.WithAttributes(
		attribute.String("account", acct.Address().String()),
		attribute.String("pool", c.pool),
	))
	defer span.End()

	res, err := c.claim(ctx, acct)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return res, nil
}

func (c *Claimer) claim(ctx context.Context, acct Account) (*ClaimResult, error) {
	e := c.executor
	owner := acct.Address()
	protocol := e.registry.Protocol()

	pool, err := e.registry.Pool(c.pool)
	if err != nil {
		return nil, err
	}

	structType := protocol.TradePackage.String() + "::" + positionType
	position, err := e.balances.FirstOwnedObject(ctx, owner, structType)
	if err != nil {
		if apperror.HasCode(err, apperror.CodeNotFound) {
			return nil, apperror.New(apperror.CodePositionNotFound, apperror.WithContext(owner.String()))
		}
		return nil, err
	}

	gasCoins, err := e.balances.ListFundObjects(ctx, owner, asset.SUICoinType)
	if err != nil {
		return nil, err
	}
	gasCoins = limitGasCoins(gasCoins)

	e.logger.Info(ctx, "claiming position yield",
		"account", owner.String(),
		"pool", pool.Name,
		"position", position.Ref.ObjectID.String(),
	)

	tx, err := e.submit(ctx, acct, gasCoins, ledgerDomain.SumBalances(gasCoins), func(b *sui.Builder) error {
		buildClaim(b, protocol, pool, position.Ref, owner)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info(ctx, "yield claimed", "account", owner.String(), "digest", tx.result.Digest)
	return &ClaimResult{
		Pool:     pool.Name,
		Position: position.Ref.ObjectID,
		Digest:   tx.result.Digest,
		Changes:  tx.result.ChangesFor(owner.String()),
	}, nil
}
