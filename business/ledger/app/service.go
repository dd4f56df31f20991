package app

import (
	"context"
	"time"

	"github.com/fd1az/sui-swap-bot/business/ledger/domain"
	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/asset"
	"github.com/fd1az/sui-swap-bot/internal/logger"
	"github.com/fd1az/sui-swap-bot/internal/sui"
)

// maxCoinPages bounds pagination for accounts holding many coin objects.
const maxCoinPages = 20

// historyWindow is how many recent transactions are scanned for a swap.
const historyWindow = 50

// BalanceService aggregates fund objects and account history.
type BalanceService struct {
	ledger Ledger
	logger logger.LoggerInterface
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(ledger Ledger, log logger.LoggerInterface) *BalanceService {
	return &BalanceService{ledger: ledger, logger: log}
}

// Ledger returns the underlying port.
func (s *BalanceService) Ledger() Ledger {
	return s.ledger
}

// ListFundObjects returns every coin of coinType owned by owner, up to
// maxCoinPages pages. Owning none is a NO_FUNDS error.
func (s *BalanceService) ListFundObjects(ctx context.Context, owner sui.Address, coinType asset.CoinType) ([]domain.Coin, error) {
	var (
		coins  []domain.Coin
		cursor *string
	)
	for page := 0; ; page++ {
		p, err := s.ledger.Coins(ctx, owner, coinType, cursor)
		if err != nil {
			return nil, err
		}
		coins = append(coins, p.Coins...)
		if !p.HasNext || p.NextCursor == nil {
			break
		}
		if page+1 == maxCoinPages {
			s.logger.Warn(ctx, "coin listing truncated, balance is partial",
				"owner", owner.String(),
				"coin_type", coinType.String(),
				"coins", len(coins),
			)
			break
		}
		cursor = p.NextCursor
	}

	if len(coins) == 0 {
		return nil, apperror.New(apperror.CodeNoFunds,
			apperror.WithContext(coinType.String()))
	}
	return coins, nil
}

// GetBalance returns the summed balance of a. NO_FUNDS propagates.
func (s *BalanceService) GetBalance(ctx context.Context, owner sui.Address, a *asset.Asset) (asset.Amount, error) {
	coins, err := s.ListFundObjects(ctx, owner, a.CoinType())
	if err != nil {
		return asset.Amount{}, err
	}
	return asset.NewAmount(a, domain.SumBalances(coins)), nil
}

// FormatBalance renders an amount in display units without its symbol.
func FormatBalance(amount asset.Amount) string {
	return amount.ToDecimal().String()
}

// LastCall returns the time of the most recent transaction sent by owner that
// called fn. ok is false when none is found in the recent window.
func (s *BalanceService) LastCall(ctx context.Context, owner sui.Address, fn domain.MoveFunction) (time.Time, bool, error) {
	txs, err := s.ledger.RecentTransactions(ctx, owner, historyWindow)
	if err != nil {
		return time.Time{}, false, err
	}
	for _, tx := range txs {
		if tx.Invokes(fn) && !tx.Timestamp.IsZero() {
			return tx.Timestamp, true, nil
		}
	}
	return time.Time{}, false, nil
}

// FirstOwnedObject returns the first object of structType owned by owner.
func (s *BalanceService) FirstOwnedObject(ctx context.Context, owner sui.Address, structType string) (*domain.OwnedObject, error) {
	objs, err := s.ledger.OwnedObjects(ctx, owner, structType)
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, apperror.NotFound(apperror.CodeNotFound, structType)
	}
	return &objs[0], nil
}
