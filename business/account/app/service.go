package app

import (
	"context"
	"time"
	_ "time/tzdata" // Asia/Shanghai on hosts without a zoneinfo database

	"github.com/fd1az/sui-swap-bot/business/account/domain"
	ledgerApp "github.com/fd1az/sui-swap-bot/business/ledger/app"
	ledgerDomain "github.com/fd1az/sui-swap-bot/business/ledger/domain"
	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/asset"
	"github.com/fd1az/sui-swap-bot/internal/logger"
)

const (
	// TimeLayout formats the last-swap time.
	TimeLayout = "2006-01-02 15:04:05"

	displayZone = "Asia/Shanghai"
)

// Service builds the reporting view of the configured accounts.
type Service struct {
	accounts []*domain.Account
	balances *ledgerApp.BalanceService
	swapCall ledgerDomain.MoveFunction
	assets   []*asset.Asset
	volume   VolumeSource
	location *time.Location
	logger   logger.LoggerInterface
}

// NewService creates a new Service. Transactions calling swapCall count as
// swaps. volume may be nil.
func NewService(
	accounts []*domain.Account,
	balances *ledgerApp.BalanceService,
	swapCall ledgerDomain.MoveFunction,
	assets []*asset.Asset,
	volume VolumeSource,
	log logger.LoggerInterface,
) *Service {
	loc, err := time.LoadLocation(displayZone)
	if err != nil {
		loc = time.FixedZone("CST", 8*60*60)
	}
	return &Service{
		accounts: accounts,
		balances: balances,
		swapCall: swapCall,
		assets:   assets,
		volume:   volume,
		location: loc,
		logger:   log,
	}
}

// Accounts returns the configured accounts in file order.
func (s *Service) Accounts() []*domain.Account {
	return s.accounts
}

// Assets returns the assets shown per account.
func (s *Service) Assets() []*asset.Asset {
	return s.assets
}

// Snapshots returns one snapshot per account. Lookup failures degrade to
// placeholders; only cancellation is returned.
func (s *Service) Snapshots(ctx context.Context, withVolume bool) ([]domain.Snapshot, error) {
	out := make([]domain.Snapshot, 0, len(s.accounts))
	for i, acct := range s.accounts {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out = append(out, s.Snapshot(ctx, i+1, acct, withVolume))
	}
	return out, nil
}

// Snapshot builds the view of one account.
func (s *Service) Snapshot(ctx context.Context, index int, acct *domain.Account, withVolume bool) domain.Snapshot {
	snap := domain.Snapshot{
		Index:    index,
		Label:    acct.Label(),
		Address:  acct.Address().String(),
		Balances: make([]domain.Balance, 0, len(s.assets)),
		LastSwap: s.LastSwapTime(ctx, acct),
	}
	for _, a := range s.assets {
		snap.Balances = append(snap.Balances, domain.Balance{
			Symbol: a.Symbol(),
			Amount: s.balance(ctx, acct, a),
		})
	}
	if withVolume {
		snap.Volume = s.Volume(ctx, acct)
	}
	return snap
}

func (s *Service) balance(ctx context.Context, acct *domain.Account, a *asset.Asset) string {
	bal, err := s.balances.GetBalance(ctx, acct.Address(), a)
	switch {
	case err == nil:
		return ledgerApp.FormatBalance(bal)
	case apperror.HasCode(err, apperror.CodeNoFunds):
		return "0"
	default:
		s.logger.Warn(ctx, "balance lookup failed",
			"account", acct.Address().String(),
			"asset", a.Symbol(),
			"error", err,
		)
		return domain.UnknownAmount
	}
}

// LastSwapTime formats the latest swap sent by acct in Asia/Shanghai time,
// or returns NoRecord.
func (s *Service) LastSwapTime(ctx context.Context, acct *domain.Account) string {
	ts, ok, err := s.balances.LastCall(ctx, acct.Address(), s.swapCall)
	if err != nil {
		s.logger.Warn(ctx, "swap history lookup failed",
			"account", acct.Address().String(),
			"error", err,
		)
		return domain.NoRecord
	}
	if !ok {
		return domain.NoRecord
	}
	return ts.In(s.location).Format(TimeLayout)
}

// Volume returns the leaderboard volume of acct, or UnknownVolume.
func (s *Service) Volume(ctx context.Context, acct *domain.Account) string {
	if s.volume == nil {
		return domain.UnknownVolume
	}
	v, err := s.volume.Volume(ctx, acct.Address())
	if err != nil || v == "" {
		if err != nil {
			s.logger.Debug(ctx, "volume lookup failed",
				"account", acct.Address().String(),
				"error", err,
			)
		}
		return domain.UnknownVolume
	}
	return v
}
