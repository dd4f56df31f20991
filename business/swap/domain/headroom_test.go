package domain_test

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/sui-swap-bot/business/swap/domain"
	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/asset"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestResolveAmount_Explicit(t *testing.T) {
	bal := asset.NewAmount(asset.SUI, big.NewInt(50_000_000_000))

	got, err := domain.ResolveAmount(bal, dec("45"), domain.PercentHeadroom(10))
	require.NoError(t, err)
	assert.Equal(t, "45000000000", got.Raw().String())
	assert.Equal(t, asset.SUI, got.Asset())

	_, err = domain.ResolveAmount(bal, dec("50.000000001"), domain.PercentHeadroom(10))
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientBalance))

	usdc := asset.NewAmount(asset.USDC, big.NewInt(2_000_000))
	got, err = domain.ResolveAmount(usdc, dec("1.5"), domain.AbsoluteHeadroom(10000))
	require.NoError(t, err)
	assert.Equal(t, int64(1_500_000), got.Raw().Int64())

	_, err = domain.ResolveAmount(usdc, dec("1.0000001"), domain.AbsoluteHeadroom(10000))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
}

func TestResolveAmount_AllAvailable(t *testing.T) {
	tests := []struct {
		name     string
		balance  int64
		source   *asset.Asset
		headroom domain.Headroom
		want     int64
		code     string
	}{
		{"sui keeps ten percent", 1_000_000_007, asset.SUI, domain.PercentHeadroom(10), 900_000_006, ""},
		{"usdc keeps 0.01", 5_000_000, asset.USDC, domain.AbsoluteHeadroom(10000), 4_990_000, ""},
		{"usdc at reserve", 10000, asset.USDC, domain.AbsoluteHeadroom(10000), 0, string(apperror.CodeZeroAmount)},
		{"usdc under reserve", 9999, asset.USDC, domain.AbsoluteHeadroom(10000), 0, string(apperror.CodeZeroAmount)},
		{"wal keeps 100000", 100_001, asset.WAL, domain.AbsoluteHeadroom(100000), 1, ""},
		{"unknown keeps one percent", 1000, asset.NewAsset(asset.MustParseCoinType("0xabc::x::X"), "X", 9), domain.DefaultHeadroom, 990, ""},
		{"empty sui", 0, asset.SUI, domain.PercentHeadroom(10), 0, string(apperror.CodeZeroAmount)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bal := asset.NewAmount(tt.source, big.NewInt(tt.balance))
			got, err := domain.ResolveAmount(bal, nil, tt.headroom)
			if tt.code != "" {
				require.Error(t, err)
				assert.Equal(t, tt.code, string(apperror.GetCode(err)))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Raw().Int64())
		})
	}
}

func TestParsePlanEntry(t *testing.T) {
	e, err := domain.ParsePlanEntry("SUI_USDC", "45", false)
	require.NoError(t, err)
	assert.False(t, e.All())
	assert.Equal(t, "SUI_USDC 45", e.String())

	e, err = domain.ParsePlanEntry("USDC_SUI", "all", true)
	require.NoError(t, err)
	assert.True(t, e.All())
	assert.Equal(t, "USDC_SUI all (reverse)", e.String())

	for _, bad := range [][2]string{{"", "1"}, {"SUI_USDC", "abc"}, {"SUI_USDC", "-1"}, {"SUI_USDC", "0"}} {
		_, err := domain.ParsePlanEntry(bad[0], bad[1], false)
		assert.Error(t, err, bad)
	}
}

func TestDefaultPlan_ValidatesAgainstRegistry(t *testing.T) {
	r := testRegistry(t)
	plan := domain.DefaultPlan()
	require.Len(t, plan, 6)
	require.NoError(t, plan.Validate(r))

	bad := append(domain.Plan{}, domain.PlanEntry{Pool: "SUI_DOGE"})
	assert.Error(t, bad.Validate(r))

	tooPrecise := domain.Plan{{Pool: "USDC_SUI", Amount: dec("1.0000001")}}
	assert.ErrorIs(t, tooPrecise.Validate(r), asset.ErrTooManyDecimals)
	assert.Error(t, domain.Plan{}.Validate(r))
}
