package domain_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/sui-swap-bot/business/swap/domain"
	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/asset"
	"github.com/fd1az/sui-swap-bot/internal/sui"
)

func limit(s string) *big.Int {
	v, _ := new(big.Int).SetString(s, 10)
	return v
}

func testPools() []*domain.Pool {
	mk := func(name, id string, version uint64, a, b *asset.Asset) *domain.Pool {
		return &domain.Pool{
			Name:                 name,
			ObjectID:             sui.MustParseAddress(id),
			InitialSharedVersion: version,
			TokenA:               a,
			TokenB:               b,
			ForwardLimit:         limit("4295048017"),
			ReverseLimit:         limit("79226673515401279992447579050"),
		}
	}
	return []*domain.Pool{
		mk("SUI_USDC", "0x455cf8d2ac91e7cb883f515874af750ed3cd18195c970b7a2d46235ac2b0c388", 499761256, asset.SUI, asset.USDC),
		mk("USDT_USDC", "0x8a86062a0193c48b9d7c42e5d522ed1b30ba1010c72e0cd0dad1525036775c8b", 499761263, asset.USDT, asset.USDC),
		mk("SUI_WAL", "0x919a34b9df1d7a56fa078ae6ddc6bd203e284974704d85721062d38ee3a6701a", 510300130, asset.WAL, asset.SUI),
		mk("SUI_STSUI", "0x047a654b8f1c4f3051d7c889509ed095fca5c95c4423601ae8b4a98fc9bf454a", 501913706, asset.STSUI, asset.SUI),
	}
}

func testRegistry(t *testing.T) *domain.Registry {
	t.Helper()
	r, err := domain.NewRegistry(domain.Protocol{}, asset.DefaultRegistry(), testPools(), map[string]domain.Headroom{
		"SUI":   domain.PercentHeadroom(10),
		"USDC":  domain.AbsoluteHeadroom(10000),
		"USDT":  domain.AbsoluteHeadroom(10000),
		"WAL":   domain.AbsoluteHeadroom(100000),
		"STSUI": domain.AbsoluteHeadroom(100000),
	})
	require.NoError(t, err)
	return r
}

func TestRegistry_PoolBothOrders(t *testing.T) {
	r := testRegistry(t)

	for _, pair := range [][2]string{
		{"SUI_USDC", "USDC_SUI"},
		{"SUI_WAL", "wal_sui"},
		{"STSUI_SUI", "SUI_STSUI"},
		{"USDT_USDC", "USDC_USDT"},
	} {
		a, err := r.Pool(pair[0])
		require.NoError(t, err)
		b, err := r.Pool(pair[1])
		require.NoError(t, err)
		assert.Same(t, a, b, "%s vs %s", pair[0], pair[1])
	}

	_, err := r.Pool("SUI_DOGE")
	assert.True(t, apperror.HasCode(err, apperror.CodePoolNotFound))
}

func TestRegistry_RouteIsNameRelative(t *testing.T) {
	r := testRegistry(t)

	tests := []struct {
		name    string
		reverse bool
		source  *asset.Asset
		target  *asset.Asset
		a2b     bool
	}{
		{"SUI_USDC", false, asset.SUI, asset.USDC, true},
		{"USDC_SUI", false, asset.USDC, asset.SUI, false},
		{"SUI_USDC", true, asset.USDC, asset.SUI, false},
		{"SUI_WAL", false, asset.SUI, asset.WAL, false},
		{"WAL_SUI", false, asset.WAL, asset.SUI, true},
		{"SUI_STSUI", false, asset.SUI, asset.STSUI, false},
		{"STSUI_SUI", false, asset.STSUI, asset.SUI, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, err := r.Route(tt.name, tt.reverse)
			require.NoError(t, err)
			assert.Equal(t, tt.source, route.Source())
			assert.Equal(t, tt.target, route.Target())
			assert.Equal(t, tt.a2b, route.A2B)
		})
	}
}

func TestRegistry_SwapAndLimits(t *testing.T) {
	r := testRegistry(t)

	route, err := r.Swap("WAL", "SUI")
	require.NoError(t, err)
	assert.True(t, route.A2B)
	assert.Equal(t, "4295048017", route.SqrtLimit().String())

	route, err = r.Swap("SUI", "WAL")
	require.NoError(t, err)
	assert.Equal(t, "79226673515401279992447579050", route.SqrtLimit().String())
	assert.Equal(t, "SUI→WAL", route.String())
}

func TestPool_RouteIsPoolRelative(t *testing.T) {
	pool := testPools()[2] // WAL/SUI on chain
	assert.Equal(t, asset.WAL, pool.Route(false).Source())
	assert.Equal(t, asset.SUI, pool.Route(true).Source())
}

func TestRegistry_DecimalsAndHeadroom(t *testing.T) {
	r := testRegistry(t)

	assert.Equal(t, uint8(8), r.Decimals(asset.WALCoinType))
	assert.Equal(t, uint8(6), r.Decimals(asset.USDTCoinType))
	assert.Equal(t, uint8(9), r.Decimals(asset.MustParseCoinType("0xabc::x::X")))
	assert.Equal(t, domain.DefaultHeadroom, r.Headroom("DOGE"))
}

func TestNewRegistry_Rejects(t *testing.T) {
	pools := testPools()
	pools[1].TokenB = pools[1].TokenA
	_, err := domain.NewRegistry(domain.Protocol{}, asset.DefaultRegistry(), pools, nil)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidRegistry))

	dup := testPools()
	again := *dup[0]
	dup = append(dup, &again)
	_, err = domain.NewRegistry(domain.Protocol{}, asset.DefaultRegistry(), dup, nil)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidRegistry))
}
