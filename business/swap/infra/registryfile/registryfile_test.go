package registryfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/asset"
	"github.com/fd1az/sui-swap-bot/internal/sui"
)

func TestLoad_Default(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)

	assert.Len(t, r.Pools(), 4)
	assert.Equal(t, uint64(499761252), r.Protocol().Version.InitialSharedVersion)
	assert.Equal(t, sui.ClockObjectID, r.Protocol().Clock.ID)

	pool, err := r.Pool("WAL_SUI")
	require.NoError(t, err)
	assert.Equal(t, "WAL", pool.TokenA.Symbol())
	assert.Equal(t, uint64(510300130), pool.InitialSharedVersion)

	assert.Equal(t, uint8(8), r.Decimals(asset.WALCoinType))
	assert.Equal(t, int64(10), r.Headroom("SUI").Percent)
	assert.Equal(t, "10000", r.Headroom("USDT").Absolute.String())
	assert.Equal(t, "100000", r.Headroom("STSUI").Absolute.String())
}

func TestLoad_File(t *testing.T) {
	doc := strings.Replace(string(Default()), "name: SUI_USDC", "name: MAIN", 1)
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	r, err := Load(path)
	require.NoError(t, err)

	byName, err := r.Pool("main")
	require.NoError(t, err)
	byPair, err := r.Pool("USDC_SUI")
	require.NoError(t, err)
	assert.Same(t, byName, byPair)
}

func TestParse_Invalid(t *testing.T) {
	base := string(Default())
	tests := map[string]string{
		"not yaml":       "pools: [",
		"unknown token":  strings.Replace(base, "token_b: USDC\n", "token_b: DOGE\n", 1),
		"bad object id":  strings.Replace(base, "0x455cf8d2", "0xzz5cf8d2", 1),
		"bad limit":      strings.Replace(base, `forward_limit: "4295048017"`, `forward_limit: "abc"`, 1),
		"bad package":    strings.Replace(base, `trade_package: "0x7028`, `trade_package: "0xq028`, 1),
		"both headrooms": strings.Replace(base, "percent: 10\n", "percent: 10\n      absolute: \"5\"\n", 1),
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.Equal(t, apperror.CodeInvalidRegistry, apperror.GetCode(err))
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, apperror.CodeInvalidRegistry, apperror.GetCode(err))
}
