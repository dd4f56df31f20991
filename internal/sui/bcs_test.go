package sui

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/fardream/go-bcs/bcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPureValues(t *testing.T) {
	raw, err := pureU64(1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0}, raw)

	raw, err = pureBool(true)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, raw)

	raw, err = pureAddress(FrameworkAddress)
	require.NoError(t, err)
	assert.Equal(t, FrameworkAddress[:], raw)
}

func TestPureU128(t *testing.T) {
	raw, err := pureU128(big.NewInt(0x0102))
	require.NoError(t, err)
	want := make([]byte, 16)
	want[0], want[1] = 0x02, 0x01
	assert.Equal(t, want, raw)

	limit, _ := new(big.Int).SetString("79226673515401279992447579050", 10)
	raw, err = pureU128(limit)
	require.NoError(t, err)
	assert.Len(t, raw, 16)

	_, err = pureU128(new(big.Int).Lsh(big.NewInt(1), 128))
	assert.Error(t, err)
	_, err = pureU128(big.NewInt(-1))
	assert.Error(t, err)
}

func TestArgumentWire(t *testing.T) {
	tests := []struct {
		arg  Argument
		want []byte
	}{
		{GasCoin(), []byte{0}},
		{Argument{kind: argInput, index: 1}, []byte{1, 1, 0}},
		{Argument{kind: argResult, index: 0x0102}, []byte{2, 0x02, 0x01}},
		{Argument{kind: argResult, index: 3}.Nested(2), []byte{3, 3, 0, 2, 0}},
	}
	for _, tt := range tests {
		got, err := bcs.Marshal(tt.arg.wire())
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestCallArgWire_LengthPrefix(t *testing.T) {
	payload := bytes.Repeat([]byte{7}, 300)
	got, err := bcs.Marshal(callArg{Pure: &payload})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0xac, 0x02}, got[:3])
	assert.Len(t, got, 303)
}
