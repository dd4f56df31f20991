package account

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/sui-swap-bot/business/account/domain"
	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/sui"
)

func TestLoadAccounts(t *testing.T) {
	kp, err := sui.KeypairFromSeed(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)
	key, err := kp.ExportPrivateKey()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	doc := fmt.Sprintf(`{"accounts": [{"suiPrivateKey": %q, "nickname": "main"}, {"suiPrivateKey": %q}]}`, key, key)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	accounts, err := LoadAccounts(path)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, kp.Address(), accounts[0].Address())
	assert.Equal(t, "main", accounts[0].Label())
	assert.Equal(t, domain.NoLabel, accounts[1].Label())
}

func TestLoadAccounts_BadKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"accounts": [{"suiPrivateKey": "not-a-key"}]}`), 0o600))

	_, err := LoadAccounts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accounts[0]")
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPrivateKey))
}
