package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// AccountEntry is one account from the accounts file.
type AccountEntry struct {
	PrivateKey string `mapstructure:"suiPrivateKey"`
	Nickname   string `mapstructure:"nickname"`
}

type accountsFile struct {
	Accounts []AccountEntry `mapstructure:"accounts"`
}

// LoadAccounts reads the accounts JSON file:
//
//	{"accounts": [{"suiPrivateKey": "suiprivkey1...", "nickname": "main"}]}
//
// A missing or malformed file is an error, as is an entry without a key.
func LoadAccounts(path string) ([]AccountEntry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read accounts file %s: %w", path, err)
	}

	var f accountsFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal accounts file %s: %w", path, err)
	}
	if len(f.Accounts) == 0 {
		return nil, fmt.Errorf("accounts file %s lists no accounts", path)
	}
	for i, a := range f.Accounts {
		if strings.TrimSpace(a.PrivateKey) == "" {
			return nil, fmt.Errorf("accounts[%d]: suiPrivateKey is required", i)
		}
	}
	return f.Accounts, nil
}
