// Package domain contains the core domain types for the account context.
package domain

import (
	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/sui"
)

// NoLabel is shown for accounts without a nickname.
const NoLabel = "Not set"

// Account is a configured signing identity.
type Account struct {
	keypair  *sui.Keypair
	nickname string
}

// New creates an account from a decoded keypair.
func New(kp *sui.Keypair, nickname string) *Account {
	return &Account{keypair: kp, nickname: nickname}
}

// Parse decodes privateKey (bech32, hex or base64) into an account.
func Parse(privateKey, nickname string) (*Account, error) {
	kp, err := sui.ParsePrivateKey(privateKey)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidPrivateKey, apperror.WithCause(err))
	}
	return New(kp, nickname), nil
}

// Address is derived from the public key.
func (a *Account) Address() sui.Address {
	return a.keypair.Address()
}

// Nickname is the raw configured nickname, possibly empty.
func (a *Account) Nickname() string {
	return a.nickname
}

// Label is the nickname, or NoLabel.
func (a *Account) Label() string {
	if a.nickname == "" {
		return NoLabel
	}
	return a.nickname
}

// SignTransaction signs txBytes with the account key.
func (a *Account) SignTransaction(txBytes []byte) (string, error) {
	return a.keypair.SignTransaction(txBytes)
}
