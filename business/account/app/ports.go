// Package app contains application services and port definitions for the account context.
package app

import (
	"context"

	"github.com/fd1az/sui-swap-bot/internal/sui"
)

// VolumeSource looks up the traded volume of an address.
type VolumeSource interface {
	Volume(ctx context.Context, address sui.Address) (string, error)
}
