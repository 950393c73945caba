// Package ledger holds the token ledger collaborators that move wrapped tokens
// on the destination chain.
package ledger

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gagliardetto/solana-go"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// Service mints and burns wrapped tokens. Both calls must be atomic,
// a returned error means the balance did not change.
type Service interface {
	Mint(ctx context.Context, amount uint64, recipient solana.PublicKey) error
	Burn(ctx context.Context, amount uint64, owner solana.PublicKey) error
}

type Type string

const (
	TypeMemory Type = "memory"
	TypeHTTP   Type = "http"
)

type Config struct {
	Type    Type       `mapstructure:"type"` // memory or http, default is memory
	HTTP    HTTPConfig `mapstructure:"http"`
	Balance []Balance  `mapstructure:"balance"` // initial balances of the memory ledger
}

type Balance struct {
	Owner  string `mapstructure:"owner"`
	Amount uint64 `mapstructure:"amount"`
}
