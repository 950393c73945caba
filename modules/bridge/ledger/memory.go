package ledger

import (
	"context"
	"math"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gagliardetto/solana-go"
)

var _ Service = (*Memory)(nil)

// Memory is an in-process ledger, for local networks and tests.
type Memory struct {
	mu       sync.RWMutex
	balances map[solana.PublicKey]uint64
	supply   uint64
}

func NewMemory() *Memory {
	return &Memory{
		balances: make(map[solana.PublicKey]uint64),
	}
}

// NewMemoryFromConfig creates a memory ledger seeded with the configured balances.
func NewMemoryFromConfig(balances []Balance) (*Memory, error) {
	m := NewMemory()
	for _, b := range balances {
		owner, err := solana.PublicKeyFromBase58(b.Owner)
		if err != nil {
			return nil, errors.Wrapf(errs.InvalidArgument, "invalid ledger balance owner %q: %v", b.Owner, err)
		}
		if err := m.Mint(context.Background(), b.Amount, owner); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	return m, nil
}

func (m *Memory) Mint(ctx context.Context, amount uint64, recipient solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.supply > math.MaxUint64-amount {
		return errors.Wrap(errs.OverflowUint64, "supply overflow")
	}
	m.balances[recipient] += amount
	m.supply += amount
	return nil
}

func (m *Memory) Burn(ctx context.Context, amount uint64, owner solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance := m.balances[owner]
	if balance < amount {
		return errors.Wrapf(ErrInsufficientBalance, "owner %s has %d, burning %d", owner, balance, amount)
	}
	m.balances[owner] = balance - amount
	m.supply -= amount
	return nil
}

func (m *Memory) BalanceOf(owner solana.PublicKey) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[owner]
}

func (m *Memory) Supply() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.supply
}
