package engine

import (
	"context"

	"github.com/gaze-network/bridge-network/modules/bridge/ledger"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"
)

var _ ledger.Service = (*ledgerMock)(nil)

type ledgerMock struct {
	mock.Mock
}

func (m *ledgerMock) Mint(ctx context.Context, amount uint64, recipient solana.PublicKey) error {
	args := m.Called(ctx, amount, recipient)
	return args.Error(0)
}

func (m *ledgerMock) Burn(ctx context.Context, amount uint64, owner solana.PublicKey) error {
	args := m.Called(ctx, amount, owner)
	return args.Error(0)
}
