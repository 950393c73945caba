package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/modules/bridge/datagateway"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gagliardetto/solana-go"
)

const (
	DefaultBurnPageSize = 100
	MaxBurnPageSize     = 1000
)

func (u *Usecase) GetBurnTransaction(ctx context.Context, owner solana.PublicKey, nonce uint64) (*entity.BurnTransaction, error) {
	burn, err := u.bridgeDg.GetBurnTransaction(ctx, owner, nonce)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get burn transaction")
	}
	return burn, nil
}

func (u *Usecase) GetBurnTransactions(ctx context.Context, params datagateway.GetBurnTransactionsParams) ([]*entity.BurnTransaction, error) {
	if params.Limit <= 0 {
		params.Limit = DefaultBurnPageSize
	}
	if params.Limit > MaxBurnPageSize {
		params.Limit = MaxBurnPageSize
	}
	burns, err := u.bridgeDg.GetBurnTransactions(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get burn transactions")
	}
	return burns, nil
}
