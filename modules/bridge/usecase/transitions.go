package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/modules/bridge/engine"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gagliardetto/solana-go"
)

func (u *Usecase) Initialize(ctx context.Context, params engine.InitializeParams) (*entity.BridgeState, error) {
	state, err := u.engine.Initialize(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize bridge")
	}
	return state, nil
}

func (u *Usecase) MintWrapped(ctx context.Context, params engine.MintParams) (*entity.ProcessedTransaction, error) {
	processed, err := u.engine.MintWrapped(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "failed to mint wrapped tokens")
	}
	u.processedCache.Add(processed.EthereumTxHash, *processed)
	return processed, nil
}

func (u *Usecase) BurnWrapped(ctx context.Context, params engine.BurnParams) (*entity.BurnTransaction, error) {
	burn, err := u.engine.BurnWrapped(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "failed to burn wrapped tokens")
	}
	return burn, nil
}

func (u *Usecase) PauseBridge(ctx context.Context, caller solana.PublicKey) (*entity.BridgeState, error) {
	state, err := u.engine.PauseBridge(ctx, caller)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pause bridge")
	}
	return state, nil
}

func (u *Usecase) UnpauseBridge(ctx context.Context, caller solana.PublicKey) (*entity.BridgeState, error) {
	state, err := u.engine.UnpauseBridge(ctx, caller)
	if err != nil {
		return nil, errors.Wrap(err, "failed to unpause bridge")
	}
	return state, nil
}

func (u *Usecase) UpdateRequiredValidators(ctx context.Context, caller solana.PublicKey, requiredValidators uint8) (*entity.BridgeState, error) {
	state, err := u.engine.UpdateRequiredValidators(ctx, caller, requiredValidators)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update required validators")
	}
	return state, nil
}
