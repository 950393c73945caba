package engine

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gaze-network/bridge-network/pkg/logger"
	"github.com/gaze-network/bridge-network/pkg/logger/slogx"
	"github.com/gagliardetto/solana-go"
)

func (e *Engine) PauseBridge(ctx context.Context, caller solana.PublicKey) (_ *entity.BridgeState, err error) {
	defer func() { observeTransition(transitionPause, err) }()
	return e.updateByAuthority(ctx, caller, func(state *entity.BridgeState) {
		state.Paused = true
	})
}

func (e *Engine) UnpauseBridge(ctx context.Context, caller solana.PublicKey) (_ *entity.BridgeState, err error) {
	defer func() { observeTransition(transitionUnpause, err) }()
	return e.updateByAuthority(ctx, caller, func(state *entity.BridgeState) {
		state.Paused = false
	})
}

// UpdateRequiredValidators accepts any value. Zero disables the quorum check.
func (e *Engine) UpdateRequiredValidators(ctx context.Context, caller solana.PublicKey, requiredValidators uint8) (_ *entity.BridgeState, err error) {
	defer func() { observeTransition(transitionUpdateRequiredValidators, err) }()
	state, err := e.updateByAuthority(ctx, caller, func(state *entity.BridgeState) {
		state.RequiredValidators = requiredValidators
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if requiredValidators == 0 {
		logger.WarnContext(ctx, "required validators set to zero, mints need no attestation", slogx.Stringer("authority", caller))
	}
	if int(requiredValidators) > e.validators.Len() {
		logger.WarnContext(ctx, "required validators exceeds the known validator set, mints cannot reach quorum",
			slogx.Uint64("required_validators", uint64(requiredValidators)),
			slogx.Int("validators", e.validators.Len()),
		)
	}
	return state, nil
}

func (e *Engine) updateByAuthority(ctx context.Context, caller solana.PublicKey, update func(state *entity.BridgeState)) (*entity.BridgeState, error) {
	tx, rollback, err := e.begin(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rollback()

	state, err := lockState(ctx, tx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !caller.Equals(state.Authority) {
		logger.WarnContext(ctx, "rejected admin call from non-authority", slogx.Stringer("caller", caller))
		return nil, errors.WithStack(ErrUnauthorized)
	}

	update(state)
	if err := tx.UpdateBridgeState(ctx, *state); err != nil {
		return nil, errors.Wrap(err, "failed to update bridge state")
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	logger.InfoContext(ctx, "bridge state updated by authority",
		slogx.Bool("paused", state.Paused),
		slogx.Uint64("required_validators", uint64(state.RequiredValidators)),
	)
	return state, nil
}
