package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/modules/bridge/engine"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gaze-network/bridge-network/pkg/logger"
	"github.com/gaze-network/bridge-network/pkg/logger/slogx"
	"github.com/gagliardetto/solana-go"
)

// MarkBurnProcessedOnEthereum records that a burn has been released on the source chain.
// Only the authority and the configured relayers may call it. Repeated calls succeed without changes.
func (u *Usecase) MarkBurnProcessedOnEthereum(ctx context.Context, owner solana.PublicKey, nonce uint64, caller solana.PublicKey) (*entity.BurnTransaction, error) {
	if _, ok := u.relayers[caller]; !ok {
		state, err := u.GetBridgeState(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if !caller.Equals(state.Authority) {
			return nil, errors.WithStack(engine.ErrUnauthorized)
		}
	}

	updated, err := u.bridgeDg.SetBurnTransactionProcessedOnEthereum(ctx, owner, nonce)
	if err != nil {
		return nil, errors.Wrap(err, "failed to settle burn transaction")
	}
	burn, err := u.bridgeDg.GetBurnTransaction(ctx, owner, nonce)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get burn transaction")
	}
	if updated {
		logger.InfoContext(ctx, "burn settled on ethereum",
			slogx.Stringer("owner", owner),
			slogx.Uint64("nonce", nonce),
			slogx.Stringer("caller", caller),
		)
	}
	return burn, nil
}
