package engine

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gaze-network/bridge-network/pkg/logger"
	"github.com/gaze-network/bridge-network/pkg/logger/slogx"
	"github.com/gagliardetto/solana-go"
)

type BurnParams struct {
	Amount            uint64
	EthereumRecipient ethcommon.Address
	// Owner is the caller whose wrapped tokens are burned.
	Owner solana.PublicKey
}

// BurnWrapped burns amount from owner and records an exit intent for the relayer.
// The record carries the nonce observed before the increment.
func (e *Engine) BurnWrapped(ctx context.Context, params BurnParams) (_ *entity.BurnTransaction, err error) {
	defer func() { observeTransition(transitionBurn, err) }()

	ctx = logger.WithContext(ctx,
		slogx.Stringer("owner", params.Owner),
		slogx.Uint64("amount", params.Amount),
		slogx.Stringer("ethereum_recipient", params.EthereumRecipient),
	)

	tx, rollback, err := e.begin(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rollback()

	state, err := lockState(ctx, tx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if state.Paused {
		return nil, errors.WithStack(ErrBridgePaused)
	}
	if !e.limits.Allows(params.Amount) {
		return nil, errors.Wrapf(ErrInvalidAmount, "amount %d", params.Amount)
	}
	if params.EthereumRecipient == common.ZeroAddress {
		return nil, errors.Wrap(ErrInvalidSourceAddress, "ethereum recipient is zero")
	}

	totalBurned, err := addUint64(state.TotalBurned, params.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "total burned")
	}
	nextNonce, err := addUint64(state.Nonce, 1)
	if err != nil {
		return nil, errors.Wrap(err, "nonce")
	}

	burn := entity.BurnTransaction{
		User:              params.Owner,
		Amount:            params.Amount,
		EthereumRecipient: params.EthereumRecipient,
		Timestamp:         e.timestamp(),
		Nonce:             state.Nonce,
	}
	created, err := tx.CreateBurnTransaction(ctx, burn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create burn transaction")
	}
	if !created {
		// nonce allocation is serialized, an existing key means the stored state is inconsistent
		return nil, errors.Wrapf(errs.Conflict, "burn record for nonce %d already exists", burn.Nonce)
	}

	state.TotalBurned = totalBurned
	state.Nonce = nextNonce
	if err := tx.UpdateBridgeState(ctx, *state); err != nil {
		return nil, errors.Wrap(err, "failed to update bridge state")
	}

	if err := e.ledger.Burn(ctx, params.Amount, params.Owner); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to burn wrapped tokens"), ErrLedger)
	}

	if err := tx.Commit(ctx); err != nil {
		logger.CriticalContext(ctx, "wrapped tokens burned but the bridge state was not committed", slogx.Error(err))
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	burnedAmountTotal.Add(float64(params.Amount))
	logger.InfoContext(ctx, "burned wrapped tokens", slogx.Uint64("nonce", burn.Nonce))
	return &burn, nil
}
