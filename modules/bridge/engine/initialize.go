package engine

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gaze-network/bridge-network/pkg/logger"
	"github.com/gaze-network/bridge-network/pkg/logger/slogx"
	"github.com/gagliardetto/solana-go"
)

type InitializeParams struct {
	SourceBridgeAddress ethcommon.Address
	RequiredValidators  uint8
	// Authority is the caller. It becomes the only identity allowed to run admin transitions.
	Authority solana.PublicKey
}

// Initialize creates the bridge state with zero counters.
func (e *Engine) Initialize(ctx context.Context, params InitializeParams) (_ *entity.BridgeState, err error) {
	defer func() { observeTransition(transitionInitialize, err) }()

	if params.SourceBridgeAddress == common.ZeroAddress {
		return nil, errors.Wrap(ErrInvalidSourceAddress, "source bridge address is zero")
	}

	tx, rollback, err := e.begin(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rollback()

	state := entity.BridgeState{
		SourceBridgeAddress: params.SourceBridgeAddress,
		RequiredValidators:  params.RequiredValidators,
		Authority:           params.Authority,
	}
	created, err := tx.CreateBridgeState(ctx, state)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bridge state")
	}
	if !created {
		return nil, errors.WithStack(ErrAlreadyInitialized)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	if state.RequiredValidators == 0 {
		logger.WarnContext(ctx, "bridge initialized without required validators, mints need no attestation")
	}
	logger.InfoContext(ctx, "bridge initialized",
		slogx.Stringer("source_bridge_address", state.SourceBridgeAddress),
		slogx.Uint64("required_validators", uint64(state.RequiredValidators)),
		slogx.Stringer("authority", state.Authority),
	)
	return &state, nil
}
