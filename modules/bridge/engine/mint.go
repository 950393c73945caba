package engine

import (
	"context"

	"github.com/cockroachdb/errors"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gaze-network/bridge-network/modules/bridge/quorum"
	"github.com/gaze-network/bridge-network/pkg/logger"
	"github.com/gaze-network/bridge-network/pkg/logger/slogx"
	"github.com/gagliardetto/solana-go"
)

type MintParams struct {
	SourceTxHash ethcommon.Hash
	Amount       uint64
	Recipient    solana.PublicKey
	Attestations []entity.Attestation
}

// MintWrapped mints amount to recipient for a source-chain deposit attested by the validators.
// A source transaction is minted at most once.
func (e *Engine) MintWrapped(ctx context.Context, params MintParams) (_ *entity.ProcessedTransaction, err error) {
	defer func() { observeTransition(transitionMint, err) }()

	ctx = logger.WithContext(ctx,
		slogx.Stringer("source_tx_hash", params.SourceTxHash),
		slogx.Uint64("amount", params.Amount),
		slogx.Stringer("recipient", params.Recipient),
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
	processed := entity.ProcessedTransaction{
		IsProcessed:    true,
		EthereumTxHash: params.SourceTxHash,
		Amount:         params.Amount,
		Recipient:      params.Recipient,
		Timestamp:      e.timestamp(),
	}
	created, err := tx.CreateProcessedTransaction(ctx, processed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create processed transaction")
	}
	if !created {
		logger.WarnContext(ctx, "rejected replayed mint")
		return nil, errors.WithStack(ErrAlreadyProcessed)
	}
	// replays report AlreadyProcessed whatever the amount
	if !e.limits.Allows(params.Amount) {
		return nil, errors.Wrapf(ErrInvalidAmount, "amount %d", params.Amount)
	}

	tally := quorum.Count(quorum.Message{
		SourceTxHash: params.SourceTxHash,
		Amount:       params.Amount,
		Recipient:    params.Recipient,
	}, params.Attestations, e.validators)
	if tally.Valid() < int(state.RequiredValidators) {
		logger.WarnContext(ctx, "rejected mint without quorum",
			slogx.Int("valid", tally.Valid()),
			slogx.Int("duplicates", tally.Duplicates),
			slogx.Int("invalid", tally.Invalid),
			slogx.Uint64("required", uint64(state.RequiredValidators)),
		)
		return nil, errors.Wrapf(ErrInsufficientValidators, "got %d of %d", tally.Valid(), state.RequiredValidators)
	}

	totalMinted, err := addUint64(state.TotalMinted, params.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "total minted")
	}
	nonce, err := addUint64(state.Nonce, 1)
	if err != nil {
		return nil, errors.Wrap(err, "nonce")
	}
	state.TotalMinted = totalMinted
	state.Nonce = nonce
	if err := tx.UpdateBridgeState(ctx, *state); err != nil {
		return nil, errors.Wrap(err, "failed to update bridge state")
	}

	if err := e.ledger.Mint(ctx, params.Amount, params.Recipient); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to mint wrapped tokens"), ErrLedger)
	}

	if err := tx.Commit(ctx); err != nil {
		logger.CriticalContext(ctx, "wrapped tokens minted but the bridge state was not committed", slogx.Error(err))
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	mintedAmountTotal.Add(float64(params.Amount))
	logger.InfoContext(ctx, "minted wrapped tokens",
		slogx.Uint64("nonce", state.Nonce),
		slogx.Int("signers", tally.Valid()),
	)
	return &processed, nil
}
