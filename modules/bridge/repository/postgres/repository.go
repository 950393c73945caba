package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/internal/postgres"
	"github.com/gaze-network/bridge-network/modules/bridge/datagateway"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gaze-network/bridge-network/modules/bridge/repository/postgres/gen"
	"github.com/gagliardetto/solana-go"
	"github.com/jackc/pgx/v5"
)

var _ datagateway.BridgeDataGateway = (*Repository)(nil)

type Repository struct {
	db      postgres.DB
	queries *gen.Queries
	tx      pgx.Tx
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{
		db:      db,
		queries: gen.New(db),
	}
}

func (r *Repository) GetBridgeState(ctx context.Context) (*entity.BridgeState, error) {
	model, err := r.queries.GetBridgeState(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	state, err := mapBridgeStateModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse bridge state model")
	}
	return &state, nil
}

func (r *Repository) LockBridgeState(ctx context.Context) (*entity.BridgeState, error) {
	model, err := r.queries.LockBridgeState(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	state, err := mapBridgeStateModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse bridge state model")
	}
	return &state, nil
}

func (r *Repository) CreateBridgeState(ctx context.Context, state entity.BridgeState) (bool, error) {
	affected, err := r.queries.CreateBridgeState(ctx, mapBridgeStateTypeToCreateParams(state))
	if err != nil {
		return false, errors.Wrap(err, "error during exec")
	}
	return affected > 0, nil
}

func (r *Repository) UpdateBridgeState(ctx context.Context, state entity.BridgeState) error {
	if err := r.queries.UpdateBridgeState(ctx, mapBridgeStateTypeToUpdateParams(state)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetProcessedTransaction(ctx context.Context, ethereumTxHash ethcommon.Hash) (*entity.ProcessedTransaction, error) {
	model, err := r.queries.GetProcessedTransaction(ctx, ethereumTxHash.Bytes())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	processed, err := mapProcessedTransactionModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse processed transaction model")
	}
	return &processed, nil
}

func (r *Repository) CreateProcessedTransaction(ctx context.Context, tx entity.ProcessedTransaction) (bool, error) {
	affected, err := r.queries.CreateProcessedTransaction(ctx, mapProcessedTransactionTypeToParams(tx))
	if err != nil {
		return false, errors.Wrap(err, "error during exec")
	}
	return affected > 0, nil
}

func (r *Repository) GetBurnTransaction(ctx context.Context, owner solana.PublicKey, nonce uint64) (*entity.BurnTransaction, error) {
	model, err := r.queries.GetBurnTransaction(ctx, gen.GetBurnTransactionParams{
		Owner: owner.Bytes(),
		Nonce: numericFromUint64(nonce),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	burn, err := mapBurnTransactionModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse burn transaction model")
	}
	return &burn, nil
}

func (r *Repository) GetBurnTransactions(ctx context.Context, params datagateway.GetBurnTransactionsParams) ([]*entity.BurnTransaction, error) {
	models, err := r.queries.GetBurnTransactions(ctx, mapGetBurnTransactionsParams(params))
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	burns := make([]*entity.BurnTransaction, 0, len(models))
	for _, model := range models {
		burn, err := mapBurnTransactionModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse burn transaction model")
		}
		burns = append(burns, &burn)
	}
	return burns, nil
}

func (r *Repository) CreateBurnTransaction(ctx context.Context, tx entity.BurnTransaction) (bool, error) {
	affected, err := r.queries.CreateBurnTransaction(ctx, mapBurnTransactionTypeToParams(tx))
	if err != nil {
		return false, errors.Wrap(err, "error during exec")
	}
	return affected > 0, nil
}

func (r *Repository) SetBurnTransactionProcessedOnEthereum(ctx context.Context, owner solana.PublicKey, nonce uint64) (bool, error) {
	affected, err := r.queries.SetBurnTransactionProcessedOnEthereum(ctx, gen.SetBurnTransactionProcessedOnEthereumParams{
		Owner: owner.Bytes(),
		Nonce: numericFromUint64(nonce),
	})
	if err != nil {
		return false, errors.Wrap(err, "error during exec")
	}
	if affected > 0 {
		return true, nil
	}

	// nothing updated, either already settled or missing
	if _, err := r.GetBurnTransaction(ctx, owner, nonce); err != nil {
		return false, errors.WithStack(err)
	}
	return false, nil
}
