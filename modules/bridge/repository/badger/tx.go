package badger

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/modules/bridge/datagateway"
	"github.com/gaze-network/bridge-network/pkg/logger"
)

var ErrTxAlreadyExists = errors.New("Transaction already exists. Call Commit() or Rollback() first.")

// BeginBridgeTx blocks until every other transaction of this repository has ended.
// Badger transactions read at a fixed snapshot, so the lock has to be held before the snapshot is taken.
func (r *Repository) BeginBridgeTx(ctx context.Context) (datagateway.BridgeDataGatewayWithTx, error) {
	if r.txn != nil {
		return nil, errors.WithStack(ErrTxAlreadyExists)
	}
	r.mu.Lock()
	if err := ctx.Err(); err != nil {
		r.mu.Unlock()
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	return &Repository{
		db:  r.db,
		mu:  r.mu,
		txn: r.db.NewTransaction(true),
	}, nil
}

func (r *Repository) Commit(ctx context.Context) error {
	if r.txn == nil {
		return nil
	}
	defer r.release()
	if err := r.txn.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func (r *Repository) Rollback(ctx context.Context) error {
	if r.txn == nil {
		return nil
	}
	r.txn.Discard()
	r.release()
	logger.DebugContext(ctx, "rolled back transaction")
	return nil
}

func (r *Repository) release() {
	r.txn = nil
	r.mu.Unlock()
}
