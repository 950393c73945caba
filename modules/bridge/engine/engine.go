// Package engine implements the bridge state transitions. Every transition runs in a
// single storage transaction and leaves no partial write behind when it is rejected.
package engine

import (
	"context"
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/modules/bridge/datagateway"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gaze-network/bridge-network/modules/bridge/ledger"
	"github.com/gaze-network/bridge-network/modules/bridge/quorum"
	"github.com/gaze-network/bridge-network/pkg/logger"
	"github.com/gaze-network/bridge-network/pkg/logger/slogx"
)

// Limits bounds the amount of a single mint or burn. Zero means unbounded.
type Limits struct {
	MinAmount uint64 `mapstructure:"min_amount"`
	MaxAmount uint64 `mapstructure:"max_amount"`
}

// Allows reports whether amount is positive and within the limits.
func (l Limits) Allows(amount uint64) bool {
	if amount == 0 {
		return false
	}
	if l.MinAmount > 0 && amount < l.MinAmount {
		return false
	}
	if l.MaxAmount > 0 && amount > l.MaxAmount {
		return false
	}
	return true
}

type Engine struct {
	bridgeDg   datagateway.BridgeDataGateway
	ledger     ledger.Service
	validators quorum.ValidatorSet
	limits     Limits
	now        func() time.Time
}

func New(bridgeDg datagateway.BridgeDataGateway, ledgerService ledger.Service, validators quorum.ValidatorSet, limits Limits) *Engine {
	return &Engine{
		bridgeDg:   bridgeDg,
		ledger:     ledgerService,
		validators: validators,
		limits:     limits,
		now:        time.Now,
	}
}

func (e *Engine) Validators() quorum.ValidatorSet {
	return e.validators
}

func (e *Engine) Limits() Limits {
	return e.limits
}

func (e *Engine) timestamp() time.Time {
	return e.now().UTC().Truncate(time.Second)
}

// begin opens a transaction and returns it with a rollback func meant to be deferred.
func (e *Engine) begin(ctx context.Context) (datagateway.BridgeDataGatewayWithTx, func(), error) {
	tx, err := e.bridgeDg.BeginBridgeTx(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to begin transaction")
	}
	rollback := func() {
		if err := tx.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "failed to rollback transaction", slogx.Error(err))
		}
	}
	return tx, rollback, nil
}

// lockState locks the bridge state for the rest of the transaction.
func lockState(ctx context.Context, tx datagateway.BridgeDataGatewayWithTx) (*entity.BridgeState, error) {
	state, err := tx.LockBridgeState(ctx)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(ErrNotInitialized)
		}
		return nil, errors.Wrap(err, "failed to lock bridge state")
	}
	return state, nil
}

func addUint64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, errors.WithStack(errs.OverflowUint64)
	}
	return a + b, nil
}
