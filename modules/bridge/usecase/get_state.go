package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/modules/bridge/engine"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
)

type Stats struct {
	State entity.BridgeState
	// Outstanding is the wrapped supply minted and not burned yet.
	Outstanding uint64
	Validators  int
	// QuorumAchievable is false when required validators exceeds the known validator set.
	QuorumAchievable bool
	Limits           engine.Limits
}

// Healthy reports whether the bridge currently accepts mints.
func (s Stats) Healthy() bool {
	return !s.State.Paused && s.QuorumAchievable
}

func (u *Usecase) GetBridgeState(ctx context.Context) (*entity.BridgeState, error) {
	state, err := u.bridgeDg.GetBridgeState(ctx)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(engine.ErrNotInitialized)
		}
		return nil, errors.Wrap(err, "failed to get bridge state")
	}
	return state, nil
}

func (u *Usecase) GetStats(ctx context.Context) (*Stats, error) {
	state, err := u.GetBridgeState(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	validators := u.engine.Validators().Len()
	return &Stats{
		State:            *state,
		Outstanding:      state.Outstanding(),
		Validators:       validators,
		QuorumAchievable: int(state.RequiredValidators) <= validators,
		Limits:           u.engine.Limits(),
	}, nil
}
