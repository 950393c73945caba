package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/modules/bridge/engine"
	"github.com/gofiber/fiber/v2"
)

type getStateResult struct {
	bridgeState
	Outstanding      amount `json:"outstanding"`
	TokenDecimals    uint8  `json:"tokenDecimals"`
	Validators       int    `json:"validators"`
	QuorumAchievable bool   `json:"quorumAchievable"`
	MinAmount        uint64 `json:"minAmount,string"`
	MaxAmount        uint64 `json:"maxAmount,string"`
}

type getStateResponse = HttpResponse[getStateResult]

func (h *HttpHandler) GetState(ctx *fiber.Ctx) (err error) {
	stats, err := h.usecase.GetStats(ctx.UserContext())
	if err != nil {
		return errors.WithStack(publicError(err))
	}
	return errors.WithStack(ctx.JSON(getStateResponse{
		Result: &getStateResult{
			bridgeState:      h.mapBridgeState(&stats.State),
			Outstanding:      h.amount(stats.Outstanding),
			TokenDecimals:    h.tokenDecimals,
			Validators:       stats.Validators,
			QuorumAchievable: stats.QuorumAchievable,
			MinAmount:        stats.Limits.MinAmount,
			MaxAmount:        stats.Limits.MaxAmount,
		},
	}))
}

type getHealthResult struct {
	Healthy          bool `json:"healthy"`
	Initialized      bool `json:"initialized"`
	Paused           bool `json:"paused"`
	QuorumAchievable bool `json:"quorumAchievable"`
}

type getHealthResponse = HttpResponse[getHealthResult]

// GetHealth responds 503 while the bridge cannot accept mints.
func (h *HttpHandler) GetHealth(ctx *fiber.Ctx) (err error) {
	var result getHealthResult
	stats, err := h.usecase.GetStats(ctx.UserContext())
	switch {
	case err == nil:
		result = getHealthResult{
			Healthy:          stats.Healthy(),
			Initialized:      true,
			Paused:           stats.State.Paused,
			QuorumAchievable: stats.QuorumAchievable,
		}
	case errors.Is(err, engine.ErrNotInitialized):
	default:
		return errors.WithStack(err)
	}

	status := fiber.StatusOK
	if !result.Healthy {
		status = fiber.StatusServiceUnavailable
	}
	return errors.WithStack(ctx.Status(status).JSON(getHealthResponse{Result: &result}))
}
