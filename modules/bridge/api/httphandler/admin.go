package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gofiber/fiber/v2"
)

type adminResponse = HttpResponse[bridgeState]

func (h *HttpHandler) Pause(ctx *fiber.Ctx) (err error) {
	state, err := h.usecase.PauseBridge(ctx.UserContext(), signerFromLocals(ctx))
	if err != nil {
		return errors.WithStack(publicError(err))
	}
	result := h.mapBridgeState(state)
	return errors.WithStack(ctx.JSON(adminResponse{Result: &result}))
}

func (h *HttpHandler) Unpause(ctx *fiber.Ctx) (err error) {
	state, err := h.usecase.UnpauseBridge(ctx.UserContext(), signerFromLocals(ctx))
	if err != nil {
		return errors.WithStack(publicError(err))
	}
	result := h.mapBridgeState(state)
	return errors.WithStack(ctx.JSON(adminResponse{Result: &result}))
}

type updateRequiredValidatorsRequest struct {
	RequiredValidators *uint8 `json:"requiredValidators"`
}

func (r updateRequiredValidatorsRequest) Validate() error {
	var errList []error
	if r.RequiredValidators == nil {
		errList = append(errList, errors.New("'requiredValidators' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *HttpHandler) UpdateRequiredValidators(ctx *fiber.Ctx) (err error) {
	var req updateRequiredValidatorsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.WithPublicMessage(err, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	state, err := h.usecase.UpdateRequiredValidators(ctx.UserContext(), signerFromLocals(ctx), *req.RequiredValidators)
	if err != nil {
		return errors.WithStack(publicError(err))
	}
	result := h.mapBridgeState(state)
	return errors.WithStack(ctx.JSON(adminResponse{Result: &result}))
}
