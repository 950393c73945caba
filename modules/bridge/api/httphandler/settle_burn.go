package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gagliardetto/solana-go"
	"github.com/gofiber/fiber/v2"
)

type settleBurnResponse = HttpResponse[burnTransaction]

// SettleBurn marks a burn as released on the source chain. Settling twice is not an error.
func (h *HttpHandler) SettleBurn(ctx *fiber.Ctx) (err error) {
	var req burnKeyRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errs.WithPublicMessage(err, "invalid params")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	burn, err := h.usecase.MarkBurnProcessedOnEthereum(ctx.UserContext(), solana.MustPublicKeyFromBase58(req.Owner), req.Nonce, signerFromLocals(ctx))
	if err != nil {
		return errors.WithStack(publicError(err))
	}
	result := h.mapBurnTransaction(burn)
	return errors.WithStack(ctx.JSON(settleBurnResponse{Result: &result}))
}
