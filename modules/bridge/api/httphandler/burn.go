package httphandler

import (
	"github.com/cockroachdb/errors"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/modules/bridge/engine"
	"github.com/gaze-network/bridge-network/pkg/decimals"
	"github.com/gofiber/fiber/v2"
)

type burnRequest struct {
	Amount            string `json:"amount"`
	EthereumRecipient string `json:"ethereumRecipient"`
}

func (r burnRequest) Validate() error {
	var errList []error
	if _, err := decimals.ParseUint64(r.Amount, 0); err != nil {
		errList = append(errList, errors.New("'amount' must be an unsigned integer"))
	}
	if !ethcommon.IsHexAddress(r.EthereumRecipient) {
		errList = append(errList, errors.New("'ethereumRecipient' is not a valid hex address"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type burnResponse = HttpResponse[burnTransaction]

// Burn burns the signer's wrapped tokens.
func (h *HttpHandler) Burn(ctx *fiber.Ctx) (err error) {
	var req burnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.WithPublicMessage(err, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	amount, _ := decimals.ParseUint64(req.Amount, 0)
	burn, err := h.usecase.BurnWrapped(ctx.UserContext(), engine.BurnParams{
		Amount:            amount,
		EthereumRecipient: ethcommon.HexToAddress(req.EthereumRecipient),
		Owner:             signerFromLocals(ctx),
	})
	if err != nil {
		return errors.WithStack(publicError(err))
	}

	result := h.mapBurnTransaction(burn)
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(burnResponse{Result: &result}))
}
