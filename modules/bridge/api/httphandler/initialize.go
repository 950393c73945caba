package httphandler

import (
	"github.com/cockroachdb/errors"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/modules/bridge/engine"
	"github.com/gofiber/fiber/v2"
)

type initializeRequest struct {
	SourceBridgeAddress string `json:"sourceBridgeAddress"`
	RequiredValidators  uint8  `json:"requiredValidators"`
}

func (r initializeRequest) Validate() error {
	var errList []error
	if !ethcommon.IsHexAddress(r.SourceBridgeAddress) {
		errList = append(errList, errors.New("'sourceBridgeAddress' is not a valid hex address"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type initializeResponse = HttpResponse[bridgeState]

// Initialize creates the bridge. The request signer becomes the authority.
func (h *HttpHandler) Initialize(ctx *fiber.Ctx) (err error) {
	var req initializeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.WithPublicMessage(err, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	state, err := h.usecase.Initialize(ctx.UserContext(), engine.InitializeParams{
		SourceBridgeAddress: ethcommon.HexToAddress(req.SourceBridgeAddress),
		RequiredValidators:  req.RequiredValidators,
		Authority:           signerFromLocals(ctx),
	})
	if err != nil {
		return errors.WithStack(publicError(err))
	}

	result := h.mapBridgeState(state)
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(initializeResponse{Result: &result}))
}
