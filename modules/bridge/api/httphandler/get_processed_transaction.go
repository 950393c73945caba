package httphandler

import (
	"github.com/cockroachdb/errors"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gofiber/fiber/v2"
)

type getProcessedTransactionRequest struct {
	Hash string `params:"hash"`
}

func (r getProcessedTransactionRequest) Validate() error {
	var errList []error
	if b, err := hexutil.Decode(r.Hash); err != nil || len(b) != ethcommon.HashLength {
		errList = append(errList, errors.New("'hash' must be a 0x-prefixed 32-byte hex string"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getProcessedTransactionResponse = HttpResponse[processedTransaction]

func (h *HttpHandler) GetProcessedTransaction(ctx *fiber.Ctx) (err error) {
	var req getProcessedTransactionRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errs.WithPublicMessage(err, "invalid params")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	processed, err := h.usecase.GetProcessedTransaction(ctx.UserContext(), ethcommon.HexToHash(req.Hash))
	if err != nil {
		return errors.WithStack(publicError(err))
	}

	result := h.mapProcessedTransaction(processed)
	return errors.WithStack(ctx.JSON(getProcessedTransactionResponse{Result: &result}))
}
