package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/modules/bridge/datagateway"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gaze-network/bridge-network/modules/bridge/usecase"
	"github.com/gagliardetto/solana-go"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getBurnTransactionsRequest struct {
	Owner     string `query:"owner"`
	Processed *bool  `query:"processed"`
	FromNonce uint64 `query:"fromNonce"`
	Limit     int32  `query:"limit"`
}

func (r getBurnTransactionsRequest) Validate() error {
	var errList []error
	if r.Owner != "" {
		if _, err := solana.PublicKeyFromBase58(r.Owner); err != nil {
			errList = append(errList, errors.New("'owner' is not a valid base58 public key"))
		}
	}
	if r.Limit < 0 || r.Limit > usecase.MaxBurnPageSize {
		errList = append(errList, errors.Errorf("'limit' must be between 1 and %d", usecase.MaxBurnPageSize))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getBurnTransactionsResult struct {
	List []burnTransaction `json:"list"`
}

type getBurnTransactionsResponse = HttpResponse[getBurnTransactionsResult]

func (h *HttpHandler) GetBurnTransactions(ctx *fiber.Ctx) (err error) {
	var req getBurnTransactionsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errs.WithPublicMessage(err, "invalid query")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	params := datagateway.GetBurnTransactionsParams{
		ProcessedOnEthereum: req.Processed,
		FromNonce:           req.FromNonce,
		Limit:               req.Limit,
	}
	if req.Owner != "" {
		params.Owner = lo.ToPtr(solana.MustPublicKeyFromBase58(req.Owner))
	}

	burns, err := h.usecase.GetBurnTransactions(ctx.UserContext(), params)
	if err != nil {
		return errors.WithStack(publicError(err))
	}
	return errors.WithStack(ctx.JSON(getBurnTransactionsResponse{
		Result: &getBurnTransactionsResult{
			List: lo.Map(burns, func(b *entity.BurnTransaction, _ int) burnTransaction {
				return h.mapBurnTransaction(b)
			}),
		},
	}))
}

type burnKeyRequest struct {
	Owner string `params:"owner"`
	Nonce uint64 `params:"nonce"`
}

func (r burnKeyRequest) Validate() error {
	var errList []error
	if _, err := solana.PublicKeyFromBase58(r.Owner); err != nil {
		errList = append(errList, errors.New("'owner' is not a valid base58 public key"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getBurnTransactionResponse = HttpResponse[burnTransaction]

func (h *HttpHandler) GetBurnTransaction(ctx *fiber.Ctx) (err error) {
	var req burnKeyRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errs.WithPublicMessage(err, "invalid params")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	burn, err := h.usecase.GetBurnTransaction(ctx.UserContext(), solana.MustPublicKeyFromBase58(req.Owner), req.Nonce)
	if err != nil {
		return errors.WithStack(publicError(err))
	}

	result := h.mapBurnTransaction(burn)
	return errors.WithStack(ctx.JSON(getBurnTransactionResponse{Result: &result}))
}
