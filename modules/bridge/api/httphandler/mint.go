package httphandler

import (
	"github.com/cockroachdb/errors"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/modules/bridge/engine"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gaze-network/bridge-network/pkg/decimals"
	"github.com/gagliardetto/solana-go"
	"github.com/gofiber/fiber/v2"
)

const maxAttestations = 256

type attestationRequest struct {
	Signer    string `json:"signer"`
	Signature string `json:"signature"`
}

type mintRequest struct {
	SourceTxHash string               `json:"sourceTxHash"`
	Amount       string               `json:"amount"`
	Recipient    string               `json:"recipient"`
	Attestations []attestationRequest `json:"attestations"`
}

func (r mintRequest) Validate() error {
	var errList []error
	if b, err := hexutil.Decode(r.SourceTxHash); err != nil || len(b) != ethcommon.HashLength {
		errList = append(errList, errors.New("'sourceTxHash' must be a 0x-prefixed 32-byte hex string"))
	}
	if _, err := decimals.ParseUint64(r.Amount, 0); err != nil {
		errList = append(errList, errors.New("'amount' must be an unsigned integer"))
	}
	if _, err := solana.PublicKeyFromBase58(r.Recipient); err != nil {
		errList = append(errList, errors.New("'recipient' is not a valid base58 public key"))
	}
	if len(r.Attestations) > maxAttestations {
		errList = append(errList, errors.Errorf("too many attestations, max is %d", maxAttestations))
	}
	for i, a := range r.Attestations {
		if a.Signer != "" && !ethcommon.IsHexAddress(a.Signer) {
			errList = append(errList, errors.Errorf("'attestations[%d].signer' is not a valid hex address", i))
		}
		if b, err := hexutil.Decode(a.Signature); err != nil || len(b) != entity.SignatureLength {
			errList = append(errList, errors.Errorf("'attestations[%d].signature' must be a 0x-prefixed %d-byte hex string", i, entity.SignatureLength))
		}
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (r mintRequest) params() engine.MintParams {
	amount, _ := decimals.ParseUint64(r.Amount, 0)
	attestations := make([]entity.Attestation, 0, len(r.Attestations))
	for _, a := range r.Attestations {
		var attestation entity.Attestation
		if a.Signer != "" {
			attestation.Signer = ethcommon.HexToAddress(a.Signer)
		}
		copy(attestation.Signature[:], hexutil.MustDecode(a.Signature))
		attestations = append(attestations, attestation)
	}
	return engine.MintParams{
		SourceTxHash: ethcommon.HexToHash(r.SourceTxHash),
		Amount:       amount,
		Recipient:    solana.MustPublicKeyFromBase58(r.Recipient),
		Attestations: attestations,
	}
}

type mintResponse = HttpResponse[processedTransaction]

// Mint is open to any relayer, the validator attestations authorize it.
func (h *HttpHandler) Mint(ctx *fiber.Ctx) (err error) {
	var req mintRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.WithPublicMessage(err, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	processed, err := h.usecase.MintWrapped(ctx.UserContext(), req.params())
	if err != nil {
		return errors.WithStack(publicError(err))
	}

	result := h.mapProcessedTransaction(processed)
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(mintResponse{Result: &result}))
}
