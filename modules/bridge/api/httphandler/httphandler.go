package httphandler

import (
	"strconv"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gaze-network/bridge-network/modules/bridge/usecase"
	"github.com/gaze-network/bridge-network/pkg/decimals"
	"github.com/shopspring/decimal"
)

type HttpHandler struct {
	usecase       *usecase.Usecase
	tokenDecimals uint8
	now           func() time.Time
}

func New(usecase *usecase.Usecase, tokenDecimals uint8) *HttpHandler {
	return &HttpHandler{
		usecase:       usecase,
		tokenDecimals: tokenDecimals,
		now:           time.Now,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

// amount is a raw token amount together with its display value.
type amount struct {
	Raw     string          `json:"raw"`
	Display decimal.Decimal `json:"display"`
}

func (h *HttpHandler) amount(value uint64) amount {
	return amount{
		Raw:     strconv.FormatUint(value, 10),
		Display: decimals.ToDecimal(value, h.tokenDecimals),
	}
}

type bridgeState struct {
	SourceBridgeAddress ethcommon.Address `json:"sourceBridgeAddress"`
	RequiredValidators  uint8             `json:"requiredValidators"`
	TotalMinted         amount            `json:"totalMinted"`
	TotalBurned         amount            `json:"totalBurned"`
	Nonce               uint64            `json:"nonce,string"`
	Authority           string            `json:"authority"`
	Paused              bool              `json:"paused"`
}

func (h *HttpHandler) mapBridgeState(state *entity.BridgeState) bridgeState {
	return bridgeState{
		SourceBridgeAddress: state.SourceBridgeAddress,
		RequiredValidators:  state.RequiredValidators,
		TotalMinted:         h.amount(state.TotalMinted),
		TotalBurned:         h.amount(state.TotalBurned),
		Nonce:               state.Nonce,
		Authority:           state.Authority.String(),
		Paused:              state.Paused,
	}
}

type processedTransaction struct {
	EthereumTxHash ethcommon.Hash `json:"ethereumTxHash"`
	IsProcessed    bool           `json:"isProcessed"`
	Amount         amount         `json:"amount"`
	Recipient      string         `json:"recipient"`
	Timestamp      int64          `json:"timestamp"`
}

func (h *HttpHandler) mapProcessedTransaction(tx *entity.ProcessedTransaction) processedTransaction {
	return processedTransaction{
		EthereumTxHash: tx.EthereumTxHash,
		IsProcessed:    tx.IsProcessed,
		Amount:         h.amount(tx.Amount),
		Recipient:      tx.Recipient.String(),
		Timestamp:      tx.Timestamp.Unix(),
	}
}

type burnTransaction struct {
	Owner               string            `json:"owner"`
	Nonce               uint64            `json:"nonce,string"`
	Amount              amount            `json:"amount"`
	EthereumRecipient   ethcommon.Address `json:"ethereumRecipient"`
	Timestamp           int64             `json:"timestamp"`
	ProcessedOnEthereum bool              `json:"processedOnEthereum"`
}

func (h *HttpHandler) mapBurnTransaction(tx *entity.BurnTransaction) burnTransaction {
	return burnTransaction{
		Owner:               tx.User.String(),
		Nonce:               tx.Nonce,
		Amount:              h.amount(tx.Amount),
		EthereumRecipient:   tx.EthereumRecipient,
		Timestamp:           tx.Timestamp.Unix(),
		ProcessedOnEthereum: tx.ProcessedOnEthereum,
	}
}
