package postgres

import (
	"math/big"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/modules/bridge/datagateway"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gaze-network/bridge-network/modules/bridge/repository/postgres/gen"
	"github.com/gagliardetto/solana-go"
	"github.com/jackc/pgx/v5/pgtype"
)

func numericFromUint64(src uint64) pgtype.Numeric {
	return pgtype.Numeric{Int: new(big.Int).SetUint64(src), Valid: true}
}

func uint64FromNumeric(src pgtype.Numeric) (uint64, error) {
	if !src.Valid {
		return 0, errors.Wrap(errs.InvalidArgument, "numeric is null")
	}
	bytes, err := src.MarshalJSON()
	if err != nil {
		return 0, errors.WithStack(err)
	}
	result, err := strconv.ParseUint(string(bytes), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errs.OverflowUint64, "numeric %s: %v", string(bytes), err)
	}
	return result, nil
}

func timestamptzFromTime(src time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: src.UTC().Truncate(time.Second), Valid: true}
}

func publicKeyFromBytes(src []byte) (solana.PublicKey, error) {
	if len(src) != solana.PublicKeyLength {
		return solana.PublicKey{}, errors.Wrapf(errs.InvalidArgument, "public key must be %d bytes, got %d", solana.PublicKeyLength, len(src))
	}
	return solana.PublicKeyFromBytes(src), nil
}

func addressFromBytes(src []byte) (ethcommon.Address, error) {
	if len(src) != ethcommon.AddressLength {
		return ethcommon.Address{}, errors.Wrapf(errs.InvalidArgument, "address must be %d bytes, got %d", ethcommon.AddressLength, len(src))
	}
	return ethcommon.BytesToAddress(src), nil
}

func mapBridgeStateModelToType(src gen.BridgeState) (entity.BridgeState, error) {
	sourceBridge, err := addressFromBytes(src.SourceBridgeAddress)
	if err != nil {
		return entity.BridgeState{}, errors.Wrap(err, "failed to parse source bridge address")
	}
	authority, err := publicKeyFromBytes(src.Authority)
	if err != nil {
		return entity.BridgeState{}, errors.Wrap(err, "failed to parse authority")
	}
	totalMinted, err := uint64FromNumeric(src.TotalMinted)
	if err != nil {
		return entity.BridgeState{}, errors.Wrap(err, "failed to parse total minted")
	}
	totalBurned, err := uint64FromNumeric(src.TotalBurned)
	if err != nil {
		return entity.BridgeState{}, errors.Wrap(err, "failed to parse total burned")
	}
	nonce, err := uint64FromNumeric(src.Nonce)
	if err != nil {
		return entity.BridgeState{}, errors.Wrap(err, "failed to parse nonce")
	}
	return entity.BridgeState{
		SourceBridgeAddress: sourceBridge,
		RequiredValidators:  uint8(src.RequiredValidators),
		TotalMinted:         totalMinted,
		TotalBurned:         totalBurned,
		Nonce:               nonce,
		Authority:           authority,
		Paused:              src.Paused,
	}, nil
}

func mapBridgeStateTypeToCreateParams(src entity.BridgeState) gen.CreateBridgeStateParams {
	return gen.CreateBridgeStateParams{
		SourceBridgeAddress: src.SourceBridgeAddress.Bytes(),
		RequiredValidators:  int16(src.RequiredValidators),
		TotalMinted:         numericFromUint64(src.TotalMinted),
		TotalBurned:         numericFromUint64(src.TotalBurned),
		Nonce:               numericFromUint64(src.Nonce),
		Authority:           src.Authority.Bytes(),
		Paused:              src.Paused,
	}
}

func mapBridgeStateTypeToUpdateParams(src entity.BridgeState) gen.UpdateBridgeStateParams {
	return gen.UpdateBridgeStateParams{
		RequiredValidators: int16(src.RequiredValidators),
		TotalMinted:        numericFromUint64(src.TotalMinted),
		TotalBurned:        numericFromUint64(src.TotalBurned),
		Nonce:              numericFromUint64(src.Nonce),
		Paused:             src.Paused,
	}
}

func mapProcessedTransactionModelToType(src gen.BridgeProcessedTransaction) (entity.ProcessedTransaction, error) {
	if len(src.EthereumTxHash) != ethcommon.HashLength {
		return entity.ProcessedTransaction{}, errors.Wrapf(errs.InvalidArgument, "tx hash must be %d bytes, got %d", ethcommon.HashLength, len(src.EthereumTxHash))
	}
	recipient, err := publicKeyFromBytes(src.Recipient)
	if err != nil {
		return entity.ProcessedTransaction{}, errors.Wrap(err, "failed to parse recipient")
	}
	amount, err := uint64FromNumeric(src.Amount)
	if err != nil {
		return entity.ProcessedTransaction{}, errors.Wrap(err, "failed to parse amount")
	}
	return entity.ProcessedTransaction{
		IsProcessed:    src.IsProcessed,
		EthereumTxHash: ethcommon.BytesToHash(src.EthereumTxHash),
		Amount:         amount,
		Recipient:      recipient,
		Timestamp:      src.Timestamp.Time.UTC(),
	}, nil
}

func mapProcessedTransactionTypeToParams(src entity.ProcessedTransaction) gen.CreateProcessedTransactionParams {
	return gen.CreateProcessedTransactionParams{
		EthereumTxHash: src.EthereumTxHash.Bytes(),
		IsProcessed:    src.IsProcessed,
		Amount:         numericFromUint64(src.Amount),
		Recipient:      src.Recipient.Bytes(),
		Timestamp:      timestamptzFromTime(src.Timestamp),
	}
}

func mapBurnTransactionModelToType(src gen.BridgeBurnTransaction) (entity.BurnTransaction, error) {
	user, err := publicKeyFromBytes(src.Owner)
	if err != nil {
		return entity.BurnTransaction{}, errors.Wrap(err, "failed to parse owner")
	}
	recipient, err := addressFromBytes(src.EthereumRecipient)
	if err != nil {
		return entity.BurnTransaction{}, errors.Wrap(err, "failed to parse ethereum recipient")
	}
	amount, err := uint64FromNumeric(src.Amount)
	if err != nil {
		return entity.BurnTransaction{}, errors.Wrap(err, "failed to parse amount")
	}
	nonce, err := uint64FromNumeric(src.Nonce)
	if err != nil {
		return entity.BurnTransaction{}, errors.Wrap(err, "failed to parse nonce")
	}
	return entity.BurnTransaction{
		User:                user,
		Amount:              amount,
		EthereumRecipient:   recipient,
		Timestamp:           src.Timestamp.Time.UTC(),
		Nonce:               nonce,
		ProcessedOnEthereum: src.ProcessedOnEthereum,
	}, nil
}

func mapBurnTransactionTypeToParams(src entity.BurnTransaction) gen.CreateBurnTransactionParams {
	return gen.CreateBurnTransactionParams{
		Owner:               src.User.Bytes(),
		Nonce:               numericFromUint64(src.Nonce),
		Amount:              numericFromUint64(src.Amount),
		EthereumRecipient:   src.EthereumRecipient.Bytes(),
		Timestamp:           timestamptzFromTime(src.Timestamp),
		ProcessedOnEthereum: src.ProcessedOnEthereum,
	}
}

func mapGetBurnTransactionsParams(src datagateway.GetBurnTransactionsParams) gen.GetBurnTransactionsParams {
	params := gen.GetBurnTransactionsParams{
		FromNonce: numericFromUint64(src.FromNonce),
		LimitRows: src.Limit,
	}
	if src.Owner != nil {
		params.Owner = src.Owner.Bytes()
	}
	if src.ProcessedOnEthereum != nil {
		params.ProcessedOnEthereum = pgtype.Bool{Bool: *src.ProcessedOnEthereum, Valid: true}
	}
	return params
}
