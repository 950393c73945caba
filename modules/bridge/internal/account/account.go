// Package account encodes bridge records with the Anchor account layout:
// an 8-byte discriminator followed by the borsh encoding of the fields.
package account

import (
	"bytes"
	"crypto/sha256"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/near/borsh-go"
)

const DiscriminatorLength = 8

const (
	nameBridgeState          = "BridgeState"
	nameProcessedTransaction = "ProcessedTransaction"
	nameBurnTransaction      = "BurnTransaction"
)

// Discriminator returns the Anchor account discriminator of the given account name.
func Discriminator(name string) [DiscriminatorLength]byte {
	sum := sha256.Sum256([]byte("account:" + name))
	var d [DiscriminatorLength]byte
	copy(d[:], sum[:DiscriminatorLength])
	return d
}

// borsh-go does not support bool, flags are encoded as uint8.

type bridgeStateLayout struct {
	EthereumBridge     [20]byte
	RequiredValidators uint8
	TotalMinted        uint64
	TotalBurned        uint64
	Nonce              uint64
	Authority          [32]byte
	Paused             uint8
}

type processedTransactionLayout struct {
	IsProcessed    uint8
	EthereumTxHash [32]byte
	Amount         uint64
	Recipient      [32]byte
	Timestamp      int64
}

type burnTransactionLayout struct {
	User                [32]byte
	Amount              uint64
	EthereumRecipient   [20]byte
	Timestamp           int64
	Nonce               uint64
	ProcessedOnEthereum uint8
}

func EncodeBridgeState(s entity.BridgeState) ([]byte, error) {
	return encode(nameBridgeState, bridgeStateLayout{
		EthereumBridge:     s.SourceBridgeAddress,
		RequiredValidators: s.RequiredValidators,
		TotalMinted:        s.TotalMinted,
		TotalBurned:        s.TotalBurned,
		Nonce:              s.Nonce,
		Authority:          s.Authority,
		Paused:             boolToUint8(s.Paused),
	})
}

func DecodeBridgeState(data []byte) (entity.BridgeState, error) {
	var l bridgeStateLayout
	if err := decode(nameBridgeState, data, &l); err != nil {
		return entity.BridgeState{}, errors.WithStack(err)
	}
	return entity.BridgeState{
		SourceBridgeAddress: l.EthereumBridge,
		RequiredValidators:  l.RequiredValidators,
		TotalMinted:         l.TotalMinted,
		TotalBurned:         l.TotalBurned,
		Nonce:               l.Nonce,
		Authority:           l.Authority,
		Paused:              l.Paused != 0,
	}, nil
}

func EncodeProcessedTransaction(tx entity.ProcessedTransaction) ([]byte, error) {
	return encode(nameProcessedTransaction, processedTransactionLayout{
		IsProcessed:    boolToUint8(tx.IsProcessed),
		EthereumTxHash: tx.EthereumTxHash,
		Amount:         tx.Amount,
		Recipient:      tx.Recipient,
		Timestamp:      tx.Timestamp.Unix(),
	})
}

func DecodeProcessedTransaction(data []byte) (entity.ProcessedTransaction, error) {
	var l processedTransactionLayout
	if err := decode(nameProcessedTransaction, data, &l); err != nil {
		return entity.ProcessedTransaction{}, errors.WithStack(err)
	}
	return entity.ProcessedTransaction{
		IsProcessed:    l.IsProcessed != 0,
		EthereumTxHash: l.EthereumTxHash,
		Amount:         l.Amount,
		Recipient:      l.Recipient,
		Timestamp:      time.Unix(l.Timestamp, 0).UTC(),
	}, nil
}

func EncodeBurnTransaction(tx entity.BurnTransaction) ([]byte, error) {
	return encode(nameBurnTransaction, burnTransactionLayout{
		User:                tx.User,
		Amount:              tx.Amount,
		EthereumRecipient:   tx.EthereumRecipient,
		Timestamp:           tx.Timestamp.Unix(),
		Nonce:               tx.Nonce,
		ProcessedOnEthereum: boolToUint8(tx.ProcessedOnEthereum),
	})
}

func DecodeBurnTransaction(data []byte) (entity.BurnTransaction, error) {
	var l burnTransactionLayout
	if err := decode(nameBurnTransaction, data, &l); err != nil {
		return entity.BurnTransaction{}, errors.WithStack(err)
	}
	return entity.BurnTransaction{
		User:                l.User,
		Amount:              l.Amount,
		EthereumRecipient:   l.EthereumRecipient,
		Timestamp:           time.Unix(l.Timestamp, 0).UTC(),
		Nonce:               l.Nonce,
		ProcessedOnEthereum: l.ProcessedOnEthereum != 0,
	}, nil
}

func encode(name string, layout any) ([]byte, error) {
	body, err := borsh.Serialize(layout)
	if err != nil {
		return nil, errors.Wrapf(err, "can't serialize %s", name)
	}
	d := Discriminator(name)
	return append(d[:], body...), nil
}

func decode(name string, data []byte, layout any) error {
	d := Discriminator(name)
	if len(data) < DiscriminatorLength || !bytes.Equal(data[:DiscriminatorLength], d[:]) {
		return errors.Wrapf(errs.InvalidArgument, "account data is not a %s", name)
	}
	if err := borsh.Deserialize(layout, data[DiscriminatorLength:]); err != nil {
		return errors.Wrapf(err, "can't deserialize %s", name)
	}
	return nil
}

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
