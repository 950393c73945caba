package entity

import (
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

// ProcessedTransaction marks a source-chain deposit as minted. It is never updated once created.
type ProcessedTransaction struct {
	IsProcessed    bool
	EthereumTxHash ethcommon.Hash
	Amount         uint64
	Recipient      solana.PublicKey
	Timestamp      time.Time
}
