package datagateway

import (
	"context"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gagliardetto/solana-go"
)

type BridgeDataGateway interface {
	BridgeReaderDataGateway
	BridgeWriterDataGateway

	// BeginBridgeTx opens a transaction. Transactions are serialized with each other
	// once LockBridgeState has been called inside them.
	BeginBridgeTx(ctx context.Context) (BridgeDataGatewayWithTx, error)
}

type BridgeDataGatewayWithTx interface {
	BridgeDataGateway
	Tx
}

type BridgeReaderDataGateway interface {
	// GetBridgeState returns errs.NotFound if the bridge is not initialized.
	GetBridgeState(ctx context.Context) (*entity.BridgeState, error)
	// GetProcessedTransaction returns errs.NotFound if the source tx has not been minted.
	GetProcessedTransaction(ctx context.Context, ethereumTxHash ethcommon.Hash) (*entity.ProcessedTransaction, error)
	// GetBurnTransaction returns errs.NotFound if no burn exists for the key.
	GetBurnTransaction(ctx context.Context, owner solana.PublicKey, nonce uint64) (*entity.BurnTransaction, error)
	// GetBurnTransactions returns burns ordered by nonce ascending.
	GetBurnTransactions(ctx context.Context, params GetBurnTransactionsParams) ([]*entity.BurnTransaction, error)
}

type BridgeWriterDataGateway interface {
	// LockBridgeState reads the bridge state and holds it exclusively until the transaction ends.
	// Returns errs.NotFound if the bridge is not initialized.
	LockBridgeState(ctx context.Context) (*entity.BridgeState, error)
	// CreateBridgeState inserts the singleton. Returns false if it already exists.
	CreateBridgeState(ctx context.Context, state entity.BridgeState) (bool, error)
	UpdateBridgeState(ctx context.Context, state entity.BridgeState) error
	// CreateProcessedTransaction inserts the dedup record. Returns false if the hash already exists.
	CreateProcessedTransaction(ctx context.Context, tx entity.ProcessedTransaction) (bool, error)
	// CreateBurnTransaction inserts a burn record. Returns false if the (owner, nonce) key already exists.
	CreateBurnTransaction(ctx context.Context, tx entity.BurnTransaction) (bool, error)
	// SetBurnTransactionProcessedOnEthereum flips processed_on_ethereum to true.
	// Returns false if it was already true, errs.NotFound if the burn does not exist.
	SetBurnTransactionProcessedOnEthereum(ctx context.Context, owner solana.PublicKey, nonce uint64) (bool, error)
}

type GetBurnTransactionsParams struct {
	Owner               *solana.PublicKey
	ProcessedOnEthereum *bool
	FromNonce           uint64
	Limit               int32
}

type Tx interface {
	// Commit persists every write made since BeginBridgeTx and closes the transaction.
	// Commit on a gateway without an open transaction is a no-op.
	Commit(ctx context.Context) error
	// Rollback discards every write made since BeginBridgeTx and releases held locks.
	// Rollback after Commit is a no-op, so a deferred Rollback is always safe.
	Rollback(ctx context.Context) error
}
