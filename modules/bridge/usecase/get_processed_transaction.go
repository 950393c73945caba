package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
)

// GetProcessedTransaction returns errs.NotFound if the source transaction has not been minted.
// Entries never change once created, so hits are served from cache.
// The cache holds values and every caller gets its own copy.
func (u *Usecase) GetProcessedTransaction(ctx context.Context, ethereumTxHash ethcommon.Hash) (*entity.ProcessedTransaction, error) {
	if cached, ok := u.processedCache.Get(ethereumTxHash); ok {
		processed := cached.(entity.ProcessedTransaction)
		return &processed, nil
	}
	processed, err := u.bridgeDg.GetProcessedTransaction(ctx, ethereumTxHash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get processed transaction")
	}
	u.processedCache.Add(ethereumTxHash, *processed)
	return processed, nil
}
