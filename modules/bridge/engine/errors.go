package engine

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common/errs"
)

const (
	ErrAlreadyInitialized     = errs.ErrorKind("bridge already initialized")
	ErrNotInitialized         = errs.ErrorKind("bridge not initialized")
	ErrBridgePaused           = errs.ErrorKind("bridge is paused")
	ErrAlreadyProcessed       = errs.ErrorKind("transaction already processed")
	ErrInsufficientValidators = errs.ErrorKind("insufficient validator signatures")
	ErrInvalidAmount          = errs.ErrorKind("invalid amount")
	ErrInvalidSourceAddress   = errs.ErrorKind("invalid source address")
	ErrUnauthorized           = errs.ErrorKind("unauthorized")
	ErrLedger                 = errs.ErrorKind("ledger error")
)

var errorKinds = []errs.ErrorKind{
	ErrAlreadyInitialized,
	ErrNotInitialized,
	ErrBridgePaused,
	ErrAlreadyProcessed,
	ErrInsufficientValidators,
	ErrInvalidAmount,
	ErrInvalidSourceAddress,
	ErrUnauthorized,
	ErrLedger,
}

// Kind returns the bridge error kind carried by err, or false if err is not a rejection.
func Kind(err error) (errs.ErrorKind, bool) {
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind, true
		}
	}
	return "", false
}
