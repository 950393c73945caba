package httphandler

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/modules/bridge/engine"
)

var kindStatus = map[errs.ErrorKind]int{
	engine.ErrAlreadyInitialized:     http.StatusConflict,
	engine.ErrAlreadyProcessed:       http.StatusConflict,
	engine.ErrBridgePaused:           http.StatusServiceUnavailable,
	engine.ErrInsufficientValidators: http.StatusUnprocessableEntity,
	engine.ErrInvalidAmount:          http.StatusBadRequest,
	engine.ErrInvalidSourceAddress:   http.StatusBadRequest,
	engine.ErrUnauthorized:           http.StatusForbidden,
	engine.ErrLedger:                 http.StatusBadGateway,
	engine.ErrNotInitialized:         http.StatusNotFound,
}

// publicError exposes bridge rejections to the client, anything else is returned unchanged.
func publicError(err error) error {
	if err == nil {
		return nil
	}
	if kind, ok := engine.Kind(err); ok {
		return errs.WithPublicStatus(err, kindStatus[kind], errorCode(kind), string(kind))
	}
	if errors.Is(err, errs.NotFound) {
		return errs.WithPublicStatus(err, http.StatusNotFound, errorCode(errs.NotFound), "not found")
	}
	return err
}

func errorCode(kind errs.ErrorKind) string {
	return strings.ReplaceAll(strings.ToLower(string(kind)), " ", "_")
}

func errUnauthenticated(err error) error {
	return errs.WithPublicStatus(err, http.StatusUnauthorized, "unauthenticated", "request signature is missing or invalid")
}
