package errs

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/withstack"
)

// PublicError is an error that, when caught by error handler, should return a user-friendly error response to the user. Responses vary between each protocol (http, grpc, etc.).
type PublicError struct {
	err     error
	message string
	code    string // code is optional, it can be used to identify the error type
	status  int    // status is optional, error handler falls back to its default status
}

func (p PublicError) Error() string {
	return p.err.Error()
}

func (p PublicError) Message() string {
	return p.message
}

func (p PublicError) Code() string {
	return p.code
}

// Status returns the suggested protocol status (e.g. HTTP status code), or 0 if unset.
func (p PublicError) Status() int {
	return p.status
}

func (p PublicError) Unwrap() error {
	return p.err
}

func NewPublicError(message string) error {
	return withstack.WithStackDepth(&PublicError{err: errors.New(message), message: message}, 1)
}

func NewPublicErrorWithCode(message string, code string) error {
	return withstack.WithStackDepth(&PublicError{err: errors.New(message), message: message, code: code}, 1)
}

func WithPublicMessage(err error, prefix string) error {
	if err == nil {
		return nil
	}
	return withstack.WithStackDepth(&PublicError{err: err, message: publicMessage(err, prefix)}, 1)
}

func WithPublicMessageCode(err error, prefix string, code string) error {
	if err == nil {
		return nil
	}
	return withstack.WithStackDepth(&PublicError{err: err, message: publicMessage(err, prefix), code: code}, 1)
}

// WithPublicStatus wraps err as a PublicError with the given message, code and protocol status.
// The message is returned as-is to the client, the wrapped error is kept for logging and errors.Is.
func WithPublicStatus(err error, status int, code string, message string) error {
	if err == nil {
		return nil
	}
	return withstack.WithStackDepth(&PublicError{err: err, message: message, code: code, status: status}, 1)
}

func publicMessage(err error, prefix string) string {
	if prefix != "" {
		return fmt.Sprintf("%s: %s", prefix, err.Error())
	}
	return err.Error()
}
