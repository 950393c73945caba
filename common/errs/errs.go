package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")

	// InvalidArgument is returned when an argument or configuration value is invalid.
	InvalidArgument = ErrorKind("Invalid Argument")

	// Unsupported is returned when a feature, driver or option is not supported.
	Unsupported = ErrorKind("Unsupported")

	// Conflict is returned when a write would violate a uniqueness constraint.
	Conflict = ErrorKind("Conflict")

	// Timeout is returned when an operation does not finish within its deadline.
	Timeout = ErrorKind("Timeout")

	// SomethingWentWrong is a generic error for unexpected failures.
	SomethingWentWrong = ErrorKind("Something Went Wrong")

	OverflowUint64 = ErrorKind("overflow uint64")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
