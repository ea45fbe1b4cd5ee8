package errors

import "errors"

var (
	// ErrUnavailable - error, which signifies that no statistics were committed yet
	ErrUnavailable = errors.New("statistics unavailable")
	// ErrNotFound - error, which signifies that provided device is not registered
	ErrNotFound = errors.New("not found")
	// ErrCtxDone - error, which signifies that provided ctx was done
	ErrCtxDone = errors.New("ctx is done")
)
