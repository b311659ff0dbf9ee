package lua

import "errors"

// Errors for host operations.
var (
	// ErrHostClosed is returned when operating on a closed host.
	ErrHostClosed = errors.New("lua host is closed")

	// ErrTimeout is returned when a script exceeds the host timeout.
	ErrTimeout = errors.New("lua execution timeout")

	// ErrNotFunction is returned when a bound name is not a Lua function.
	ErrNotFunction = errors.New("not a lua function")
)
