// Package app wires configuration, plugins, data and the grid into one
// running instance and exports rendered frames.
package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrNoData is returned when no row source was given.
	ErrNoData = errors.New("no data source")

	// ErrShutdown is returned by operations on a shut down application.
	ErrShutdown = errors.New("application shut down")
)

// InitError reports the component that failed during startup.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
