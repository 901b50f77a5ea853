package rain

import (
	"errors"
	"fmt"
)

// Lifecycle and shape errors.
var (
	// ErrAlreadyRunning is returned by Start on an engine that is running.
	ErrAlreadyRunning = errors.New("rain: engine already running")

	// ErrRunning indicates an operation that requires an idle engine.
	ErrRunning = errors.New("rain: engine is running")

	// ErrDimensionMismatch indicates grids of different shapes.
	ErrDimensionMismatch = errors.New("rain: grid dimensions do not match")
)

// ConfigurationError reports an invalid construction parameter.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("rain: invalid %s: %s", e.Field, e.Reason)
}

// AllocationError reports a grid or column set that could not be allocated.
type AllocationError struct {
	Rows, Cols int
	Wrapped    error
}

func (e *AllocationError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("rain: allocate %dx%d grid: %v", e.Rows, e.Cols, e.Wrapped)
	}
	return fmt.Sprintf("rain: allocate %dx%d grid", e.Rows, e.Cols)
}

func (e *AllocationError) Unwrap() error {
	return e.Wrapped
}

// StartError wraps a worker startup failure. The engine is idle when it is
// returned.
type StartError struct {
	Worker  string
	Wrapped error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("rain: start %s worker: %v", e.Worker, e.Wrapped)
}

func (e *StartError) Unwrap() error {
	return e.Wrapped
}

// WorkerError records a fault that ended a worker loop.
type WorkerError struct {
	Worker string
	Tick   uint64
	Cause  any
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("rain: %s worker failed at tick %d: %v", e.Worker, e.Tick, e.Cause)
}

func (e *WorkerError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}
