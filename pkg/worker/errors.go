package worker

import (
	"errors"
	"fmt"

	"github.com/teslashibe/eyeguard/pkg/landmarks"
)

var (
	// ErrWorkerClosed is returned when the worker pipe is gone. It matches
	// landmarks.ErrSourceClosed.
	ErrWorkerClosed = fmt.Errorf("worker: %w", landmarks.ErrSourceClosed)

	// ErrMessageTooLarge is returned for frames over MaxMessageSize.
	ErrMessageTooLarge = errors.New("worker: message too large")
)

// PredictError is an error reported by the worker itself.
type PredictError struct {
	Message string
}

// Error implements the error interface.
func (e *PredictError) Error() string {
	return fmt.Sprintf("worker: predict: %s", e.Message)
}
