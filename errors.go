package blit

import (
	"errors"
	"fmt"
)

// Session and queue errors. These indicate caller misuse: they are
// surfaced immediately and never mutate frame state.
var (
	// ErrSessionOpen is returned by Begin when a frame is already open.
	ErrSessionOpen = errors.New("blit: frame session already open")

	// ErrSessionClosed is returned by draw calls and End when no frame
	// is open.
	ErrSessionClosed = errors.New("blit: no open frame session")

	// ErrQueueFull is returned when a draw call would exceed the
	// configured per-frame request capacity. The request is not
	// enqueued; nothing else about the frame changes.
	ErrQueueFull = errors.New("blit: per-frame request capacity exceeded")

	// ErrNoBackend is returned by New when no submission backend is
	// registered or selected.
	ErrNoBackend = errors.New("blit: no submission backend available")

	// ErrShutdown is returned when operating on a renderer after Shutdown.
	ErrShutdown = errors.New("blit: renderer has been shut down")
)

// SubmitError wraps a failure reported by the submission backend.
// It is the only retryable error in the pipeline: the frame that
// produced it has been discarded in full, the session is closed, and
// the caller may recreate backend resources and try again next frame.
type SubmitError struct {
	// Backend is the name of the backend that failed.
	Backend string

	// Batches is the number of batches in the discarded frame.
	Batches int

	// Err is the underlying backend error.
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("blit: backend %q failed submitting %d batches: %v",
		e.Backend, e.Batches, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// ConfigError reports an invalid configuration field at init time.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "blit: invalid config." + e.Field + ": " + e.Reason
}
