package wgpu

import "errors"

// Backend errors.
var (
	// ErrNoGPU is returned when no usable GPU adapter is found.
	ErrNoGPU = errors.New("wgpu: no usable GPU adapter")

	// ErrNotInitialized is returned when the backend is used before Init.
	ErrNotInitialized = errors.New("wgpu: backend not initialized")

	// ErrUnknownPage is returned when a batch references an atlas page
	// that was never uploaded.
	ErrUnknownPage = errors.New("wgpu: batch references unknown atlas page")

	// ErrBadProvider is returned when a device provider does not expose
	// HAL types.
	ErrBadProvider = errors.New("wgpu: provider does not expose HAL device and queue")
)
