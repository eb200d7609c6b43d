package blit

// Option configures a Renderer during creation.
//
// Example:
//
//	// Explicit backend selection
//	r, err := blit.New(cfg, blit.WithBackendName(blit.BackendHeadless))
//
//	// Dependency injection of a backend instance
//	r, err := blit.New(cfg, blit.WithBackend(myBackend))
type Option func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	backend     Backend
	backendName string
}

// WithBackend sets the submission backend instance directly. Use this
// for dependency injection; the renderer still calls Init on it.
func WithBackend(b Backend) Option {
	return func(o *rendererOptions) {
		o.backend = b
	}
}

// WithBackendName selects a registered backend by name instead of the
// priority default.
func WithBackendName(name string) Option {
	return func(o *rendererOptions) {
		o.backendName = name
	}
}
