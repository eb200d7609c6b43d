package blit

// Config holds renderer configuration. It is applied once at New and
// immutable thereafter.
type Config struct {
	// MaxRequestsPerFrame bounds the draw request queue. Draw calls
	// beyond the cap fail with ErrQueueFull; nothing is silently
	// truncated. Default: 262144.
	MaxRequestsPerFrame int

	// AtlasPageSize is the edge length of each atlas page in pixels.
	// Must be a power of 2. Clamped to the backend's
	// MaxAtlasPageDimension at init. Default: 4096.
	AtlasPageSize int

	// MaxAtlasPages limits how many pages the atlas may allocate.
	// Registration beyond it fails with *atlas.CapacityError.
	// Default: 32.
	MaxAtlasPages int

	// TextureSlotLimit caps the distinct pages one batch may reference.
	// Clamped to the backend's TextureSlotLimit at init. Default: 16.
	TextureSlotLimit int

	// SampleCount is the multisample level for backends that support
	// it. Must be a power of 2 between 1 and 8. Default: 1.
	SampleCount int
}

// DefaultConfig returns the default renderer configuration.
func DefaultConfig() Config {
	return Config{
		MaxRequestsPerFrame: 262144,
		AtlasPageSize:       4096,
		MaxAtlasPages:       32,
		TextureSlotLimit:    16,
		SampleCount:         1,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxRequestsPerFrame < 1 {
		return &ConfigError{Field: "MaxRequestsPerFrame", Reason: "must be at least 1"}
	}
	if c.AtlasPageSize < 64 {
		return &ConfigError{Field: "AtlasPageSize", Reason: "must be at least 64"}
	}
	if c.AtlasPageSize&(c.AtlasPageSize-1) != 0 {
		return &ConfigError{Field: "AtlasPageSize", Reason: "must be power of 2"}
	}
	if c.MaxAtlasPages < 1 {
		return &ConfigError{Field: "MaxAtlasPages", Reason: "must be at least 1"}
	}
	if c.MaxAtlasPages > 256 {
		return &ConfigError{Field: "MaxAtlasPages", Reason: "must be at most 256"}
	}
	if c.TextureSlotLimit < 1 {
		return &ConfigError{Field: "TextureSlotLimit", Reason: "must be at least 1"}
	}
	if c.SampleCount < 1 || c.SampleCount > 8 || c.SampleCount&(c.SampleCount-1) != 0 {
		return &ConfigError{Field: "SampleCount", Reason: "must be 1, 2, 4, or 8"}
	}
	return nil
}
