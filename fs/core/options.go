package core

// Config holds per-call options for write-like operations.
type Config struct {
	// Async asks the provider to finish processing in the background.
	Async bool

	// Visibility requested for the written file. Empty means provider default.
	Visibility string

	// Metadata is attached to the written file where the provider supports it.
	Metadata map[string]string
}

// Option configures a write-like operation.
type Option func(*Config)

// WithAsync sets asynchronous processing.
func WithAsync(async bool) Option {
	return func(c *Config) { c.Async = async }
}

// WithVisibility requests a visibility for the written file.
func WithVisibility(visibility string) Option {
	return func(c *Config) { c.Visibility = visibility }
}

// WithMetadata adds a metadata entry. Repeated keys overwrite.
func WithMetadata(key, value string) Option {
	return func(c *Config) {
		if c.Metadata == nil {
			c.Metadata = make(map[string]string)
		}
		c.Metadata[key] = value
	}
}

// NewConfig applies opts to a zero Config.
func NewConfig(opts ...Option) Config {
	var c Config
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}
