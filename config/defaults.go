package config

import "strings"

// DefaultPushConcurrency is the default number of concurrent uploads.
const DefaultPushConcurrency = 4

// ApplyDefaults fills zero values with defaults and normalizes case.
// Explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	if cfg.Cloudinary.VisibilityHandling == "" {
		cfg.Cloudinary.VisibilityHandling = "throw"
	}
	cfg.Cloudinary.VisibilityHandling = strings.ToLower(cfg.Cloudinary.VisibilityHandling)

	if cfg.Transport == nil {
		cfg.Transport = make(map[string]any)
	}

	if cfg.Push.Concurrency == 0 {
		cfg.Push.Concurrency = DefaultPushConcurrency
	}
}

// Default returns a configuration with every default applied and
// placeholder credentials, as written by config init.
func Default() *Config {
	cfg := &Config{
		Cloudinary: CloudinaryConfig{
			CloudName: "my-cloud",
			APIKey:    "my-api-key",
			APISecret: "my-api-secret",
		},
		Transport: map[string]any{
			"max_retries": 3,
			"wait_min":    "250ms",
			"wait_max":    "5s",
			"timeout":     "60s",
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
