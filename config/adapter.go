package config

import (
	"log/slog"
	"net/http"

	"github.com/jmgilman/go/cldfs/fs/cloudinary"
	"github.com/jmgilman/go/cldfs/fs/cloudinary/api"
)

// FSConfig converts the loaded configuration into adapter configuration.
// prefix, when non-empty, overrides the configured URI prefix.
func (c *Config) FSConfig(prefix string, logger *slog.Logger) (cloudinary.Config, error) {
	transport, err := TransportOptions(c.Transport)
	if err != nil {
		return cloudinary.Config{}, err
	}

	opts := []api.Option{
		api.WithRetryPolicy(transport.RetryPolicy),
		api.WithHTTPClient(&http.Client{Timeout: transport.Timeout}),
	}
	if c.Cloudinary.BaseURL != "" {
		opts = append(opts, api.WithBaseURL(c.Cloudinary.BaseURL))
	}

	uriPrefix := c.Cloudinary.URIPrefix
	if prefix != "" {
		uriPrefix = prefix
	}

	return cloudinary.Config{
		CloudName:          c.Cloudinary.CloudName,
		APIKey:             c.Cloudinary.APIKey,
		APISecret:          c.Cloudinary.APISecret,
		URL:                c.Cloudinary.URL,
		URIPrefix:          uriPrefix,
		VisibilityHandling: cloudinary.VisibilityHandling(c.Cloudinary.VisibilityHandling),
		ClientOptions:      opts,
		Logger:             logger,
	}, nil
}
