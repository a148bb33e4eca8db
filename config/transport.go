package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/jmgilman/go/cldfs/fs/cloudinary/api"
)

// Transport is the decoded transport section.
type Transport struct {
	api.RetryPolicy `mapstructure:",squash"`

	Timeout time.Duration `mapstructure:"timeout"`
}

// TransportOptions decodes the free-form transport section. Durations may
// be strings ("250ms") or nanosecond integers. Missing keys keep the
// client defaults.
func TransportOptions(options map[string]any) (Transport, error) {
	t := Transport{RetryPolicy: api.DefaultRetryPolicy, Timeout: 60 * time.Second}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      &t,
	})
	if err != nil {
		return Transport{}, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(options); err != nil {
		return Transport{}, fmt.Errorf("failed to decode transport options: %w", err)
	}

	if t.MaxRetries < 0 {
		return Transport{}, fmt.Errorf("transport: max_retries must not be negative")
	}
	if t.Timeout <= 0 {
		return Transport{}, fmt.Errorf("transport: timeout must be positive")
	}
	return t, nil
}
