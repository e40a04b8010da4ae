package lookup

import (
	"fmt"

	"github.com/rs/zerolog"

	"friendsearch/internal/config"
)

// FromConfig builds the backend selected by backend.mode
func FromConfig(settings config.BackendSettings, logger zerolog.Logger) (Service, error) {
	switch settings.Mode {
	case config.BackendMock:
		return NewMockService(settings.Latency.Std()), nil
	case config.BackendHTTP:
		return NewHTTPService(settings.BaseURL, HTTPOptions{
			Timeout:    settings.Timeout.Std(),
			MaxRetries: settings.MaxRetries,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown backend mode %q", settings.Mode)
	}
}
