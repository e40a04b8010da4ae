package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"friendsearch/internal/eventbus"
)

// DefaultFileName is the config file looked up in the working directory
const DefaultFileName = "friendsearch.toml"

// EnvPrefix is the prefix for environment overrides, e.g. FRIENDSEARCH_SEARCH_DEBOUNCE=250ms
const EnvPrefix = "FRIENDSEARCH"

// Backend modes
const (
	BackendMock = "mock"
	BackendHTTP = "http"
)

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version"`
	Search  SearchSettings  `toml:"search"`
	Backend BackendSettings `toml:"backend"`
	Server  ServerSettings  `toml:"server"`
	Log     LogSettings     `toml:"log"`
	UI      UISettings      `toml:"ui"`
}

// SearchSettings controls the keystroke pipeline
type SearchSettings struct {
	MinLength int      `toml:"min_length" envconfig:"MIN_LENGTH"`
	Debounce  Duration `toml:"debounce" envconfig:"DEBOUNCE"`
	Workers   int      `toml:"workers" envconfig:"WORKERS"`
}

// BackendSettings selects and tunes the lookup service
type BackendSettings struct {
	Mode       string   `toml:"mode" envconfig:"MODE"`
	BaseURL    string   `toml:"base_url" envconfig:"BASE_URL"`
	Latency    Duration `toml:"latency" envconfig:"LATENCY"`
	Timeout    Duration `toml:"timeout" envconfig:"TIMEOUT"`
	MaxRetries int      `toml:"max_retries" envconfig:"MAX_RETRIES"`
}

// ServerSettings configures the HTTP mock backend
type ServerSettings struct {
	Addr string `toml:"addr" envconfig:"ADDR"`
}

// LogSettings configures the log file
type LogSettings struct {
	File  string `toml:"file" envconfig:"FILE"`
	Level string `toml:"level" envconfig:"LEVEL"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ToastDuration Duration `toml:"toast_duration" envconfig:"TOAST_DURATION"`
	HistorySize   int      `toml:"history_size" envconfig:"HISTORY_SIZE"`
}

// Duration is a time.Duration written as a string ("500ms") in TOML and env vars
type Duration time.Duration

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service bound to path.
// An empty path means DefaultFileName in the working directory.
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultFileName
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// Load loads the configuration from the bound file, falling back to defaults
// when it does not exist, then applies environment overrides
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}

	return cfg, nil
}

// Save saves the configuration to the bound file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path.
// Keys missing from the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays FRIENDSEARCH_* environment variables onto cfg.
// Unset variables leave the current values alone.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}
	return nil
}

// Validate checks that the settings can drive a coordinator
func (c *Config) Validate() error {
	var errs []error
	if c.Search.MinLength < 1 {
		errs = append(errs, fmt.Errorf("search.min_length must be at least 1, got %d", c.Search.MinLength))
	}
	if c.Search.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("search.debounce must be positive"))
	}
	if c.Search.Workers < 1 {
		errs = append(errs, fmt.Errorf("search.workers must be at least 1, got %d", c.Search.Workers))
	}
	switch c.Backend.Mode {
	case BackendMock:
		if c.Backend.Latency < 0 {
			errs = append(errs, fmt.Errorf("backend.latency must not be negative"))
		}
	case BackendHTTP:
		if c.Backend.BaseURL == "" {
			errs = append(errs, fmt.Errorf("backend.base_url is required for the http backend"))
		}
		if c.Backend.Timeout <= 0 {
			errs = append(errs, fmt.Errorf("backend.timeout must be positive"))
		}
		if c.Backend.MaxRetries < 0 {
			errs = append(errs, fmt.Errorf("backend.max_retries must not be negative"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend.mode %q", c.Backend.Mode))
	}
	if c.UI.ToastDuration <= 0 {
		errs = append(errs, fmt.Errorf("ui.toast_duration must be positive"))
	}
	return errors.Join(errs...)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Search: SearchSettings{
			MinLength: 3,
			Debounce:  Duration(500 * time.Millisecond),
			Workers:   4,
		},
		Backend: BackendSettings{
			Mode:       BackendMock,
			BaseURL:    "http://localhost:8085",
			Latency:    Duration(time.Second),
			Timeout:    Duration(5 * time.Second),
			MaxRetries: 3,
		},
		Server: ServerSettings{
			Addr: ":8085",
		},
		Log: LogSettings{
			File:  "friendsearch.log",
			Level: "info",
		},
		UI: UISettings{
			ToastDuration: Duration(3500 * time.Millisecond),
			HistorySize:   200,
		},
	}
}
