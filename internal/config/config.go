package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"reelgrip/internal/domain"
	"reelgrip/internal/eventbus"
)

// AppName names the config and state directories
const AppName = "reelgrip"

// Config represents the application configuration
type Config struct {
	Version          int            `toml:"version"`
	DatabasePath     string         `toml:"database_path"`
	Debounce         string         `toml:"debounce"` // duration, e.g. "500ms"
	PageSize         int            `toml:"page_size"`
	CacheSize        int            `toml:"cache_size"`
	TopRatedMinVotes int            `toml:"top_rated_min_votes"`
	DefaultFilter    FilterSettings `toml:"default_filter"`
	UISettings       UISettings     `toml:"ui"`
}

// FilterSettings is the filter the movies screen opens with
type FilterSettings struct {
	Category string `toml:"category"`
	Genre    string `toml:"genre,omitempty"`
	Year     int    `toml:"year,omitempty"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowRatings     bool `toml:"show_ratings"`
	ShowReleaseYear bool `toml:"show_release_year"`
}

// QuietPeriod parses Debounce
func (c *Config) QuietPeriod() (time.Duration, error) {
	d, err := time.ParseDuration(c.Debounce)
	if err != nil {
		return 0, fmt.Errorf("debounce: %w", err)
	}
	return d, nil
}

// Filter converts DefaultFilter into a domain filter
func (c *Config) Filter() (domain.Filter, error) {
	category, err := domain.ParseCategory(c.DefaultFilter.Category)
	if err != nil {
		return domain.Filter{}, fmt.Errorf("default_filter: %w", err)
	}
	return domain.Filter{
		Category: category,
		Genre:    c.DefaultFilter.Genre,
		Year:     c.DefaultFilter.Year,
	}, nil
}

// Validate reports every invalid field
func (c *Config) Validate() error {
	var errs []error

	if d, err := c.QuietPeriod(); err != nil {
		errs = append(errs, err)
	} else if d <= 0 {
		errs = append(errs, fmt.Errorf("debounce must be positive, got %s", c.Debounce))
	}
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page_size must be positive, got %d", c.PageSize))
	}
	if c.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize))
	}
	if c.TopRatedMinVotes < 0 {
		errs = append(errs, fmt.Errorf("top_rated_min_votes must not be negative, got %d", c.TopRatedMinVotes))
	}
	if _, err := c.Filter(); err != nil {
		errs = append(errs, err)
	}
	if c.DefaultFilter.Year < 0 {
		errs = append(errs, fmt.Errorf("default_filter: year must not be negative, got %d", c.DefaultFilter.Year))
	}
	return errors.Join(errs...)
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// ConfigDir returns the directory holding config.toml
func ConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, AppName)
}

// StateDir returns the directory for the catalog database and the log
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "state", AppName)
}

// NewConfigService creates a config service for path; an empty path
// means config.toml in ConfigDir.
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = filepath.Join(ConfigDir(), "config.toml")
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file. A missing file yields the defaults.
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else {
		cfg, err = cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Fields missing
// from the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:          1,
		DatabasePath:     filepath.Join(StateDir(), "catalog.db"),
		Debounce:         "500ms",
		PageSize:         200,
		CacheSize:        128,
		TopRatedMinVotes: 50,
		DefaultFilter: FilterSettings{
			Category: string(domain.CategoryPopular),
		},
		UISettings: UISettings{
			ShowRatings:     true,
			ShowReleaseYear: true,
		},
	}
}
