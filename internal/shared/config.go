package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Defaults SearchDefaults `toml:"defaults"`
	UI       UIConfig       `toml:"ui"`
	Storage  StorageConfig  `toml:"storage"`
	Logging  LoggingConfig  `toml:"logging"`
}

// APIConfig contains settings for the consumed search API.
type APIConfig struct {
	BaseURL                  string  `toml:"base_url"`
	TimeoutSeconds           int     `toml:"timeout_seconds"`
	AirportRequestsPerSecond float64 `toml:"airport_requests_per_second"`
	SearchRequestsPerSecond  float64 `toml:"search_requests_per_second"`
}

// SearchDefaults contains the default search filter values.
type SearchDefaults struct {
	MaxPrice       float64 `toml:"max_price"`
	MinHour        int     `toml:"min_hour"`
	MaxHour        int     `toml:"max_hour"`
	MinArrivalHour int     `toml:"min_arrival_hour"`
	MaxArrivalHour int     `toml:"max_arrival_hour"`
	DirectOnly     bool    `toml:"direct_only"`
	SameDay        bool    `toml:"same_day"`
	Sort           string  `toml:"sort"`
}

// UIConfig contains interactive-mode tuning knobs.
type UIConfig struct {
	DebounceMs int     `toml:"debounce_ms"`
	HourStep   float64 `toml:"hour_step"`
}

// StorageConfig contains search history database settings.
type StorageConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoggingConfig contains log level and TUI log file settings.
type LoggingConfig struct {
	Level      string `toml:"level"`
	TUILogPath string `toml:"tui_log_path"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// DefaultConfigPath returns the default location of the config file,
// ~/.config/skyscan/config.toml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "skyscan", "config.toml")
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
