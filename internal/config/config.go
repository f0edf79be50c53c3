// Package config loads and saves the interpreter's TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the tunables an embedder may want to change without
// recompiling: execution limits, machine dimensions, and which
// non-fatal events get logged.
type Config struct {
	// Execution settings
	Execution struct {
		MaxSteps       uint64 `toml:"max_steps"`        // 0 means unlimited
		RegisterCount  int    `toml:"register_count"`   // r0..r(N-1)
		LogOverflow    bool   `toml:"log_overflow"`      // cmd/pasm logs overflow and I/O warnings when this or log_io_warnings is true
		LogIOWarnings  bool   `toml:"log_io_warnings"`   // see log_overflow: the two are not applied separately
		InputBufferCap int    `toml:"input_buffer_size"` // not read: IN uses bufio's default buffer size
	} `toml:"execution"`

	// Persist settings
	Persist struct {
		DefaultFormat string `toml:"default_format"` // json, ron, yaml, bin
		Minify        bool   `toml:"minify"`
		IncludeDebug  bool   `toml:"include_debug"`
	} `toml:"persist"`

	// Logging settings
	Logging struct {
		Level  string `toml:"level"`  // debug, info, warn, error
		Format string `toml:"format"` // text, json
	} `toml:"logging"`
}

// DefaultConfig returns a configuration with built-in default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxSteps = 0
	cfg.Execution.RegisterCount = 30
	cfg.Execution.LogOverflow = true
	cfg.Execution.LogIOWarnings = true
	cfg.Execution.InputBufferCap = 4096

	cfg.Persist.DefaultFormat = "json"
	cfg.Persist.Minify = false
	cfg.Persist.IncludeDebug = false

	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "text"

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "pasm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "pasm")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file is
// not an error: the built-in defaults are returned instead.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
