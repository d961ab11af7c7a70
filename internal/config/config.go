// ABOUTME: Vitals configuration management with range overrides.
// ABOUTME: Handles settings, data directory resolution, and storage wiring.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/vitals/internal/storage"
	"github.com/harperreed/vitals/internal/vitals"
)

// Config stores vitals tool configuration.
type Config struct {
	// DataDir is the root directory for data storage; vitals.csv and
	// medicines.csv live here. Supports ~ expansion for home directory.
	// Defaults to ~/.local/share/vitals.
	DataDir string `json:"data_dir,omitempty"`

	// Ranges overrides the plausible intervals enforced when recording
	// measurements. Absent fields keep the built-in defaults.
	Ranges *RangeOverrides `json:"ranges,omitempty"`
}

// RangeOverrides holds optional [min, max] bounds per measurement.
// Bounds are exclusive, matching how the engine validates values.
type RangeOverrides struct {
	Systolic  *[2]int     `json:"systolic,omitempty"`
	Diastolic *[2]int     `json:"diastolic,omitempty"`
	Pulse     *[2]int     `json:"pulse,omitempty"`
	Glucose   *[2]float64 `json:"glucose,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// EngineConfig returns the record engine configuration with any
// configured range overrides applied on top of the defaults.
func (c *Config) EngineConfig() vitals.Config {
	cfg := vitals.DefaultConfig()
	if c.Ranges == nil {
		return cfg
	}
	if v := c.Ranges.Systolic; v != nil {
		cfg.Ranges.Systolic = vitals.Range{Min: v[0], Max: v[1]}
	}
	if v := c.Ranges.Diastolic; v != nil {
		cfg.Ranges.Diastolic = vitals.Range{Min: v[0], Max: v[1]}
	}
	if v := c.Ranges.Pulse; v != nil {
		cfg.Ranges.Pulse = vitals.Range{Min: v[0], Max: v[1]}
	}
	if v := c.Ranges.Glucose; v != nil {
		cfg.Ranges.Glucose = vitals.RangeF{Min: v[0], Max: v[1]}
	}
	return cfg
}

// OpenStorage opens the CSV files rooted at the configured data directory.
func (c *Config) OpenStorage() (*storage.CSV, error) {
	return storage.Open(c.GetDataDir())
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "vitals", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
