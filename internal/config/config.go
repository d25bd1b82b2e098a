// Package config reads and writes the CLI configuration file.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultFileName is the config file looked up inside the data dir.
const DefaultFileName = "verdant.toml"

// Config is the on-disk configuration for the verdant CLI.
type Config struct {
	DataDir string      `toml:"data_dir"`
	Store   StoreConfig `toml:"store"`
	Images  ImageConfig `toml:"images"`
}

// StoreConfig selects and tunes the document store backend.
// The Type field determines which other fields are relevant.
type StoreConfig struct {
	Type string `toml:"type"` // "fs" or "sqlite"

	// Filesystem-specific fields (only used when Type == "fs")
	WatchExternal bool `toml:"watch_external,omitempty"`

	// SQLite-specific fields (only used when Type == "sqlite")
	DatabaseFile string `toml:"database_file,omitempty"`

	DebounceMillis int `toml:"debounce_millis,omitempty"`
	EventBuffer    int `toml:"event_buffer,omitempty"`
}

// ImageConfig tunes the image store.
type ImageConfig struct {
	DebounceMillis int `toml:"debounce_millis,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default(dataDir string) *Config {
	return &Config{
		DataDir: dataDir,
		Store:   StoreConfig{Type: "fs"},
	}
}

// Debounce converts the store debounce override, zero when unset.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Store.DebounceMillis) * time.Millisecond
}

// ImageDebounce converts the image debounce override, zero when unset.
func (c *Config) ImageDebounce() time.Duration {
	return time.Duration(c.Images.DebounceMillis) * time.Millisecond
}

// Read decodes a Config from the provided reader.
func Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Load reads the config file inside dataDir, falling back to defaults
// when the file does not exist.
func Load(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, DefaultFileName)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Default(dataDir), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "fs"
	}
	return cfg, nil
}

// LoadFile reads the config file at an explicit path. Unlike Load, a
// missing file is an error here: the caller asked for this file.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Dir(path)
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "fs"
	}
	return cfg, nil
}

// Init writes a fresh config file at the conventional path, refusing
// to overwrite an existing one.
func Init(dataDir string, cfg *Config) error {
	path := filepath.Join(dataDir, DefaultFileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := Write(f, cfg); err != nil {
		return fmt.Errorf("initializing config at %s: %w", path, err)
	}
	return nil
}
