package config

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/byterings/figgit/internal/platform"
)

// ConfigFileName is the store file inside the config directory
const ConfigFileName = "config.toml"

// Temporary files younger than this may belong to a save still in progress
const staleTempAge = 10 * time.Minute

// Store persists a Config to a single TOML file. Saves write a temporary file
// in the same directory and rename it over the target.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the store path inside the user config directory
func DefaultPath() (string, error) {
	dir, err := platform.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Path returns the store file path
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the store file exists
func (s *Store) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *Store) tempPattern() string {
	return "." + filepath.Base(s.path) + ".tmp-*"
}

// Load reads the store. A missing file yields an empty config. Temporary
// files left by an interrupted save are removed once they are older than
// staleTempAge; the store file itself is never touched by recovery.
func (s *Store) Load() (*Config, error) {
	s.removeStaleTemps()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("store not found, using empty config", "path", s.path)
			return NewConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreCorrupt, s.path, err)
	}
	if dups := cfg.DuplicateNames(); len(dups) > 0 {
		return nil, fmt.Errorf("%w: %s: duplicate profile names: %s", ErrStoreCorrupt, s.path, strings.Join(dups, ", "))
	}
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if err := cfg.Validate(); err != nil {
		slog.Warn("store has stale entries, run 'figgit doctor --fix'", "path", s.path, "err", err)
	}

	slog.Debug("loaded store", "path", s.path, "profiles", len(cfg.Profiles), "bindings", len(cfg.Bindings))
	return &cfg, nil
}

// Save writes the config atomically
func (s *Store) Save(cfg *Config) error {
	dir := filepath.Dir(s.path)
	if err := platform.MkdirSecure(dir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := platform.CreateTempSecure(dir, s.tempPattern())
	if err != nil {
		return fmt.Errorf("failed to create temporary config: %w", err)
	}
	tmp := f.Name()
	committed := false
	defer func() {
		if !committed {
			f.Close()
			os.Remove(tmp)
		}
	}()

	cfg.Version = CurrentVersion
	w := bufio.NewWriter(f)
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync config: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}
	committed = true

	slog.Debug("saved store", "path", s.path)
	return nil
}

func (s *Store) removeStaleTemps() {
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(s.path), s.tempPattern()))
	if err != nil {
		return
	}
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || time.Since(info.ModTime()) < staleTempAge {
			continue
		}
		if err := os.Remove(m); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("could not remove stale temporary file", "path", m, "err", err)
			continue
		}
		slog.Debug("removed stale temporary file", "path", m)
	}
}
