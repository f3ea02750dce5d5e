package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvPath names a config file that takes precedence over the search path.
const EnvPath = "QUARKEDIT_CONFIG"

// Loader finds and reads the editor's RC file.
type Loader struct {
	Version      string // "dev" builds also look in the working directory
	OverridePath string // set at link time
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the first config file found. A missing file yields defaults.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// candidates lists config locations in priority order.
func (l *Loader) candidates() []string {
	var paths []string
	if v := os.Getenv(EnvPath); v != "" {
		paths = append(paths, v)
	}
	if l.OverridePath != "" {
		paths = append(paths, l.OverridePath)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, ".quarkeditrc"))
		}
	}
	return append(paths, DefaultPath())
}

// GetConfigPath returns the first existing candidate, or "" if none exist.
func (l *Loader) GetConfigPath() string {
	for _, p := range l.candidates() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultPath is where `config save` writes when no file exists yet.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "quarkedit", "config.rc")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "quarkedit", "config.rc")
}
