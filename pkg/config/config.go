// Package config loads spyn's optional TOML configuration file.
//
// Example ~/.config/spyn/config.toml:
//
//	python = "3.12"
//	offline = false
//	uv = "/opt/uv/bin/uv"
//	cache_dir = "/scratch/spyn"
//
// Every key is optional and command-line flags take precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	spynerrors "github.com/matzehuels/spyn/pkg/errors"
)

const (
	appName  = "spyn"
	fileName = "config.toml"

	// EnvConfig overrides the config file location.
	EnvConfig = "SPYN_CONFIG"
	// EnvHome overrides the cache root.
	EnvHome = "SPYN_HOME"
)

// Config holds user defaults.
type Config struct {
	// Python is the default interpreter selector.
	Python string `toml:"python"`
	// Offline makes every build avoid the network.
	Offline bool `toml:"offline"`
	// UV is the uv executable name or path.
	UV string `toml:"uv"`
	// CacheDir replaces ~/.spyn as the cache root.
	CacheDir string `toml:"cache_dir"`
}

// Path returns the config file location: $SPYN_CONFIG, else
// $XDG_CONFIG_HOME/spyn/config.toml, else ~/.config/spyn/config.toml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", spynerrors.Wrap(spynerrors.ErrCodeConfig, err, "get home dir")
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the config file at path. The file must exist; malformed TOML
// and unknown keys are errors too.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, spynerrors.Wrap(spynerrors.ErrCodeConfig, err, "read config file %s", path)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, spynerrors.Wrap(spynerrors.ErrCodeConfig, err, "parse config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, spynerrors.New(spynerrors.ErrCodeConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.CacheDir = expandHome(cfg.CacheDir)
	return &cfg, nil
}

// LoadDefault loads the config file from Path(). A missing file at the
// XDG location yields an empty Config; a file named by $SPYN_CONFIG must
// exist.
func LoadDefault() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	if os.Getenv(EnvConfig) == "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return &Config{}, nil
		}
	}
	return Load(path)
}

// CacheRoot returns the environment cache root: $SPYN_HOME, else the
// configured cache_dir, else ~/.spyn.
func (c *Config) CacheRoot() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", spynerrors.Wrap(spynerrors.ErrCodeIO, err, "failed getting home directory")
	}
	return filepath.Join(home, "."+appName), nil
}

func expandHome(p string) string {
	rest, ok := strings.CutPrefix(p, "~/")
	if !ok {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}
