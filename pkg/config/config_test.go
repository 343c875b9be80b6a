package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/spyn/internal/testutil"
	spynerrors "github.com/matzehuels/spyn/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
python = "3.12"
offline = true
uv = "/opt/uv"
cache_dir = "/scratch/spyn"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Config{Python: "3.12", Offline: true, UV: "/opt/uv", CacheDir: "/scratch/spyn"}
	if *cfg != want {
		t.Errorf("Load() = %+v, want %+v", *cfg, want)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !spynerrors.Is(err, spynerrors.ErrCodeConfig) {
		t.Errorf("Load of missing file = %v, want code %s", err, spynerrors.ErrCodeConfig)
	}
}

func TestLoadDefaultMissing(t *testing.T) {
	home := t.TempDir()
	testutil.SetHomeDir(t, home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv(EnvConfig, "")

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault without a config file failed: %v", err)
	}
	if *cfg != (Config{}) {
		t.Errorf("LoadDefault() = %+v, want zero config", *cfg)
	}

	t.Setenv(EnvConfig, filepath.Join(home, "missing.toml"))
	if _, err := LoadDefault(); !spynerrors.Is(err, spynerrors.ErrCodeConfig) {
		t.Errorf("LoadDefault with missing %s = %v, want code %s", EnvConfig, err, spynerrors.ErrCodeConfig)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"malformed", "python = ", "parse config file"},
		{"wrong type", "offline = \"yes\"", "parse config file"},
		{"unknown key", "pyhton = \"3.12\"", "unknown keys"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !spynerrors.Is(err, spynerrors.ErrCodeConfig) {
				t.Fatalf("Load error = %v, want code %s", err, spynerrors.ErrCodeConfig)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadExpandsHome(t *testing.T) {
	home := t.TempDir()
	testutil.SetHomeDir(t, home)

	cfg, err := Load(writeConfig(t, `cache_dir = "~/envs"`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CacheDir != filepath.Join(home, "envs") {
		t.Errorf("CacheDir = %q, want %q", cfg.CacheDir, filepath.Join(home, "envs"))
	}
}

func TestPath(t *testing.T) {
	home := t.TempDir()
	testutil.SetHomeDir(t, home)
	t.Setenv(EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", "")

	got, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".config", "spyn", "config.toml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got, _ := Path(); got != filepath.Join("/xdg", "spyn", "config.toml") {
		t.Errorf("Path() with XDG = %q", got)
	}

	t.Setenv(EnvConfig, "/etc/spyn.toml")
	if got, _ := Path(); got != "/etc/spyn.toml" {
		t.Errorf("Path() with %s = %q", EnvConfig, got)
	}
}

func TestCacheRoot(t *testing.T) {
	home := t.TempDir()
	testutil.SetHomeDir(t, home)
	t.Setenv(EnvHome, "")

	cfg := &Config{}
	got, err := cfg.CacheRoot()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".spyn"); got != want {
		t.Errorf("CacheRoot() = %q, want %q", got, want)
	}

	cfg.CacheDir = "/scratch/spyn"
	if got, _ := cfg.CacheRoot(); got != "/scratch/spyn" {
		t.Errorf("CacheRoot() with cache_dir = %q", got)
	}

	t.Setenv(EnvHome, "/override")
	if got, _ := cfg.CacheRoot(); got != "/override" {
		t.Errorf("CacheRoot() with %s = %q", EnvHome, got)
	}
}
