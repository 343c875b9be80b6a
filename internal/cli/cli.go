// Package cli implements the spyn command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spyn/pkg/buildinfo"
	"github.com/matzehuels/spyn/pkg/builder"
	"github.com/matzehuels/spyn/pkg/config"
	"github.com/matzehuels/spyn/pkg/envcache"
	"github.com/matzehuels/spyn/pkg/launch"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "spyn"

// envLogLevel selects the log level when --verbose is not given.
const envLogLevel = "SPYN_LOG"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Status receives build progress lines. It is stderr in production so
	// that stdout belongs to the launched program.
	Status io.Writer

	// LaunchMode is how the final program is started.
	LaunchMode launch.Mode

	// ConfigPath overrides config.Path() when non-empty.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		Status:     w,
		LaunchMode: launch.DefaultMode,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself prepares an environment and launches the program.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.runCommand()
	root.Version = buildinfo.Version
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/spyn/config.toml)")

	root.AddCommand(c.fingerprintCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Wiring
// =============================================================================

// loadConfig reads the config file named by --config or the default location.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.ConfigPath != "" {
		return config.Load(c.ConfigPath)
	}
	return config.LoadDefault()
}

// newStore opens the environment store at the configured cache root.
func newStore(cfg *config.Config) (*envcache.DirStore, error) {
	root, err := cfg.CacheRoot()
	if err != nil {
		return nil, err
	}
	return envcache.NewDirStore(root), nil
}

// newManager wires the store, the uv builder and the status hooks. At debug
// level uv writes straight to the status writer; otherwise its output is
// held back and only shown when the build fails.
func (c *CLI) newManager(cfg *config.Config, logger *log.Logger) (*envcache.Manager, error) {
	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	uv := builder.NewUV(cfg.UV, logger)
	hooks := newStatusHooks(c.Status)
	if logger.GetLevel() <= log.DebugLevel {
		uv.Stdout = c.Status
		uv.Stderr = c.Status
	} else {
		uv.Stdout = &hooks.output
		uv.Stderr = &hooks.output
		hooks.animate = isTerminal(c.Status)
	}
	uv.Hooks = hooks

	m := envcache.NewManager(store, uv, logger)
	m.Hooks = hooks
	return m, nil
}

// DefaultLevel returns the level named by SPYN_LOG, or LogInfo when it is
// unset or unparsable.
func DefaultLevel() log.Level {
	v := os.Getenv(envLogLevel)
	if v == "" {
		return LogInfo
	}
	level, err := log.ParseLevel(v)
	if err != nil {
		return LogInfo
	}
	return level
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
