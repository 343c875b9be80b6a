// Package builder drives the external tool that materializes Python
// environments.
//
// spyn never installs packages itself. [UV] shells out to uv
// (https://docs.astral.sh/uv/) to create a virtual environment and to install
// a requirements manifest into it. The exit status of each uv invocation is
// the only success signal consumed.
package builder

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"

	spynerrors "github.com/matzehuels/spyn/pkg/errors"
	"github.com/matzehuels/spyn/pkg/observability"
)

// DefaultUV is the executable looked up on PATH when no path is configured.
const DefaultUV = "uv"

// Options controls how an environment is created and populated.
type Options struct {
	// Python pins the interpreter (a version like "3.12" or a path).
	// Empty lets uv choose.
	Python string

	// Offline forbids network access.
	Offline bool
}

// Builder creates environments and installs requirements into them.
type Builder interface {
	// Create materializes a fresh environment at dir.
	Create(ctx context.Context, dir string, opts Options) error

	// Install installs the requirements listed in manifest into the
	// environment at dir.
	Install(ctx context.Context, dir, manifest string, opts Options) error
}

// UV implements Builder by running the uv executable.
type UV struct {
	// Path is the uv executable, either a name looked up on PATH or a path.
	Path string

	// Stdout and Stderr receive uv's output. Both default to os.Stderr so
	// that the launched program owns stdout.
	Stdout io.Writer
	Stderr io.Writer

	Logger *log.Logger
	Hooks  observability.ProcessHooks
}

// NewUV creates a uv builder. An empty path means DefaultUV.
func NewUV(path string, logger *log.Logger) *UV {
	if path == "" {
		path = DefaultUV
	}
	if logger == nil {
		logger = log.Default()
	}
	return &UV{
		Path:   path,
		Stdout: os.Stderr,
		Stderr: os.Stderr,
		Logger: logger,
		Hooks:  observability.NoopProcessHooks{},
	}
}

// Locate resolves the uv executable.
func (u *UV) Locate() (string, error) {
	p, err := exec.LookPath(u.Path)
	if err != nil {
		return "", spynerrors.Wrap(spynerrors.ErrCodeBuilderMissing, err,
			"failed locating %s executable; is uv installed? (https://docs.astral.sh/uv/getting-started/installation/)", u.Path)
	}
	return p, nil
}

// Create runs `uv venv` for dir. The environment is created relocatable
// because spyn builds it in a scratch directory and renames it afterwards.
func (u *UV) Create(ctx context.Context, dir string, opts Options) error {
	bin, err := u.Locate()
	if err != nil {
		return err
	}
	u.Logger.Debug("located uv", "path", bin)

	cmd := exec.CommandContext(ctx, bin, createArgs(dir, opts)...)
	if err := u.run(ctx, cmd); err != nil {
		return spynerrors.Wrap(spynerrors.ErrCodeBuild, err, "failed creating virtualenv via uv")
	}
	return nil
}

// Install runs `uv pip install -r manifest` with dir as the active
// environment and working directory.
func (u *UV) Install(ctx context.Context, dir, manifest string, opts Options) error {
	bin, err := u.Locate()
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, bin, installArgs(manifest, opts)...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "VIRTUAL_ENV="+dir)
	if err := u.run(ctx, cmd); err != nil {
		return spynerrors.Wrap(spynerrors.ErrCodeInstall, err, "failed running installation in venv %s", dir)
	}
	return nil
}

func (u *UV) run(ctx context.Context, cmd *exec.Cmd) error {
	cmd.Stdout = u.Stdout
	cmd.Stderr = u.Stderr

	hooks := observability.ProcessOrNoop(u.Hooks)
	args := cmd.Args[1:]
	hooks.OnCommandStart(ctx, u.Path, args)
	u.Logger.Debug("running", "cmd", cmd.Path, "args", args)

	start := time.Now()
	err := cmd.Run()
	hooks.OnCommandComplete(ctx, u.Path, exitCode(cmd, err), time.Since(start))
	return err
}

// exitCode returns the exit status of a finished command, or -1 if it never
// started.
func exitCode(cmd *exec.Cmd, err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}

func createArgs(dir string, opts Options) []string {
	args := []string{"venv", "--relocatable"}
	if opts.Offline {
		args = append(args, "--offline")
	}
	if opts.Python != "" {
		args = append(args, "--python", opts.Python)
	}
	return append(args, dir)
}

func installArgs(manifest string, opts Options) []string {
	args := []string{"pip", "install"}
	if opts.Offline {
		args = append(args, "--offline")
	}
	return append(args, "-r", manifest)
}

// Ensure UV implements Builder.
var _ Builder = (*UV)(nil)
