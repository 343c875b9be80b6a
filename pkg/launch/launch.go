// Package launch starts the program a spyn run was asked for inside a
// prepared environment.
//
// On Unix the current process image is replaced ([ModeExec]); spyn never
// regains control after a successful launch. Where that is not available the
// program is spawned and waited for ([ModeSpawn]) and its exit code is handed
// back so the caller can exit with it.
package launch

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	spynerrors "github.com/matzehuels/spyn/pkg/errors"
)

// Kind identifies a front-end.
type Kind int

const (
	KindPython Kind = iota
	KindIPython
	KindNotebook
	KindExec
)

func (k Kind) String() string {
	switch k {
	case KindIPython:
		return "ipython"
	case KindNotebook:
		return "notebook"
	case KindExec:
		return "exec"
	default:
		return "python"
	}
}

// Frontend is the program started inside the environment.
type Frontend struct {
	Kind Kind
	// Name is the executable under <env>/bin for KindExec.
	Name string
}

// Select picks the front-end from the CLI switches. When several are set the
// first in this order wins: ipython, notebook, exec, plain python.
func Select(ipython, notebook bool, execName string) Frontend {
	switch {
	case ipython:
		return Frontend{Kind: KindIPython}
	case notebook:
		return Frontend{Kind: KindNotebook}
	case execName != "":
		return Frontend{Kind: KindExec, Name: execName}
	default:
		return Frontend{Kind: KindPython}
	}
}

// Mode is how a Command is started.
type Mode int

const (
	// ModeExec replaces the current process image.
	ModeExec Mode = iota
	// ModeSpawn runs the program as a child and waits for it.
	ModeSpawn
)

func (m Mode) String() string {
	if m == ModeExec {
		return "exec"
	}
	return "spawn"
}

// Command is a resolved program invocation.
type Command struct {
	// Path is the executable; it is also passed as argv[0].
	Path string
	// Args excludes argv[0].
	Args []string
	Env  []string
}

// Result describes a launch that returned control to the caller.
type Result struct {
	Mode     Mode
	ExitCode int
}

// Resolve builds the command for frontend inside the environment at envDir.
// args are appended verbatim. environ is the base environment, usually
// os.Environ().
func Resolve(envDir string, fe Frontend, args []string, environ []string) *Command {
	bin := filepath.Join(envDir, "bin")
	cmd := &Command{
		Path: filepath.Join(bin, "python"),
		Env:  append([]string(nil), environ...),
	}

	switch fe.Kind {
	case KindIPython:
		cmd.Args = []string{"-m", "IPython"}
	case KindNotebook:
		// jupyter locates its kernels and helpers through PATH
		cmd.Env = prependPath(cmd.Env, bin)
		cmd.Args = []string{"-m", "jupyter", "notebook"}
	case KindExec:
		cmd.Path = filepath.Join(bin, fe.Name)
		cmd.Env = prependPath(cmd.Env, bin)
	}

	cmd.Args = append(cmd.Args, args...)
	return cmd
}

// prependPath returns environ with dir in front of PATH.
func prependPath(environ []string, dir string) []string {
	for i, kv := range environ {
		if v, ok := strings.CutPrefix(kv, "PATH="); ok {
			if v == "" {
				environ[i] = "PATH=" + dir
			} else {
				environ[i] = "PATH=" + dir + string(os.PathListSeparator) + v
			}
			return environ
		}
	}
	return append(environ, "PATH="+dir)
}

// Run starts the command in the given mode. In ModeExec a successful call
// never returns. In ModeSpawn the child's exit code is reported in Result;
// a non-zero exit is not an error.
func (c *Command) Run(mode Mode) (*Result, error) {
	if mode == ModeExec {
		err := c.exec()
		return nil, spynerrors.Wrap(spynerrors.ErrCodeLaunch, err, "failed running process %s", c)
	}
	return c.spawn()
}

func (c *Command) spawn() (*Result, error) {
	cmd := exec.Command(c.Path, c.Args...)
	cmd.Env = c.Env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &Result{Mode: ModeSpawn, ExitCode: exitErr.ExitCode()}, nil
	}
	if err != nil {
		return nil, spynerrors.Wrap(spynerrors.ErrCodeLaunch, err, "failed running process %s", c)
	}
	return &Result{Mode: ModeSpawn, ExitCode: 0}, nil
}

// String renders the command line for logs.
func (c *Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}
