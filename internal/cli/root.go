package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spyn/pkg/builder"
	"github.com/matzehuels/spyn/pkg/config"
	spynerrors "github.com/matzehuels/spyn/pkg/errors"
	"github.com/matzehuels/spyn/pkg/launch"
)

// runOptions holds the flags shared by the root command and `fingerprint`.
type runOptions struct {
	deps     []string
	reqFiles []string
	offline  bool
	ipython  bool
	notebook bool
	python   string
	execName string
}

// bind registers the run flags on cmd.
func (o *runOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArrayVarP(&o.deps, "dep", "d", nil, "add a requirement (repeatable)")
	f.StringArrayVarP(&o.reqFiles, "requirements-file", "r", nil, "read requirements from a file (repeatable)")
	f.BoolVar(&o.offline, "offline", false, "never access the network; install from the uv cache only")
	f.BoolVar(&o.ipython, "ipython", false, "run IPython instead of python")
	f.BoolVar(&o.notebook, "notebook", false, "run a Jupyter notebook server")
	f.StringVarP(&o.execName, "exec", "x", "", "run NAME from the environment's bin directory")
	f.StringVarP(&o.python, "python", "p", "", "interpreter selector passed to uv (e.g. 3.12)")
}

// merge fills options not given on the command line from cfg.
func (o *runOptions) merge(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("python") && cfg.Python != "" {
		o.python = cfg.Python
	}
	if !cmd.Flags().Changed("offline") && cfg.Offline {
		o.offline = true
	}
}

func (o *runOptions) builderOptions() builder.Options {
	return builder.Options{Python: o.python, Offline: o.offline}
}

// runCommand creates the root command: prepare an environment for the
// requested requirements, then start the program inside it.
func (c *CLI) runCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   appName + " [flags] [COMMAND [ARGS...]]",
		Short: "Run Python with automatically managed virtual environments",
		Long: `spyn runs a Python program inside a virtual environment holding exactly the
requirements it needs. Environments are built once with uv and cached under
~/.spyn by the fingerprint of their requirement set and interpreter.

Requirements come from --dep, --requirements-file, and marker comments in
the script itself:

    import requests  # spyn
    from bs4 import BeautifulSoup  # fades

Use -- to pass flags through to the program unchanged.`,
		Example: `  spyn script.py
  spyn -d requests -d rich -- -c "import requests, rich"
  spyn --ipython -d numpy
  spyn -x pytest -r requirements-dev.txt -- tests/`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRun(cmd, opts, args)
		},
	}
	opts.bind(cmd)

	return cmd
}

func (c *CLI) runRun(cmd *cobra.Command, opts *runOptions, args []string) error {
	ctx := withLogger(cmd.Context(), c.Logger)
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts.merge(cmd, cfg)

	if opts.execName != "" {
		if err := spynerrors.ValidateExecutableName(opts.execName); err != nil {
			return err
		}
	}

	prog := newProgress(logger, "assemble")
	set, err := assembleRequirements(opts, args, logger)
	if err != nil {
		return err
	}
	prog.done()
	logger.Debug("requirements", "deps", set.Sorted(), "python", opts.python)

	mgr, err := c.newManager(cfg, logger)
	if err != nil {
		return err
	}

	prog = newProgress(logger, "ensure")
	env, err := mgr.Ensure(ctx, set, opts.builderOptions())
	if err != nil {
		return spynerrors.Wrap(spynerrors.GetCode(err), err, "failed preparing virtual environment")
	}
	prog.done()

	fe := launch.Select(opts.ipython, opts.notebook, opts.execName)
	command := launch.Resolve(env.Path, fe, args, os.Environ())
	logger.Debug("launching", "frontend", fe.Kind, "mode", c.LaunchMode, "cmd", command.String())

	res, err := command.Run(c.LaunchMode)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &spynerrors.ExitError{Code: res.ExitCode}
	}
	return nil
}
