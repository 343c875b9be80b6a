package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spyn/internal/cli"
	spynerrors "github.com/matzehuels/spyn/pkg/errors"
)

func main() {
	c := cli.New(os.Stderr, cli.DefaultLevel())

	// The terminal delivers SIGINT to uv and the launched program as well;
	// spyn keeps running so they can finish and report their own status.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	go func() {
		for range interrupts {
			c.Logger.Debug("interrupted, waiting for child process")
		}
	}()

	if err := run(context.Background(), c); err != nil {
		var exitErr *spynerrors.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "spyn: "+spynerrors.UserMessage(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, c *cli.CLI) error {
	var verbose bool

	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
