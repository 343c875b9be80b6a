package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	spynerrors "github.com/matzehuels/spyn/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached virtual environments",
	}

	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheListCommand())
	cmd.AddCommand(c.cacheRemoveCommand())
	cmd.AddCommand(c.cacheClearCommand())

	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			root, err := cfg.CacheRoot()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), root)
			return nil
		},
	}
}

// cacheListCommand creates the "cache list" subcommand.
func (c *CLI) cacheListCommand() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List cached environments",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := newStore(cfg)
			if err != nil {
				return err
			}
			entries, err := store.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if quiet {
				for _, e := range entries {
					fmt.Fprintln(out, e.Fingerprint)
				}
				return nil
			}
			if len(entries) == 0 {
				printInfo(out, "No cached environments")
				printDetail(out, "Directory: %s", store.Root())
				return nil
			}
			for _, e := range entries {
				printKeyValue(out, shortFingerprint(e.Fingerprint), e.ModTime.Format(time.DateTime))
				printDetail(out, "%s", e.Path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print full fingerprints only")

	return cmd
}

// cacheRemoveCommand creates the "cache rm" subcommand.
func (c *CLI) cacheRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm FINGERPRINT...",
		Aliases: []string{"remove"},
		Short:   "Remove cached environments",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, fp := range args {
				if err := spynerrors.ValidateFingerprint(fp); err != nil {
					return err
				}
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := newStore(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var missing []string
			for _, fp := range args {
				if !store.Exists(fp) {
					missing = append(missing, fp)
					continue
				}
				if err := store.Remove(fp); err != nil {
					return err
				}
				printSuccess(out, "Removed %s", shortFingerprint(fp))
			}
			if len(missing) > 0 {
				return spynerrors.New(spynerrors.ErrCodeNotFound, "not cached: %s", strings.Join(missing, ", "))
			}
			return nil
		},
		ValidArgsFunction: c.completeFingerprints,
	}
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached environments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := newStore(cfg)
			if err != nil {
				return err
			}

			n, err := store.Clear()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSuccess(out, "Cleared %s", pluralize(n, "environment"))
			printDetail(out, "Directory: %s", store.Root())
			return nil
		},
	}
}

// completeFingerprints offers the cached fingerprints not already on the
// command line.
func (c *CLI) completeFingerprints(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	store, err := newStore(cfg)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	entries, err := store.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	given := make(map[string]bool, len(args))
	for _, a := range args {
		given[a] = true
	}
	var out []cobra.Completion
	for _, e := range entries {
		if given[e.Fingerprint] || !strings.HasPrefix(e.Fingerprint, toComplete) {
			continue
		}
		out = append(out, cobra.CompletionWithDesc(e.Fingerprint, e.ModTime.Format(time.DateTime)))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
