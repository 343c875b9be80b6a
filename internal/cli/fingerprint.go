package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// fingerprintCommand creates the "fingerprint" command, which prints the
// fingerprint and environment path a run with the same flags would use.
// Nothing is built.
func (c *CLI) fingerprintCommand() *cobra.Command {
	opts := &runOptions{}
	var long bool

	cmd := &cobra.Command{
		Use:   "fingerprint [flags] [COMMAND [ARGS...]]",
		Short: "Print the environment fingerprint for a set of requirements",
		Example: `  spyn fingerprint script.py
  spyn fingerprint -d requests -p 3.12`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.merge(cmd, cfg)

			set, err := assembleRequirements(opts, args, c.Logger)
			if err != nil {
				return err
			}
			fp := set.Fingerprint(opts.python)

			out := cmd.OutOrStdout()
			if !long {
				fmt.Fprintln(out, fp)
				return nil
			}

			store, err := newStore(cfg)
			if err != nil {
				return err
			}
			printKeyValue(out, "fingerprint", fp)
			printKeyValue(out, "path", store.Path(fp))
			printKeyValue(out, "cached", fmt.Sprint(store.Exists(fp)))
			if opts.python != "" {
				printKeyValue(out, "python", opts.python)
			}
			for _, r := range set.Sorted() {
				printKeyValue(out, "requirement", r)
			}
			return nil
		},
	}
	opts.bind(cmd)
	cmd.Flags().BoolVarP(&long, "long", "l", false, "also print the path, cache status and requirements")

	return cmd
}
