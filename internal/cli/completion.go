package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for spyn.

Completions cover flags, subcommands and, for "spyn cache rm", the
fingerprints of the environments currently cached.

To load completions:

Bash:
  $ source <(spyn completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ spyn completion bash > /etc/bash_completion.d/spyn
  # macOS:
  $ spyn completion bash > $(brew --prefix)/etc/bash_completion.d/spyn

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ spyn completion zsh > "${fpath[1]}/_spyn"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ spyn completion fish | source

  # To load completions for each session, execute once:
  $ spyn completion fish > ~/.config/fish/completions/spyn.fish

PowerShell:
  PS> spyn completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> spyn completion powershell > spyn.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}
