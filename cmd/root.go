package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "collabsweep [TOKEN]",
		Short: "Demote members with stale verified-email tracking issues",
		Long: `Scans the tracking repository for open issues assigned to organization
members without a verified organization-domain email. When an issue has been
open for longer than the grace period, the assignee is converted to an outside
collaborator and the issue is closed.

The GitHub token is taken from the first argument, or from GITHUB_TOKEN.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, args, opts)
		},
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Config file (default: global then local config)")
	rootCmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	addSweepFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdConfig(opts))
	rootCmd.AddCommand(NewCmdVersion(opts))
	rootCmd.AddCommand(NewCmdRateLimit(opts))

	return rootCmd
}

// addSweepFlags adds the sweep-specific flags to a command.
func addSweepFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "format", "o", "", "Report format (table, json, none)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "List eligible issues without demoting anyone")

	// TUI flag with tri-state: nil = auto, true = force, false = disable
	cmd.Flags().Var(newTUIFlag(opts), "tui", "Enable/disable TUI progress (default: auto-detect)")
	cmd.Flags().Lookup("tui").NoOptDefVal = "true"
}
