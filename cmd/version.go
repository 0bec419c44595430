package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo records build metadata passed in from main. Empty values
// keep the defaults.
func SetVersionInfo(v, c, d string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		date = d
	}
}

// NewCmdVersion creates the version command. Besides build metadata it
// prints the organization and tracking repository a sweep would act on, so
// an operator can check the target before running with write access.
func NewCmdVersion(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information and the configured sweep target",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			writeVersion(cmd.OutOrStdout(), opts.ConfigPath)
		},
	}
}

func writeVersion(w io.Writer, configPath string) {
	fmt.Fprintf(w, "collabsweep %s\n", version)
	fmt.Fprintf(w, "  commit: %s\n", commit)
	fmt.Fprintf(w, "  built:  %s\n", date)

	cfg, err := loadConfig(configPath)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  target: unavailable (%v)\n", err)
	case cfg.Organization == "" || cfg.Repository == "":
		fmt.Fprintln(w, "  target: not configured")
	default:
		fmt.Fprintf(w, "  target: %s/%s\n", cfg.Organization, cfg.Repository)
	}
}
