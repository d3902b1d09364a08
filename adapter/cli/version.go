package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/felixgeelhaar/slotwise/adapter/cli.Version=...".
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)

var shortVersion bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if shortVersion {
			fmt.Fprintln(out, Version)
			return
		}
		commit, built := buildStamp()
		fmt.Fprintf(out, "slotwise %s (commit %s, built %s)\n", Version, commit, built)
	},
}

// buildStamp falls back to the VCS settings the go tool embeds when the
// ldflags were not set.
func buildStamp() (commit, built string) {
	commit, built = Commit, BuildDate
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && commit == "":
				commit = s.Value
			case s.Key == "vcs.time" && built == "":
				built = s.Value
			}
		}
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if commit == "" {
		commit = "unknown"
	}
	if built == "" {
		built = "unknown"
	}
	return commit, built
}

func init() {
	versionCmd.Flags().BoolVar(&shortVersion, "short", false, "print only the version")
	rootCmd.AddCommand(versionCmd)
}
