package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database and calendar connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}
		out := cmd.OutOrStdout()
		if app.Health == nil {
			fmt.Fprintln(out, "ok")
			return nil
		}

		results := app.Health.Check(cmd.Context())
		names := make([]string, 0, len(results))
		for name := range results {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "%-10s %-9s %s\n", name, results[name].Status, results[name].Message)
		}
		fmt.Fprintf(out, "overall: %s\n", app.Health.OverallStatus())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
