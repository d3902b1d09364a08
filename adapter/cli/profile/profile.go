// Package profile holds the CLI commands that manage the stored scheduling profile.
package profile

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/slotwise/adapter/cli"
	profileCommands "github.com/felixgeelhaar/slotwise/internal/profile/application/commands"
	profileQueries "github.com/felixgeelhaar/slotwise/internal/profile/application/queries"
)

// Cmd is the parent command for profile operations
var Cmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your scheduling profile",
	Long: `Manage the recurring commitments, energy periods, default mood and
time zone applied to every suggestion.`,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		p, err := app.GetProfileHandler.Handle(cmd.Context(), profileQueries.GetProfileQuery{UserID: app.CurrentUserID})
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		printProfile(cmd.OutOrStdout(), p)
		return nil
	},
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(addConstraintCmd)
	Cmd.AddCommand(removeConstraintCmd)
	Cmd.AddCommand(setEnergyCmd)
	Cmd.AddCommand(setMoodCmd)
	Cmd.AddCommand(setTimezoneCmd)
}

func requireApp() (*cli.App, error) {
	app := cli.GetApp()
	if app == nil || app.GetProfileHandler == nil || app.ProfileRepo == nil {
		return nil, fmt.Errorf("profile storage is not available: check the database configuration")
	}
	return app, nil
}

// update applies cmd for the current user and prints the result.
func update(c *cobra.Command, command profileCommands.UpdateProfileCommand) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	command.UserID = app.CurrentUserID
	if _, err := app.UpdateProfileHandler.Handle(c.Context(), command); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	p, err := app.GetProfileHandler.Handle(c.Context(), profileQueries.GetProfileQuery{UserID: app.CurrentUserID})
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	printProfile(c.OutOrStdout(), p)
	return nil
}

func printProfile(w io.Writer, p *profileQueries.ProfileDTO) {
	if !p.Stored {
		fmt.Fprintln(w, "No profile stored yet; defaults apply.")
	}
	tz := p.Timezone
	if tz == "" {
		tz = "(not set)"
	}
	fmt.Fprintf(w, "Time zone:    %s\n", tz)
	fmt.Fprintf(w, "Default mood: %s\n", p.DefaultMood)

	periods := make([]string, 0, len(p.EnergyPeriods))
	for _, e := range p.EnergyPeriods {
		periods = append(periods, string(e))
	}
	if len(periods) == 0 {
		periods = append(periods, "none")
	}
	fmt.Fprintf(w, "Energy:       %s\n", strings.Join(periods, ", "))

	if len(p.RecurringConstraints) == 0 {
		fmt.Fprintln(w, "Commitments:  none")
		return
	}
	fmt.Fprintln(w, "Commitments:")
	for _, c := range p.RecurringConstraints {
		days := make([]string, 0, len(c.DaysOfWeek))
		for _, d := range c.DaysOfWeek {
			days = append(days, d.String()[:3])
		}
		line := fmt.Sprintf("  %-12s %s-%s  %s", label(c.Label), c.StartTime, c.EndTime, strings.Join(days, ","))
		if c.AllowMidDayBreak {
			line += "  (lunch break kept free)"
		}
		fmt.Fprintln(w, line)
	}
}

func label(l string) string {
	if l == "" {
		return "-"
	}
	return l
}
