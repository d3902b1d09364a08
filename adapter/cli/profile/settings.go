package profile

import (
	"github.com/spf13/cobra"

	profileCommands "github.com/felixgeelhaar/slotwise/internal/profile/application/commands"
	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

var setEnergyCmd = &cobra.Command{
	Use:   "set-energy [period...]",
	Short: "Set the periods when you have the most energy",
	Long: `Set the favorable energy periods: morning, afternoon, evening, night.
Without arguments the periods are cleared.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		periods := make([]slots.EnergyPeriod, 0, len(args))
		for _, a := range args {
			p, err := slots.ParseEnergyPeriod(a)
			if err != nil {
				return err
			}
			periods = append(periods, p)
		}
		return update(cmd, profileCommands.UpdateProfileCommand{
			EnergyPeriods:    periods,
			SetEnergyPeriods: true,
		})
	},
}

var setMoodCmd = &cobra.Command{
	Use:   "set-mood <energetic|neutral|tired>",
	Short: "Set the mood used when a request gives none",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mood, err := slots.ParseMood(args[0])
		if err != nil {
			return err
		}
		return update(cmd, profileCommands.UpdateProfileCommand{DefaultMood: &mood})
	},
}

var setTimezoneCmd = &cobra.Command{
	Use:   "set-timezone <zone>",
	Short: "Set the IANA time zone for day boundaries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tz := args[0]
		return update(cmd, profileCommands.UpdateProfileCommand{Timezone: &tz})
	},
}
