package profile

import (
	"github.com/spf13/cobra"

	profileCommands "github.com/felixgeelhaar/slotwise/internal/profile/application/commands"
	"github.com/felixgeelhaar/slotwise/internal/slots/application/dto"
	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

var (
	constraintLabel string
	constraintDays  []string
	constraintStart string
	constraintEnd   string
	constraintLunch bool
)

var addConstraintCmd = &cobra.Command{
	Use:   "add-constraint",
	Short: "Add a weekly commitment",
	Long: `Add a weekly block during which no slot is suggested.

Examples:
  slotwise profile add-constraint --label work --days mon,tue,wed,thu,fri --start 09:00 --end 17:00 --lunch
  slotwise profile add-constraint --label sleep --days mon,tue,wed,thu,fri,sat,sun --start 23:00 --end 07:00`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rc, err := dto.RecurringConstraint{
			Label:            constraintLabel,
			DaysOfWeek:       constraintDays,
			StartTime:        constraintStart,
			EndTime:          constraintEnd,
			AllowMidDayBreak: constraintLunch,
		}.ToDomain()
		if err != nil {
			return err
		}
		return update(cmd, profileCommands.UpdateProfileCommand{
			AddConstraints: []slots.RecurringConstraint{rc},
		})
	},
}

var removeConstraintCmd = &cobra.Command{
	Use:   "remove-constraint <label>",
	Short: "Remove a weekly commitment by label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return update(cmd, profileCommands.UpdateProfileCommand{
			RemoveLabels: []string{args[0]},
		})
	},
}

func init() {
	addConstraintCmd.Flags().StringVarP(&constraintLabel, "label", "l", "", "name used to remove the commitment later")
	addConstraintCmd.Flags().StringSliceVar(&constraintDays, "days", nil, "weekdays, e.g. mon,tue or monday")
	addConstraintCmd.Flags().StringVar(&constraintStart, "start", "", "start time (HH:MM)")
	addConstraintCmd.Flags().StringVar(&constraintEnd, "end", "", "end time (HH:MM), earlier than start to cross midnight")
	addConstraintCmd.Flags().BoolVar(&constraintLunch, "lunch", false, "keep the midday break free")
	_ = addConstraintCmd.MarkFlagRequired("days")
	_ = addConstraintCmd.MarkFlagRequired("start")
	_ = addConstraintCmd.MarkFlagRequired("end")
}
