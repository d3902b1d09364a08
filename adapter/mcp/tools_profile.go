package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/mcp-go"

	profileCommands "github.com/felixgeelhaar/slotwise/internal/profile/application/commands"
	profileQueries "github.com/felixgeelhaar/slotwise/internal/profile/application/queries"
	"github.com/felixgeelhaar/slotwise/internal/slots/application/dto"
	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

type addConstraintInput struct {
	Label string   `json:"label" jsonschema:"required"`
	Days  []string `json:"days" jsonschema:"required"`
	Start string   `json:"start" jsonschema:"required"`
	End   string   `json:"end" jsonschema:"required"`
	Lunch bool     `json:"lunch,omitempty"`
}

type removeConstraintInput struct {
	Label string `json:"label" jsonschema:"required"`
}

type preferencesInput struct {
	Timezone    string   `json:"timezone,omitempty"`
	Mood        string   `json:"mood,omitempty"`
	Energy      []string `json:"energy,omitempty"`
	ClearEnergy bool     `json:"clear_energy,omitempty"`
}

func registerProfileTools(srv *mcp.Server, t toolset) {
	srv.Tool("profile_show").
		Description("Show the stored scheduling profile: time zone, weekly commitments, energy periods and default mood").
		Handler(t.profileShow)

	srv.Tool("profile_add_constraint").
		Description("Add a labelled weekly commitment during which no slot is suggested; end before start crosses midnight").
		Handler(t.profileAddConstraint)

	srv.Tool("profile_remove_constraint").
		Description("Remove a weekly commitment by label").
		Handler(t.profileRemoveConstraint)

	srv.Tool("profile_set_preferences").
		Description("Set the time zone, default mood or favorable energy periods; empty fields are left unchanged").
		Handler(t.profileSetPreferences)
}

func (t toolset) profileShow(ctx context.Context, _ struct{}) (*profileQueries.ProfileDTO, error) {
	if err := t.requireProfiles(); err != nil {
		return nil, err
	}
	return t.app.GetProfileHandler.Handle(ctx, profileQueries.GetProfileQuery{UserID: t.app.CurrentUserID})
}

func (t toolset) profileAddConstraint(ctx context.Context, input addConstraintInput) (*profileQueries.ProfileDTO, error) {
	if strings.TrimSpace(input.Label) == "" {
		return nil, errors.New("label is required")
	}
	rc, err := dto.RecurringConstraint{
		Label:            input.Label,
		DaysOfWeek:       input.Days,
		StartTime:        input.Start,
		EndTime:          input.End,
		AllowMidDayBreak: input.Lunch,
	}.ToDomain()
	if err != nil {
		return nil, err
	}
	return t.update(ctx, profileCommands.UpdateProfileCommand{AddConstraints: []slots.RecurringConstraint{rc}})
}

func (t toolset) profileRemoveConstraint(ctx context.Context, input removeConstraintInput) (*profileQueries.ProfileDTO, error) {
	return t.update(ctx, profileCommands.UpdateProfileCommand{RemoveLabels: []string{input.Label}})
}

func (t toolset) profileSetPreferences(ctx context.Context, input preferencesInput) (*profileQueries.ProfileDTO, error) {
	var cmd profileCommands.UpdateProfileCommand
	if input.Timezone != "" {
		cmd.Timezone = &input.Timezone
	}
	if input.Mood != "" {
		mood, err := slots.ParseMood(input.Mood)
		if err != nil {
			return nil, err
		}
		cmd.DefaultMood = &mood
	}
	if len(input.Energy) > 0 || input.ClearEnergy {
		cmd.SetEnergyPeriods = true
		for _, p := range input.Energy {
			period, err := slots.ParseEnergyPeriod(p)
			if err != nil {
				return nil, err
			}
			cmd.EnergyPeriods = append(cmd.EnergyPeriods, period)
		}
	}
	return t.update(ctx, cmd)
}

func (t toolset) update(ctx context.Context, cmd profileCommands.UpdateProfileCommand) (*profileQueries.ProfileDTO, error) {
	if err := t.requireProfiles(); err != nil {
		return nil, err
	}
	cmd.UserID = t.app.CurrentUserID
	if _, err := t.app.UpdateProfileHandler.Handle(ctx, cmd); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return t.app.GetProfileHandler.Handle(ctx, profileQueries.GetProfileQuery{UserID: cmd.UserID})
}

func (t toolset) requireProfiles() error {
	if t.app.ProfileRepo == nil || t.app.GetProfileHandler == nil || t.app.UpdateProfileHandler == nil {
		return errors.New("profile storage is not available: check the database configuration")
	}
	return requireUser(t.app.CurrentUserID)
}
