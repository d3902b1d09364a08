package commands

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/slotwise/internal/profile/domain"
	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
	"github.com/google/uuid"
)

// UpdateProfileCommand changes a user's scheduling profile. Nil fields are left untouched.
// The profile is created on first update.
type UpdateProfileCommand struct {
	UserID           uuid.UUID
	Timezone         *string
	AddConstraints   []slots.RecurringConstraint
	RemoveLabels     []string
	EnergyPeriods    []slots.EnergyPeriod
	SetEnergyPeriods bool
	DefaultMood      *slots.Mood
}

// UpdateProfileHandler handles the UpdateProfileCommand.
type UpdateProfileHandler struct {
	repo domain.Repository
}

// NewUpdateProfileHandler creates a new UpdateProfileHandler.
func NewUpdateProfileHandler(repo domain.Repository) *UpdateProfileHandler {
	return &UpdateProfileHandler{repo: repo}
}

// Handle applies the command and persists the profile.
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*domain.Profile, error) {
	profile, err := h.repo.FindByUserID(ctx, cmd.UserID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		profile, err = domain.NewProfile(cmd.UserID, "")
	}
	if err != nil {
		return nil, err
	}

	if cmd.Timezone != nil {
		if err := profile.SetTimezone(*cmd.Timezone); err != nil {
			return nil, err
		}
	}
	for _, label := range cmd.RemoveLabels {
		if err := profile.RemoveConstraint(label); err != nil {
			return nil, err
		}
	}
	for _, c := range cmd.AddConstraints {
		if err := profile.AddConstraint(c); err != nil {
			return nil, err
		}
	}
	if cmd.SetEnergyPeriods {
		if err := profile.SetEnergyPeriods(cmd.EnergyPeriods); err != nil {
			return nil, err
		}
	}
	if cmd.DefaultMood != nil {
		if err := profile.SetDefaultMood(*cmd.DefaultMood); err != nil {
			return nil, err
		}
	}

	if err := h.repo.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
