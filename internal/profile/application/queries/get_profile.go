package queries

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/slotwise/internal/profile/domain"
	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
	"github.com/google/uuid"
)

// ProfileDTO is a read model of a profile.
type ProfileDTO struct {
	UserID               uuid.UUID                   `json:"user_id"`
	Timezone             string                      `json:"timezone"`
	RecurringConstraints []slots.RecurringConstraint `json:"recurring_constraints"`
	EnergyPeriods        []slots.EnergyPeriod        `json:"energy_favorable_periods"`
	DefaultMood          slots.Mood                  `json:"default_mood"`
	Stored               bool                        `json:"stored"`
}

// GetProfileQuery asks for one user's profile.
type GetProfileQuery struct {
	UserID uuid.UUID
}

// GetProfileHandler handles the GetProfileQuery.
type GetProfileHandler struct {
	repo domain.Repository
}

// NewGetProfileHandler creates a new GetProfileHandler.
func NewGetProfileHandler(repo domain.Repository) *GetProfileHandler {
	return &GetProfileHandler{repo: repo}
}

// Handle returns the stored profile, or an empty default one with Stored unset.
func (h *GetProfileHandler) Handle(ctx context.Context, q GetProfileQuery) (*ProfileDTO, error) {
	p, err := h.repo.FindByUserID(ctx, q.UserID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return &ProfileDTO{
			UserID:               q.UserID,
			RecurringConstraints: []slots.RecurringConstraint{},
			EnergyPeriods:        []slots.EnergyPeriod{},
			DefaultMood:          slots.MoodNeutral,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &ProfileDTO{
		UserID:               p.UserID(),
		Timezone:             p.Timezone(),
		RecurringConstraints: p.Constraints(),
		EnergyPeriods:        p.EnergyPeriods(),
		DefaultMood:          p.DefaultMood(),
		Stored:               true,
	}, nil
}
