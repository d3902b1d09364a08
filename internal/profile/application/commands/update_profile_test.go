package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/slotwise/internal/profile/domain"
	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) Save(ctx context.Context, p *domain.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockProfileRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func lunchClub() slots.RecurringConstraint {
	return slots.RecurringConstraint{
		Label:      "lunch club",
		DaysOfWeek: []time.Weekday{time.Wednesday},
		StartTime:  slots.ClockTime(12, 0),
		EndTime:    slots.ClockTime(13, 0),
	}
}

func TestUpdateProfileHandler_CreatesMissingProfile(t *testing.T) {
	repo := new(mockProfileRepo)
	handler := NewUpdateProfileHandler(repo)
	userID := uuid.New()
	mood := slots.MoodTired

	repo.On("FindByUserID", mock.Anything, userID).Return(nil, domain.ErrProfileNotFound)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil)

	profile, err := handler.Handle(context.Background(), UpdateProfileCommand{
		UserID:           userID,
		AddConstraints:   []slots.RecurringConstraint{lunchClub()},
		EnergyPeriods:    []slots.EnergyPeriod{slots.EnergyPeriodMorning},
		SetEnergyPeriods: true,
		DefaultMood:      &mood,
	})

	require.NoError(t, err)
	assert.Equal(t, userID, profile.UserID())
	assert.Len(t, profile.Constraints(), 1)
	assert.Equal(t, []slots.EnergyPeriod{slots.EnergyPeriodMorning}, profile.EnergyPeriods())
	assert.Equal(t, slots.MoodTired, profile.DefaultMood())
	repo.AssertExpectations(t)
}

func TestUpdateProfileHandler_RemovesConstraint(t *testing.T) {
	repo := new(mockProfileRepo)
	handler := NewUpdateProfileHandler(repo)

	existing, err := domain.NewProfile(uuid.New(), "UTC")
	require.NoError(t, err)
	require.NoError(t, existing.AddConstraint(lunchClub()))

	repo.On("FindByUserID", mock.Anything, existing.UserID()).Return(existing, nil)
	repo.On("Save", mock.Anything, existing).Return(nil)

	profile, err := handler.Handle(context.Background(), UpdateProfileCommand{
		UserID:       existing.UserID(),
		RemoveLabels: []string{"lunch club"},
	})

	require.NoError(t, err)
	assert.Empty(t, profile.Constraints())
	repo.AssertExpectations(t)
}

func TestUpdateProfileHandler_ValidationStopsSave(t *testing.T) {
	repo := new(mockProfileRepo)
	handler := NewUpdateProfileHandler(repo)
	userID := uuid.New()
	tz := "Nowhere/Special"

	repo.On("FindByUserID", mock.Anything, userID).Return(nil, domain.ErrProfileNotFound)

	_, err := handler.Handle(context.Background(), UpdateProfileCommand{UserID: userID, Timezone: &tz})

	assert.ErrorIs(t, err, domain.ErrInvalidTimezone)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdateProfileHandler_RepositoryError(t *testing.T) {
	repo := new(mockProfileRepo)
	handler := NewUpdateProfileHandler(repo)
	userID := uuid.New()
	boom := errors.New("disk full")

	repo.On("FindByUserID", mock.Anything, userID).Return(nil, boom)

	_, err := handler.Handle(context.Background(), UpdateProfileCommand{UserID: userID})
	assert.ErrorIs(t, err, boom)
}
