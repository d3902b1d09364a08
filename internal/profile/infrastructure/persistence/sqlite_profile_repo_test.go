package persistence

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/slotwise/internal/profile/domain"
	"github.com/felixgeelhaar/slotwise/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/slotwise/internal/shared/infrastructure/database/sqlite"
	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

func setupProfileTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: filepath.Join(t.TempDir(), "profiles.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.Migrate(ctx))
	return conn.(*sqlite.Connection).DB()
}

func workHours() slots.RecurringConstraint {
	return slots.RecurringConstraint{
		Label:            "work",
		DaysOfWeek:       []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		StartTime:        slots.ClockTime(9, 0),
		EndTime:          slots.ClockTime(17, 0),
		AllowMidDayBreak: true,
	}
}

func TestSQLiteProfileRepository_SaveAndFind(t *testing.T) {
	repo := NewSQLiteProfileRepository(setupProfileTestDB(t))
	ctx := context.Background()

	p, err := domain.NewProfile(uuid.New(), "UTC")
	require.NoError(t, err)
	require.NoError(t, p.AddConstraint(workHours()))
	require.NoError(t, p.SetEnergyPeriods([]slots.EnergyPeriod{slots.EnergyPeriodMorning, slots.EnergyPeriodEvening}))
	require.NoError(t, p.SetDefaultMood(slots.MoodEnergetic))

	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByUserID(ctx, p.UserID())
	require.NoError(t, err)
	assert.Equal(t, p.UserID(), found.UserID())
	assert.Equal(t, "UTC", found.Timezone())
	assert.Equal(t, []slots.RecurringConstraint{workHours()}, found.Constraints())
	assert.Equal(t, []slots.EnergyPeriod{slots.EnergyPeriodMorning, slots.EnergyPeriodEvening}, found.EnergyPeriods())
	assert.Equal(t, slots.MoodEnergetic, found.DefaultMood())
	assert.WithinDuration(t, p.UpdatedAt(), found.UpdatedAt(), time.Second)
}

func TestSQLiteProfileRepository_SaveOverwrites(t *testing.T) {
	repo := NewSQLiteProfileRepository(setupProfileTestDB(t))
	ctx := context.Background()

	p, err := domain.NewProfile(uuid.New(), "")
	require.NoError(t, err)
	require.NoError(t, p.AddConstraint(workHours()))
	require.NoError(t, repo.Save(ctx, p))

	require.NoError(t, p.RemoveConstraint("work"))
	require.NoError(t, p.SetTimezone("UTC"))
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByUserID(ctx, p.UserID())
	require.NoError(t, err)
	assert.Empty(t, found.Constraints())
	assert.Equal(t, "UTC", found.Timezone())
}

func TestSQLiteProfileRepository_NotFound(t *testing.T) {
	repo := NewSQLiteProfileRepository(setupProfileTestDB(t))

	_, err := repo.FindByUserID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestSQLiteProfileRepository_Delete(t *testing.T) {
	repo := NewSQLiteProfileRepository(setupProfileTestDB(t))
	ctx := context.Background()

	p, err := domain.NewProfile(uuid.New(), "UTC")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p))

	require.NoError(t, repo.Delete(ctx, p.UserID()))
	_, err = repo.FindByUserID(ctx, p.UserID())
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	assert.NoError(t, repo.Delete(ctx, uuid.New()))
}
