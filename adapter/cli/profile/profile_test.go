package profile

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/slotwise/adapter/cli"
	internalApp "github.com/felixgeelhaar/slotwise/internal/app"
	profileQueries "github.com/felixgeelhaar/slotwise/internal/profile/application/queries"
	profileDomain "github.com/felixgeelhaar/slotwise/internal/profile/domain"
	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
	"github.com/felixgeelhaar/slotwise/pkg/config"
)

func setupTestApp(t *testing.T) *cli.App {
	t.Helper()

	cfg := &config.Config{
		AppEnv:             "test",
		UserID:             "00000000-0000-0000-0000-000000000001",
		SQLitePath:         filepath.Join(t.TempDir(), "slotwise.db"),
		DefaultHorizonDays: 7,
		MaxHorizonDays:     90,
		Granularity:        15 * time.Minute,
		Grace:              5 * time.Minute,
		DayStart:           "08:00",
		DayEnd:             "21:00",
		ShortlistSize:      3,
	}
	container, err := internalApp.NewContainer(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	app := cli.NewApp(container.Engine, container.ProfileRepo, nil, container.Metrics, container.Logger)
	app.SetCurrentUserID(container.DefaultUserID)

	prev := cli.GetApp()
	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(prev) })
	return app
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	constraintLabel, constraintStart, constraintEnd = "", "", ""
	constraintDays = nil
	constraintLunch = false
	addConstraintCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })

	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetErr(&bytes.Buffer{})
	Cmd.SetArgs(args)
	err := Cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func load(t *testing.T, app *cli.App) *profileQueries.ProfileDTO {
	t.Helper()
	p, err := app.GetProfileHandler.Handle(context.Background(), profileQueries.GetProfileQuery{UserID: app.CurrentUserID})
	require.NoError(t, err)
	return p
}

func TestShow_NoProfile(t *testing.T) {
	setupTestApp(t)

	out, err := run(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No profile stored yet")
	assert.Contains(t, out, "Commitments:  none")
}

func TestAddAndRemoveConstraint(t *testing.T) {
	app := setupTestApp(t)

	out, err := run(t, "add-constraint", "--label", "work", "--days", "mon,tue,wed,thu,fri",
		"--start", "09:00", "--end", "17:00", "--lunch")
	require.NoError(t, err)
	assert.Contains(t, out, "work")
	assert.Contains(t, out, "09:00-17:00")
	assert.Contains(t, out, "lunch break kept free")

	p := load(t, app)
	require.True(t, p.Stored)
	require.Len(t, p.RecurringConstraints, 1)
	c := p.RecurringConstraints[0]
	assert.Equal(t, "work", c.Label)
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, c.DaysOfWeek)
	assert.True(t, c.AllowMidDayBreak)

	_, err = run(t, "add-constraint", "--label", "work", "--days", "sat", "--start", "10:00", "--end", "11:00")
	require.Error(t, err)
	assert.ErrorIs(t, err, profileDomain.ErrDuplicateLabel)

	_, err = run(t, "remove-constraint", "work")
	require.NoError(t, err)
	assert.Empty(t, load(t, app).RecurringConstraints)

	_, err = run(t, "remove-constraint", "work")
	assert.ErrorIs(t, err, profileDomain.ErrConstraintNotFound)
}

func TestAddConstraint_Invalid(t *testing.T) {
	setupTestApp(t)

	_, err := run(t, "add-constraint", "--days", "someday", "--start", "09:00", "--end", "10:00")
	assert.ErrorIs(t, err, slots.ErrValidation)

	_, err = run(t, "add-constraint", "--days", "mon", "--start", "9h", "--end", "10:00")
	assert.Error(t, err)
}

func TestSettings(t *testing.T) {
	app := setupTestApp(t)

	_, err := run(t, "set-energy", "morning", "evening")
	require.NoError(t, err)
	_, err = run(t, "set-mood", "tired")
	require.NoError(t, err)
	out, err := run(t, "set-timezone", "Europe/Paris")
	require.NoError(t, err)
	assert.Contains(t, out, "Europe/Paris")
	assert.Contains(t, out, "morning, evening")

	p := load(t, app)
	assert.Equal(t, "Europe/Paris", p.Timezone)
	assert.Equal(t, slots.MoodTired, p.DefaultMood)
	assert.Equal(t, []slots.EnergyPeriod{slots.EnergyPeriodMorning, slots.EnergyPeriodEvening}, p.EnergyPeriods)

	_, err = run(t, "set-energy")
	require.NoError(t, err)
	assert.Empty(t, load(t, app).EnergyPeriods)
}

func TestSettings_Invalid(t *testing.T) {
	setupTestApp(t)

	_, err := run(t, "set-mood", "grumpy")
	assert.ErrorIs(t, err, slots.ErrUnknownMood)

	_, err = run(t, "set-energy", "dawn")
	assert.ErrorIs(t, err, slots.ErrUnknownEnergyPeriod)

	_, err = run(t, "set-timezone", "Mars/Olympus")
	assert.ErrorIs(t, err, profileDomain.ErrInvalidTimezone)
}

func TestWithoutApp(t *testing.T) {
	prev := cli.GetApp()
	cli.SetApp(nil)
	t.Cleanup(func() { cli.SetApp(prev) })

	_, err := run(t, "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}
