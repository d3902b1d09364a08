package persistence_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/slotwise/internal/profile/domain"
	"github.com/felixgeelhaar/slotwise/internal/profile/infrastructure/persistence"
	"github.com/felixgeelhaar/slotwise/internal/shared/infrastructure/migrations"
	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

func setupPostgresProfileDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Skipf("Failed to connect to test database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("Failed to ping test database: %v", err)
	}

	require.NoError(t, migrations.RunPostgresMigrations(ctx, pool))
	_, _ = pool.Exec(ctx, "DELETE FROM user_profiles")
	return pool
}

func TestPostgresProfileRepository_RoundTrip(t *testing.T) {
	pool := setupPostgresProfileDB(t)
	defer pool.Close()

	ctx := context.Background()
	repo := persistence.NewPostgresProfileRepository(pool)

	p, err := domain.NewProfile(uuid.New(), "UTC")
	require.NoError(t, err)
	require.NoError(t, p.SetEnergyPeriods([]slots.EnergyPeriod{slots.EnergyPeriodAfternoon}))
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByUserID(ctx, p.UserID())
	require.NoError(t, err)
	assert.Equal(t, []slots.EnergyPeriod{slots.EnergyPeriodAfternoon}, found.EnergyPeriods())

	require.NoError(t, repo.Delete(ctx, p.UserID()))
	_, err = repo.FindByUserID(ctx, p.UserID())
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}
