package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	profileDomain "github.com/felixgeelhaar/slotwise/internal/profile/domain"
	"github.com/felixgeelhaar/slotwise/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/slotwise/internal/shared/infrastructure/database/sqlite"
	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

// bareConnection reports a driver but hides any native handle.
type bareConnection struct {
	driver database.Driver
}

func (b bareConnection) Driver() database.Driver       { return b.driver }
func (b bareConnection) Ping(context.Context) error    { return nil }
func (b bareConnection) Migrate(context.Context) error { return nil }
func (b bareConnection) Close() error                  { return nil }

func TestNewProfileRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: filepath.Join(t.TempDir(), "profiles.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.Migrate(ctx))

	repo, err := NewProfileRepository(conn)
	require.NoError(t, err)

	userID := uuid.New()
	profile, err := profileDomain.NewProfile(userID, "UTC")
	require.NoError(t, err)
	require.NoError(t, profile.SetDefaultMood(slots.MoodEnergetic))
	require.NoError(t, repo.Save(ctx, profile))

	loaded, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, slots.MoodEnergetic, loaded.DefaultMood())
}

func TestNewProfileRepository_NoHandle(t *testing.T) {
	tests := map[database.Driver]string{
		database.DriverSQLite:    "no sql.DB handle",
		database.DriverPostgres:  "no pool handle",
		database.Driver("mysql"): `no profile store for driver "mysql"`,
	}
	for driver, msg := range tests {
		t.Run(string(driver), func(t *testing.T) {
			_, err := NewProfileRepository(bareConnection{driver: driver})
			require.Error(t, err)
			assert.Contains(t, err.Error(), msg)
		})
	}
}
