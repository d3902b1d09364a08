package app

import (
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	profileDomain "github.com/felixgeelhaar/slotwise/internal/profile/domain"
	profilePersistence "github.com/felixgeelhaar/slotwise/internal/profile/infrastructure/persistence"
	"github.com/felixgeelhaar/slotwise/internal/shared/infrastructure/database"
)

// NewProfileRepository picks the profile store matching conn's driver. The
// connection must expose its native handle: *pgxpool.Pool for PostgreSQL,
// *sql.DB for SQLite.
func NewProfileRepository(conn database.Connection) (profileDomain.Repository, error) {
	driver := conn.Driver()
	switch driver {
	case database.DriverPostgres:
		h, ok := conn.(interface{ Pool() *pgxpool.Pool })
		if !ok {
			return nil, fmt.Errorf("%s connection %T has no pool handle", driver, conn)
		}
		return profilePersistence.NewPostgresProfileRepository(h.Pool()), nil
	case database.DriverSQLite:
		h, ok := conn.(interface{ DB() *sql.DB })
		if !ok {
			return nil, fmt.Errorf("%s connection %T has no sql.DB handle", driver, conn)
		}
		return profilePersistence.NewSQLiteProfileRepository(h.DB()), nil
	}
	return nil, fmt.Errorf("no profile store for driver %q", driver)
}
