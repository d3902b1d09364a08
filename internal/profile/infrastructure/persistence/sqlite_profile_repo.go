package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/felixgeelhaar/slotwise/internal/profile/domain"
	"github.com/felixgeelhaar/slotwise/internal/shared/infrastructure/database"
	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
	"github.com/google/uuid"
)

// SQLiteProfileRepository stores profiles in the local SQLite file.
type SQLiteProfileRepository struct {
	db *sql.DB
}

// NewSQLiteProfileRepository creates a new SQLiteProfileRepository.
func NewSQLiteProfileRepository(db *sql.DB) *SQLiteProfileRepository {
	return &SQLiteProfileRepository{db: db}
}

// Save upserts the profile.
func (r *SQLiteProfileRepository) Save(ctx context.Context, p *domain.Profile) error {
	constraints, periods, err := encodeProfileLists(p.Constraints(), p.EnergyPeriods())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO user_profiles (user_id, timezone, recurring_constraints, energy_periods, default_mood, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			timezone = excluded.timezone,
			recurring_constraints = excluded.recurring_constraints,
			energy_periods = excluded.energy_periods,
			default_mood = excluded.default_mood,
			updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		p.UserID().String(),
		p.Timezone(),
		string(constraints),
		string(periods),
		string(p.DefaultMood()),
		p.UpdatedAt().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// FindByUserID loads a profile. Returns domain.ErrProfileNotFound when absent.
func (r *SQLiteProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT timezone, recurring_constraints, energy_periods, default_mood, updated_at
		FROM user_profiles
		WHERE user_id = ?
	`

	var (
		timezone, constraintsJSON, periodsJSON, mood, updatedAt string
	)
	err := r.db.QueryRowContext(ctx, query, userID.String()).
		Scan(&timezone, &constraintsJSON, &periodsJSON, &mood, &updatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	constraints, periods, err := decodeProfileLists([]byte(constraintsJSON), []byte(periodsJSON))
	if err != nil {
		return nil, err
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return domain.RehydrateProfile(userID, timezone, constraints, periods, slots.Mood(mood), updated), nil
}

// Delete removes a profile. Deleting a missing profile is not an error.
func (r *SQLiteProfileRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_profiles WHERE user_id = ?`, userID.String())
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

var _ domain.Repository = (*SQLiteProfileRepository)(nil)
