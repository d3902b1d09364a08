package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/slotwise/internal/profile/domain"
	"github.com/felixgeelhaar/slotwise/internal/shared/infrastructure/database"
	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresProfileRepository stores profiles in PostgreSQL.
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository.
func NewPostgresProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

// Save upserts the profile.
func (r *PostgresProfileRepository) Save(ctx context.Context, p *domain.Profile) error {
	constraints, periods, err := encodeProfileLists(p.Constraints(), p.EnergyPeriods())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO user_profiles (user_id, timezone, recurring_constraints, energy_periods, default_mood, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			recurring_constraints = EXCLUDED.recurring_constraints,
			energy_periods = EXCLUDED.energy_periods,
			default_mood = EXCLUDED.default_mood,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.pool.Exec(ctx, query,
		p.UserID(),
		p.Timezone(),
		constraints,
		periods,
		string(p.DefaultMood()),
		p.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// FindByUserID loads a profile. Returns domain.ErrProfileNotFound when absent.
func (r *PostgresProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT timezone, recurring_constraints, energy_periods, default_mood, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	var (
		timezone, mood                string
		constraintsJSON, periodsJSON []byte
		updatedAt                    time.Time
	)
	err := r.pool.QueryRow(ctx, query, userID).
		Scan(&timezone, &constraintsJSON, &periodsJSON, &mood, &updatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	constraints, periods, err := decodeProfileLists(constraintsJSON, periodsJSON)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateProfile(userID, timezone, constraints, periods, slots.Mood(mood), updatedAt), nil
}

// Delete removes a profile.
func (r *PostgresProfileRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM user_profiles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

var _ domain.Repository = (*PostgresProfileRepository)(nil)
