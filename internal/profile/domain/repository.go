package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists profiles. FindByUserID returns ErrProfileNotFound when absent.
type Repository interface {
	Save(ctx context.Context, profile *Profile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}
