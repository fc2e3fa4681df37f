package user

import "context"

type Repository interface {
	UpsertProfile(ctx context.Context, profile *Profile) error
	// GetByPhone returns ErrProfileNotFound when no profile carries phone.
	GetByPhone(ctx context.Context, phone string) (*Profile, error)
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
}
