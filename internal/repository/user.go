package repository

import (
	"context"

	"account-api/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	// Create inserts the user together with an empty profile and fills in ID, CreatedAt and Profile.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns users newest first.
	List(ctx context.Context) ([]domain.User, error)
	// Update overwrites username, email and password hash.
	Update(ctx context.Context, user *domain.User) error
	// Activate flips is_activated to true. It reports false when the user was already active.
	Activate(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// ProfileRepository defines persistence operations for Profile entities.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
}

// Store bundles the repositories sharing one database handle.
type Store interface {
	// Init prepares the schema.
	Init(ctx context.Context) error
	Users() UserRepository
	Profiles() ProfileRepository
	Close() error
}
