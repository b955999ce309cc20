package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"account-api/internal/domain"
	"account-api/internal/repository"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	var (
		profile   domain.Profile
		firstName sql.NullString
		lastName  sql.NullString
		bio       sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, first_name, last_name, bio
FROM profiles
WHERE user_id = $1`,
		userID,
	).Scan(&profile.ID, &profile.UserID, &firstName, &lastName, &bio)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	profile.FirstName = nullableString(firstName)
	profile.LastName = nullableString(lastName)
	profile.Bio = nullableString(bio)
	return &profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE profiles
SET first_name = $1, last_name = $2, bio = $3
WHERE user_id = $4`,
		profile.FirstName,
		profile.LastName,
		profile.Bio,
		profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return expectAffected(res, "update profile")
}
