package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"account-api/internal/domain"
	"account-api/internal/repository"
)

const createProfilesTable = `
CREATE TABLE IF NOT EXISTS profiles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	first_name TEXT,
	last_name TEXT,
	bio TEXT,
	CONSTRAINT uq_profile_user_id UNIQUE (user_id),
	CONSTRAINT ck_profile_first_name_len_ge_1 CHECK (LENGTH(first_name) >= 1),
	CONSTRAINT ck_profile_last_name_len_ge_1 CHECK (LENGTH(last_name) >= 1),
	CONSTRAINT ck_profile_bio_len_ge_1 CHECK (LENGTH(bio) >= 1)
);
`

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createProfilesTable); err != nil {
		return fmt.Errorf("create profiles table: %w", err)
	}
	return nil
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
WHERE user_id = ?`,
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
SET first_name = ?, last_name = ?, bio = ?
WHERE user_id = ?`,
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
