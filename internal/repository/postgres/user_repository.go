package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"account-api/internal/domain"
	"account-api/internal/repository"
)

const selectUser = `
SELECT u.id, u.username, u.email, u.password_hash, u.is_activated, u.created_at,
	p.id, p.first_name, p.last_name, p.bio
FROM users u
LEFT JOIN profiles p ON p.user_id = u.id`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	var profileID int64
	err := repository.WithTx(ctx, r.db, func(ctx context.Context, tx repository.DBTX) error {
		err := tx.QueryRowContext(ctx, `
INSERT INTO users (username, email, password_hash, is_activated)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`,
			user.Username,
			user.Email,
			user.PasswordHash,
			user.IsActivated,
		).Scan(&user.ID, &user.CreatedAt)
		if err != nil {
			return err
		}

		return tx.QueryRowContext(ctx, `
INSERT INTO profiles (user_id)
VALUES ($1)
RETURNING id`,
			user.ID,
		).Scan(&profileID)
	})
	if err != nil {
		user.ID = 0
		return translateError(err, "insert user")
	}

	user.CreatedAt = user.CreatedAt.UTC()
	user.Profile = &domain.Profile{ID: profileID, UserID: user.ID}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+`
WHERE u.id = $1`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+`
WHERE u.username = $1`,
		username,
	)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+`
ORDER BY u.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET username = $1, email = $2, password_hash = $3
WHERE id = $4`,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.ID,
	)
	if err != nil {
		return translateError(err, "update user")
	}
	return expectAffected(res, "update user")
}

func (r *UserRepository) Activate(ctx context.Context, id int64) (bool, error) {
	var activatedID int64
	err := r.db.QueryRowContext(ctx, `
UPDATE users SET is_activated = TRUE
WHERE id = $1 AND is_activated = FALSE
RETURNING id`,
		id,
	).Scan(&activatedID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("activate user: %w", err)
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check activation: %w", err)
	}
	if !exists {
		return false, repository.ErrNotFound
	}
	return false, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectAffected(res, "delete user")
}

func expectAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user      domain.User
		profileID sql.NullInt64
		firstName sql.NullString
		lastName  sql.NullString
		bio       sql.NullString
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsActivated,
		&user.CreatedAt,
		&profileID,
		&firstName,
		&lastName,
		&bio,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	if profileID.Valid {
		user.Profile = &domain.Profile{
			ID:        profileID.Int64,
			UserID:    user.ID,
			FirstName: nullableString(firstName),
			LastName:  nullableString(lastName),
			Bio:       nullableString(bio),
		}
	}
	return &user, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
