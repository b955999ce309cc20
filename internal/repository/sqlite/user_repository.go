package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"account-api/internal/domain"
	"account-api/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL,
	email TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	is_activated BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	CONSTRAINT uq_user_username UNIQUE (username),
	CONSTRAINT uq_user_email UNIQUE (email),
	CONSTRAINT ck_user_username_len_ge_3 CHECK (LENGTH(username) >= 3),
	CONSTRAINT ck_user_email_len_ge_6 CHECK (LENGTH(email) >= 6)
);
`

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

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.CreatedAt = time.Now().UTC()

	var userID, profileID int64
	err := repository.WithTx(ctx, r.db, func(ctx context.Context, tx repository.DBTX) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO users (username, email, password_hash, is_activated, created_at)
VALUES (?, ?, ?, ?, ?)`,
			user.Username,
			user.Email,
			user.PasswordHash,
			user.IsActivated,
			user.CreatedAt,
		)
		if err != nil {
			return err
		}
		if userID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("user last insert id: %w", err)
		}

		res, err = tx.ExecContext(ctx, `INSERT INTO profiles (user_id) VALUES (?)`, userID)
		if err != nil {
			return err
		}
		if profileID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("profile last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return translateError(err, "insert user")
	}

	user.ID = userID
	user.Profile = &domain.Profile{ID: profileID, UserID: userID}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+`
WHERE u.id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+`
WHERE u.username = ?`,
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
SET username = ?, email = ?, password_hash = ?
WHERE id = ?`,
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
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET is_activated = 1
WHERE id = ? AND is_activated = 0`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("activate user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("activate user rows affected: %w", err)
	}
	if n == 1 {
		return true, nil
	}

	var activated bool
	if err := r.db.QueryRowContext(ctx, `SELECT is_activated FROM users WHERE id = ?`, id).Scan(&activated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, repository.ErrNotFound
		}
		return false, fmt.Errorf("check activation: %w", err)
	}
	return false, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
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
