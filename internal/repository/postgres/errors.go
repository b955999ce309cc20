package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"account-api/internal/repository"
)

const uniqueViolation = "23505"

// translateError maps unique violations to repository conflicts by constraint name.
func translateError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case repository.ConstraintUsernameUnique:
			return repository.ErrUsernameConflict
		case repository.ConstraintEmailUnique:
			return repository.ErrEmailConflict
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
