package sqlite

import (
	"fmt"
	"strings"

	"account-api/internal/repository"
)

// translateError maps sqlite unique violations to repository conflicts.
// sqlite names the columns rather than the constraint
// ("UNIQUE constraint failed: users.username"), so the column is matched.
func translateError(err error, op string) error {
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		switch {
		case strings.Contains(msg, "users.username"):
			return repository.ErrUsernameConflict
		case strings.Contains(msg, "users.email"):
			return repository.ErrEmailConflict
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
