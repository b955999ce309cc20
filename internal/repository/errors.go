package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUsernameConflict is returned when uq_user_username is violated.
	ErrUsernameConflict = errors.New("username already exists")
	// ErrEmailConflict is returned when uq_user_email is violated.
	ErrEmailConflict = errors.New("email already exists")
)

// Constraint names shared by every backend schema.
const (
	ConstraintUsernameUnique = "uq_user_username"
	ConstraintEmailUnique    = "uq_user_email"
)
