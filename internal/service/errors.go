package service

import (
	"errors"
	"fmt"

	"account-api/internal/repository"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrWrongTokenType is returned when an access token is presented where a refresh token is required, or vice versa.
	ErrWrongTokenType = errors.New("wrong token type")
	// ErrAlreadyActivated is returned when activating or requesting a code for an active user.
	ErrAlreadyActivated = errors.New("user is already activated")
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("user with this username already exists")
	ErrEmailTaken       = errors.New("user with this email already exists")
	// ErrInvalidInput wraps field validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// mapStoreError converts repository errors into service errors. Unknown errors pass through.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrUsernameConflict):
		return ErrUsernameTaken
	case errors.Is(err, repository.ErrEmailConflict):
		return ErrEmailTaken
	}
	return err
}

func invalidInput(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
