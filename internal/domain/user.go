package domain

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// User represents a registered account.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsActivated  bool
	CreatedAt    time.Time
	Profile      *Profile
}

// UserCandidate carries every mutable user field. It is used for creation and full updates.
type UserCandidate struct {
	Username string
	Email    string
	Password string
}

func (c UserCandidate) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Username, validation.Required, validation.RuneLength(3, 60)),
		validation.Field(&c.Email, validation.Required, validation.RuneLength(6, 256), is.Email),
		validation.Field(&c.Password, validation.Required, validation.RuneLength(8, 50)),
	)
}

// UserPatch holds the fields of a partial update; nil means "leave as is".
type UserPatch struct {
	Username *string
	Email    *string
	Password *string
}

func (p UserPatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.NilOrNotEmpty, validation.RuneLength(3, 60)),
		validation.Field(&p.Email, validation.NilOrNotEmpty, validation.RuneLength(6, 256), is.Email),
		validation.Field(&p.Password, validation.NilOrNotEmpty, validation.RuneLength(8, 50)),
	)
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.Password == nil
}
