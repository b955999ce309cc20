package domain

import validation "github.com/go-ozzo/ozzo-validation"

// Profile holds optional personal details of a user. Every user owns exactly one.
type Profile struct {
	ID        int64
	UserID    int64
	FirstName *string
	LastName  *string
	Bio       *string
}

// ProfilePatch holds the profile fields to overwrite; nil fields are kept.
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Bio       *string
}

func (p ProfilePatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.FirstName, validation.NilOrNotEmpty, validation.RuneLength(1, 60)),
		validation.Field(&p.LastName, validation.NilOrNotEmpty, validation.RuneLength(1, 60)),
		validation.Field(&p.Bio, validation.NilOrNotEmpty, validation.RuneLength(1, 200)),
	)
}

// Apply overwrites the profile fields set in the patch.
func (p ProfilePatch) Apply(profile *Profile) {
	if p.FirstName != nil {
		profile.FirstName = p.FirstName
	}
	if p.LastName != nil {
		profile.LastName = p.LastName
	}
	if p.Bio != nil {
		profile.Bio = p.Bio
	}
}
