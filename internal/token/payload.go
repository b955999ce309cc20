package token

import (
	"strconv"
	"time"

	"account-api/internal/domain"
)

// Type distinguishes access tokens from refresh tokens.
type Type string

const (
	Access  Type = "access"
	Refresh Type = "refresh"
)

func (t Type) Valid() bool {
	return t == Access || t == Refresh
}

// Payload is the set of claims carried by a token.
type Payload struct {
	Subject     string
	Email       string
	IsActivated bool
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Type        Type
}

// NewPayloadForUser builds a payload describing the user's current state.
func NewPayloadForUser(user *domain.User, typ Type, ttl time.Duration, now time.Time) Payload {
	iat := now.UTC().Truncate(time.Second)
	return Payload{
		Subject:     strconv.FormatInt(user.ID, 10),
		Email:       user.Email,
		IsActivated: user.IsActivated,
		IssuedAt:    iat,
		ExpiresAt:   iat.Add(ttl),
		Type:        typ,
	}
}

// Reissue copies the identity claims of p into a new payload with fresh timestamps.
func (p Payload) Reissue(typ Type, ttl time.Duration, now time.Time) Payload {
	iat := now.UTC().Truncate(time.Second)
	p.IssuedAt = iat
	p.ExpiresAt = iat.Add(ttl)
	p.Type = typ
	return p
}

// UserID parses the subject as a user id.
func (p Payload) UserID() (int64, error) {
	id, err := strconv.ParseInt(p.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrTokenMalformed
	}
	return id, nil
}

func (p Payload) validate() error {
	if !p.Type.Valid() {
		return ErrInvalidPayload
	}
	if p.Subject == "" {
		return ErrInvalidPayload
	}
	if !p.ExpiresAt.After(p.IssuedAt) {
		return ErrInvalidPayload
	}
	return nil
}
