// Package token encodes and decodes the RS256 signed JWTs handed out to clients.
package token

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired is returned for a correctly signed token whose exp has passed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenMalformed is returned when the signature is invalid or the token cannot be parsed.
	ErrTokenMalformed = errors.New("token decode error")
	// ErrInvalidPayload is returned by Encode for payloads that break the claim invariants.
	ErrInvalidPayload = errors.New("invalid token payload")
)

type claims struct {
	Email       string `json:"email"`
	IsActivated bool   `json:"is_activated"`
	Type        Type   `json:"typ"`
	jwt.RegisteredClaims
}

// Codec signs tokens with a private key and verifies them with the matching public key.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	now        func() time.Time
}

type Option func(*Codec)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

func NewCodec(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, opts ...Option) *Codec {
	c := &Codec{
		privateKey: privateKey,
		publicKey:  publicKey,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadKeyPair reads PEM encoded RSA keys from disk.
func LoadKeyPair(privatePath, publicPath string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privatePEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read private key: %w", err)
	}
	publicPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read public key: %w", err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, nil, fmt.Errorf("parse private key: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("parse public key: %w", err)
	}
	return privateKey, publicKey, nil
}

func (c *Codec) Encode(p Payload) (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims{
		Email:       p.Email,
		IsActivated: p.IsActivated,
		Type:        p.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.Subject,
			IssuedAt:  jwt.NewNumericDate(p.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(p.ExpiresAt),
		},
	})

	signed, err := token.SignedString(c.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry of tokenString before returning its payload.
func (c *Codec) Decode(tokenString string) (Payload, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(tokenString, &cl, func(t *jwt.Token) (any, error) {
		return c.publicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Payload{}, ErrTokenExpired
		}
		return Payload{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	if cl.IssuedAt == nil || cl.Subject == "" || !cl.Type.Valid() {
		return Payload{}, ErrTokenMalformed
	}
	if !cl.ExpiresAt.After(cl.IssuedAt.Time) {
		return Payload{}, fmt.Errorf("%w: expires before it was issued", ErrTokenMalformed)
	}

	return Payload{
		Subject:     cl.Subject,
		Email:       cl.Email,
		IsActivated: cl.IsActivated,
		IssuedAt:    cl.IssuedAt.Time.UTC(),
		ExpiresAt:   cl.ExpiresAt.Time.UTC(),
		Type:        cl.Type,
	}, nil
}
