package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"account-api/internal/domain"
	"account-api/internal/mail"
	"account-api/internal/password"
	"account-api/internal/repository"
	"account-api/internal/token"
)

// TokenPair is the response of every operation that mints tokens.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Type         string
}

// AuthService describes login, token refresh and account activation.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Activate(ctx context.Context, accessToken string) (*TokenPair, error)
	RequestConfirmationCode(ctx context.Context, accessToken string) (string, error)
	CurrentUser(ctx context.Context, accessToken string) (*domain.User, error)
}

// TokenConfig sets the lifetime of issued tokens.
type TokenConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type authService struct {
	users     repository.UserRepository
	hasher    password.Hasher
	codec     *token.Codec
	sender    mail.Sender
	cfg       TokenConfig
	now       func() time.Time
	logger    logrus.FieldLogger
	dummyHash string
}

func NewAuthService(
	store repository.Store,
	hasher password.Hasher,
	codec *token.Codec,
	sender mail.Sender,
	cfg TokenConfig,
	logger logrus.FieldLogger,
) (AuthService, error) {
	// compared against when the username is unknown so both failures cost one bcrypt round
	dummyHash, err := hasher.Hash("account-api-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("compute dummy password hash: %w", err)
	}
	return &authService{
		users:     store.Users(),
		hasher:    hasher,
		codec:     codec,
		sender:    sender,
		cfg:       cfg,
		now:       time.Now,
		logger:    logger,
		dummyHash: dummyHash,
	}, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if user == nil {
		s.hasher.Verify(password, s.dummyHash)
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueForUser(user)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", user.ID).Info("user logged in")
	return pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	payload, err := s.decode(refreshToken, token.Refresh)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return s.encodePair(
		payload.Reissue(token.Access, s.cfg.AccessTTL, now),
		payload.Reissue(token.Refresh, s.cfg.RefreshTTL, now),
	)
}

func (s *authService) Activate(ctx context.Context, accessToken string) (*TokenPair, error) {
	user, err := s.userFromToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if user.IsActivated {
		return nil, ErrAlreadyActivated
	}

	changed, err := s.users.Activate(ctx, user.ID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if !changed {
		return nil, ErrAlreadyActivated
	}
	user.IsActivated = true

	s.logger.WithField("user_id", user.ID).Info("user activated")
	return s.issueForUser(user)
}

func (s *authService) RequestConfirmationCode(ctx context.Context, accessToken string) (string, error) {
	user, err := s.userFromToken(ctx, accessToken)
	if err != nil {
		return "", err
	}
	if user.IsActivated {
		return "", ErrAlreadyActivated
	}

	code, err := mail.GenerateCode()
	if err != nil {
		return "", err
	}
	if err := s.sender.SendConfirmationCode(ctx, user.Email, code); err != nil {
		return "", err
	}

	s.logger.WithField("user_id", user.ID).Info("confirmation code sent")
	return code, nil
}

func (s *authService) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	user, err := s.userFromToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// decode verifies the token and requires the given type.
func (s *authService) decode(raw string, want token.Type) (token.Payload, error) {
	payload, err := s.codec.Decode(raw)
	if err != nil {
		return token.Payload{}, err
	}
	if payload.Type != want {
		return token.Payload{}, fmt.Errorf("%w: expected %s token", ErrWrongTokenType, want)
	}
	return payload, nil
}

func (s *authService) userFromToken(ctx context.Context, accessToken string) (*domain.User, error) {
	payload, err := s.decode(accessToken, token.Access)
	if err != nil {
		return nil, err
	}
	id, err := payload.UserID()
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return user, nil
}

func (s *authService) issueForUser(user *domain.User) (*TokenPair, error) {
	now := s.now()
	return s.encodePair(
		token.NewPayloadForUser(user, token.Access, s.cfg.AccessTTL, now),
		token.NewPayloadForUser(user, token.Refresh, s.cfg.RefreshTTL, now),
	)
}

func (s *authService) encodePair(access, refresh token.Payload) (*TokenPair, error) {
	accessToken, err := s.codec.Encode(access)
	if err != nil {
		return nil, fmt.Errorf("encode access token: %w", err)
	}
	refreshToken, err := s.codec.Encode(refresh)
	if err != nil {
		return nil, fmt.Errorf("encode refresh token: %w", err)
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Type:         "Bearer",
	}, nil
}
