package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"account-api/internal/domain"
	"account-api/internal/password"
	"account-api/internal/repository"
)

// UserService describes user lifecycle operations.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, candidate domain.UserCandidate) (*domain.User, error)
	Update(ctx context.Context, id int64, candidate domain.UserCandidate) (*domain.User, error)
	PartialUpdate(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	GetProfile(ctx context.Context, userID int64) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, patch domain.ProfilePatch) (*domain.Profile, error)
}

type userService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	hasher   password.Hasher
	logger   logrus.FieldLogger
}

func NewUserService(store repository.Store, hasher password.Hasher, logger logrus.FieldLogger) UserService {
	return &userService{
		users:    store.Users(),
		profiles: store.Profiles(),
		hasher:   hasher,
		logger:   logger,
	}
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, len(users))
	for i := range users {
		out[i] = *sanitizeUser(&users[i])
	}
	return out, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return sanitizeUser(user), nil
}

func (s *userService) Create(ctx context.Context, candidate domain.UserCandidate) (*domain.User, error) {
	if err := candidate.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	hash, err := s.hasher.Hash(candidate.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     candidate.Username,
		Email:        candidate.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapStoreError(err)
	}

	s.logger.WithField("user_id", user.ID).Info("user created")
	return sanitizeUser(user), nil
}

func (s *userService) Update(ctx context.Context, id int64, candidate domain.UserCandidate) (*domain.User, error) {
	if err := candidate.Validate(); err != nil {
		return nil, invalidInput(err)
	}
	return s.PartialUpdate(ctx, id, domain.UserPatch{
		Username: &candidate.Username,
		Email:    &candidate.Email,
		Password: &candidate.Password,
	})
}

func (s *userService) PartialUpdate(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	if err := patch.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if patch.Empty() {
		return sanitizeUser(user), nil
	}

	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, mapStoreError(err)
	}

	s.logger.WithField("user_id", user.ID).Info("user updated")
	return sanitizeUser(user), nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return mapStoreError(err)
	}
	s.logger.WithField("user_id", id).Info("user deleted")
	return nil
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, patch domain.ProfilePatch) (*domain.Profile, error) {
	if err := patch.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	patch.Apply(profile)

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", mapStoreError(err))
	}
	return profile, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsActivated: user.IsActivated,
		CreatedAt:   user.CreatedAt,
		Profile:     user.Profile,
	}
}
