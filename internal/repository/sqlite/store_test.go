package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-api/internal/domain"
	"account-api/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	store := NewStore(db)
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *Store, username, email string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Email: email, PasswordHash: "hash"}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func strPtr(s string) *string { return &s }

func TestUserRepository_CreateAddsProfile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := createUser(t, store, "alice", "alice@example.com")
	assert.Positive(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	require.NotNil(t, user.Profile)
	assert.Equal(t, user.ID, user.Profile.UserID)

	got, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.False(t, got.IsActivated)
	require.NotNil(t, got.Profile)
	assert.Nil(t, got.Profile.FirstName)

	byName, err := store.Users().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestUserRepository_CreateConflicts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	createUser(t, store, "alice", "alice@example.com")

	err := store.Users().Create(ctx, &domain.User{Username: "alice", Email: "other@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, repository.ErrUsernameConflict)

	err = store.Users().Create(ctx, &domain.User{Username: "bob", Email: "alice@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, repository.ErrEmailConflict)

	users, err := store.Users().List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1, "failed inserts must not leave rows behind")
}

func TestUserRepository_CheckConstraint(t *testing.T) {
	store := newTestStore(t)

	err := store.Users().Create(context.Background(), &domain.User{Username: "al", Email: "al@example.com", PasswordHash: "hash"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrUsernameConflict)
}

func TestUserRepository_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	first := createUser(t, store, "alice", "alice@example.com")
	second := createUser(t, store, "bob", "bob@example.com")
	third := createUser(t, store, "carol", "carol@example.com")

	users, err := store.Users().List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []int64{third.ID, second.ID, first.ID}, []int64{users[0].ID, users[1].ID, users[2].ID})
}

func TestUserRepository_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Users().GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = store.Users().GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, store, "alice", "alice@example.com")
	createUser(t, store, "bob", "bob@example.com")

	alice.Username = "alice2"
	alice.PasswordHash = "newhash"
	require.NoError(t, store.Users().Update(ctx, alice))

	got, err := store.Users().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username)
	assert.Equal(t, "newhash", got.PasswordHash)

	alice.Email = "bob@example.com"
	assert.ErrorIs(t, store.Users().Update(ctx, alice), repository.ErrEmailConflict)

	alice.Email = "alice@example.com"
	alice.Username = "bob"
	assert.ErrorIs(t, store.Users().Update(ctx, alice), repository.ErrUsernameConflict)

	ghost := &domain.User{ID: 999, Username: "ghost", Email: "ghost@example.com", PasswordHash: "x"}
	assert.ErrorIs(t, store.Users().Update(ctx, ghost), repository.ErrNotFound)
}

func TestUserRepository_Activate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, store, "alice", "alice@example.com")

	changed, err := store.Users().Activate(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = store.Users().Activate(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := store.Users().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActivated)

	_, err = store.Users().Activate(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_DeleteCascadesProfile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, store, "alice", "alice@example.com")

	require.NoError(t, store.Users().Delete(ctx, alice.ID))

	_, err := store.Users().GetByID(ctx, alice.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.Profiles().GetByUserID(ctx, alice.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, store.Users().Delete(ctx, alice.ID), repository.ErrNotFound)
}

func TestProfileRepository_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, store, "alice", "alice@example.com")

	profile, err := store.Profiles().GetByUserID(ctx, alice.ID)
	require.NoError(t, err)
	profile.FirstName = strPtr("Alice")
	profile.Bio = strPtr("likes cryptography")
	require.NoError(t, store.Profiles().Update(ctx, profile))

	got, err := store.Profiles().GetByUserID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FirstName)
	assert.Equal(t, "Alice", *got.FirstName)
	assert.Nil(t, got.LastName)
	require.NotNil(t, got.Bio)
	assert.Equal(t, "likes cryptography", *got.Bio)

	user, err := store.Users().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, user.Profile)
	assert.Equal(t, "Alice", *user.Profile.FirstName)

	assert.ErrorIs(t, store.Profiles().Update(ctx, &domain.Profile{UserID: 999}), repository.ErrNotFound)
}

func TestRepositories_InitIndividually(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "repos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, profiles.Init(ctx))

	user := &domain.User{Username: "carol", Email: "carol@example.com", PasswordHash: "hash"}
	require.NoError(t, users.Create(ctx, user))

	profile, err := profiles.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.UserID)
}
