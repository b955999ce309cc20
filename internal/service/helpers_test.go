package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"account-api/internal/password"
	"account-api/internal/repository/sqlite"
	"account-api/internal/token"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendConfirmationCode(ctx context.Context, recipient, code string) error {
	args := m.Called(ctx, recipient, code)
	return args.Error(0)
}

type testDeps struct {
	store  *sqlite.Store
	codec  *token.Codec
	key    *rsa.PrivateKey
	sender *MockSender
	users  UserService
	auth   *authService
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func setupTest(t *testing.T) *testDeps {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	store := sqlite.NewStore(db)
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { store.Close() })

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	codec := token.NewCodec(key, &key.PublicKey)

	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	sender := &MockSender{}
	logger := discardLogger()

	auth, err := NewAuthService(store, hasher, codec, sender, TokenConfig{
		AccessTTL:  10 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	}, logger)
	require.NoError(t, err)

	return &testDeps{
		store:  store,
		codec:  codec,
		key:    key,
		sender: sender,
		users:  NewUserService(store, hasher, logger),
		auth:   auth.(*authService),
	}
}
