package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrdesk/hrdesk/internal/auth"
	"github.com/hrdesk/hrdesk/internal/domain"
)

// mockUserRepo is a configurable mock implementing domain.UserRepository.
type mockUserRepo struct {
	getByUsernameUser *domain.User
	getByUsernameErr  error

	getByIDUser *domain.User
	getByIDErr  error

	createErr   error
	createdUser *domain.User // captures the user passed to Create.
}

func (m *mockUserRepo) Create(_ context.Context, u *domain.User) error {
	m.createdUser = u
	return m.createErr
}

func (m *mockUserRepo) GetByID(context.Context, uuid.UUID) (*domain.User, error) {
	return m.getByIDUser, m.getByIDErr
}

func (m *mockUserRepo) GetByUsername(context.Context, string) (*domain.User, error) {
	return m.getByUsernameUser, m.getByUsernameErr
}

// fakeRegistry is an in-memory TokenRegistry.
type fakeRegistry struct {
	live        map[string]uuid.UUID
	registerErr error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{live: map[string]uuid.UUID{}}
}

func (f *fakeRegistry) Register(_ context.Context, tokenID string, userID uuid.UUID, _ time.Duration) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.live[tokenID] = userID
	return nil
}

func (f *fakeRegistry) Valid(_ context.Context, tokenID string) (bool, error) {
	_, ok := f.live[tokenID]
	return ok, nil
}

func (f *fakeRegistry) Revoke(_ context.Context, tokenID string) error {
	delete(f.live, tokenID)
	return nil
}

const testSecret = "0123456789abcdef0123456789abcdef"

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{getByUsernameErr: domain.ErrNotFound}
		svc := auth.NewService(repo, newFakeRegistry(), testSecret, time.Minute, time.Hour)

		user, err := svc.Register(context.Background(), "alice", "s3cretpass", "Alice A.", "staff")
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "staff", user.Role)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "s3cretpass", user.PasswordHash)
		assert.Same(t, user, repo.createdUser)
	})

	t.Run("duplicate_username", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{getByUsernameUser: &domain.User{Username: "alice"}}
		svc := auth.NewService(repo, newFakeRegistry(), testSecret, time.Minute, time.Hour)

		_, err := svc.Register(context.Background(), "alice", "pw", "Alice", "staff")
		require.ErrorIs(t, err, auth.ErrUserAlreadyExists)
		assert.Nil(t, repo.createdUser)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{getByUsernameErr: domain.ErrNotFound}
		reg := newFakeRegistry()
		svc := auth.NewService(repo, reg, testSecret, time.Minute, time.Hour)

		user, err := svc.Register(context.Background(), "alice", "s3cretpass", "Alice", "staff")
		require.NoError(t, err)
		repo.getByUsernameUser = user
		repo.getByUsernameErr = nil

		got, access, refresh, err := svc.Login(context.Background(), "alice", "s3cretpass")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Len(t, reg.live, 1, "refresh token jti must be registered")
	})

	t.Run("wrong_password", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{getByUsernameErr: domain.ErrNotFound}
		svc := auth.NewService(repo, newFakeRegistry(), testSecret, time.Minute, time.Hour)

		user, err := svc.Register(context.Background(), "alice", "s3cretpass", "Alice", "staff")
		require.NoError(t, err)
		repo.getByUsernameUser = user
		repo.getByUsernameErr = nil

		_, _, _, err = svc.Login(context.Background(), "alice", "wrong")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown_user", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{getByUsernameErr: domain.ErrNotFound}
		svc := auth.NewService(repo, newFakeRegistry(), testSecret, time.Minute, time.Hour)

		_, _, _, err := svc.Login(context.Background(), "nobody", "pw")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("registry_down", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{getByUsernameErr: domain.ErrNotFound}
		reg := newFakeRegistry()
		svc := auth.NewService(repo, reg, testSecret, time.Minute, time.Hour)

		user, err := svc.Register(context.Background(), "alice", "s3cretpass", "Alice", "staff")
		require.NoError(t, err)
		repo.getByUsernameUser = user
		repo.getByUsernameErr = nil

		reg.registerErr = errors.New("redis down")
		_, _, _, err = svc.Login(context.Background(), "alice", "s3cretpass")
		require.Error(t, err)
	})
}

func TestRefreshAndLogout(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*auth.Service, *fakeRegistry, string) {
		t.Helper()
		repo := &mockUserRepo{getByUsernameErr: domain.ErrNotFound}
		reg := newFakeRegistry()
		svc := auth.NewService(repo, reg, testSecret, time.Minute, time.Hour)

		user, err := svc.Register(context.Background(), "alice", "s3cretpass", "Alice", "staff")
		require.NoError(t, err)
		repo.getByUsernameUser = user
		repo.getByUsernameErr = nil
		repo.getByIDUser = user

		_, _, refresh, err := svc.Login(context.Background(), "alice", "s3cretpass")
		require.NoError(t, err)
		return svc, reg, refresh
	}

	t.Run("refresh_happy_path", func(t *testing.T) {
		t.Parallel()

		svc, _, refresh := setup(t)
		access, err := svc.RefreshToken(context.Background(), refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, access)
	})

	t.Run("refresh_after_logout_fails", func(t *testing.T) {
		t.Parallel()

		svc, reg, refresh := setup(t)
		require.NoError(t, svc.Logout(context.Background(), refresh))
		assert.Empty(t, reg.live)

		_, err := svc.RefreshToken(context.Background(), refresh)
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("access_token_cannot_refresh", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := setup(t)
		access, err := auth.IssueAccessToken(testSecret, uuid.New(), "staff", time.Minute)
		require.NoError(t, err)

		_, err = svc.RefreshToken(context.Background(), access)
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
