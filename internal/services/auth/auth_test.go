package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	jwtlib "github.com/imobsites/platform/internal/lib/jwt"
	"github.com/imobsites/platform/internal/models"
	"github.com/imobsites/platform/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           3,
		TenantID:     10,
		Email:        "maria@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	}
}

func TestService_Login(t *testing.T) {
	maker := jwtlib.NewMaker("test-secret", time.Hour)

	t.Run("success", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByEmail", mock.Anything, "maria@example.com").
			Return(activeUser(t, "s3nha-forte"), nil).Once()

		svc := New(repo, maker, newNoopLogger())
		result, err := svc.Login(context.Background(), models.LoginRequest{
			Email:    "maria@example.com",
			Password: "s3nha-forte",
		})
		require.NoError(t, err)
		assert.Equal(t, 10, result.TenantID)
		assert.Equal(t, models.RoleAdmin, result.Role)

		claims, err := maker.ParseToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, 3, claims.UserID)
		assert.Equal(t, 10, claims.TenantID)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByEmail", mock.Anything, "maria@example.com").
			Return(activeUser(t, "s3nha-forte"), nil).Once()

		svc := New(repo, maker, newNoopLogger())
		_, err := svc.Login(context.Background(), models.LoginRequest{
			Email:    "maria@example.com",
			Password: "errada",
		})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").
			Return(nil, storage.ErrNotFound).Once()

		svc := New(repo, maker, newNoopLogger())
		_, err := svc.Login(context.Background(), models.LoginRequest{
			Email:    "nobody@example.com",
			Password: "s3nha-forte",
		})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account with correct password", func(t *testing.T) {
		user := activeUser(t, "s3nha-forte")
		user.Active = false
		repo := new(RepoMock)
		repo.On("GetUserByEmail", mock.Anything, "maria@example.com").
			Return(user, nil).Once()

		svc := New(repo, maker, newNoopLogger())
		_, err := svc.Login(context.Background(), models.LoginRequest{
			Email:    "maria@example.com",
			Password: "s3nha-forte",
		})
		require.ErrorIs(t, err, ErrAccountInactive)
	})

	t.Run("storage error bubbles up", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByEmail", mock.Anything, "maria@example.com").
			Return(nil, errors.New("db down")).Once()

		svc := New(repo, maker, newNoopLogger())
		_, err := svc.Login(context.Background(), models.LoginRequest{
			Email:    "maria@example.com",
			Password: "s3nha-forte",
		})
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}
