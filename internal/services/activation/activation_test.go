package activation

import (
	"context"
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

func (m *RepoMock) GetUserByActivationToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) ActivateUser(ctx context.Context, userID int, passwordHash, token string) (int, error) {
	args := m.Called(ctx, userID, passwordHash, token)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func pendingUser(expiresIn time.Duration) *models.User {
	token := "tok-123"
	expiry := time.Now().Add(expiresIn)
	return &models.User{
		ID:                  3,
		TenantID:            10,
		Email:               "maria@example.com",
		Role:                models.RoleAdmin,
		ActivationToken:     &token,
		ActivationExpiresAt: &expiry,
	}
}

func TestService_InspectToken(t *testing.T) {
	maker := jwtlib.NewMaker("test-secret", time.Hour)

	t.Run("valid token exposes masked email", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByActivationToken", mock.Anything, "tok-123").
			Return(pendingUser(time.Hour), nil).Once()

		svc := New(repo, maker, newNoopLogger())
		info, err := svc.InspectToken(context.Background(), "tok-123")
		require.NoError(t, err)
		assert.True(t, info.Valid)
		assert.Equal(t, "ma***@example.com", info.MaskedEmail)
	})

	t.Run("expired token", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByActivationToken", mock.Anything, "tok-123").
			Return(pendingUser(-time.Hour), nil).Once()

		svc := New(repo, maker, newNoopLogger())
		info, err := svc.InspectToken(context.Background(), "tok-123")
		require.NoError(t, err)
		assert.False(t, info.Valid)
		assert.True(t, info.Expired)
		assert.Empty(t, info.MaskedEmail)
	})

	t.Run("unknown token", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByActivationToken", mock.Anything, "nope").
			Return(nil, storage.ErrNotFound).Once()

		svc := New(repo, maker, newNoopLogger())
		info, err := svc.InspectToken(context.Background(), "nope")
		require.NoError(t, err)
		assert.False(t, info.Valid)
		assert.False(t, info.Expired)
	})
}

func TestService_Activate(t *testing.T) {
	maker := jwtlib.NewMaker("test-secret", time.Hour)

	validReq := models.ActivationRequest{
		Token:           "tok-123",
		Password:        "s3nha-forte",
		PasswordConfirm: "s3nha-forte",
		AcceptTerms:     true,
	}

	t.Run("success issues session token", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByActivationToken", mock.Anything, "tok-123").
			Return(pendingUser(time.Hour), nil).Once()
		repo.On("ActivateUser", mock.Anything, 3, mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3nha-forte")) == nil
		}), "tok-123").Return(1, nil).Once()

		svc := New(repo, maker, newNoopLogger())
		result, err := svc.Activate(context.Background(), validReq)
		require.NoError(t, err)
		assert.Equal(t, 10, result.TenantID)
		assert.Equal(t, "maria@example.com", result.Email)

		claims, err := maker.ParseToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, 3, claims.UserID)
		assert.Equal(t, models.RoleAdmin, claims.Role)
		repo.AssertExpectations(t)
	})

	t.Run("password mismatch", func(t *testing.T) {
		req := validReq
		req.PasswordConfirm = "outra-senha"

		svc := New(new(RepoMock), maker, newNoopLogger())
		_, err := svc.Activate(context.Background(), req)
		require.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("terms not accepted", func(t *testing.T) {
		req := validReq
		req.AcceptTerms = false

		svc := New(new(RepoMock), maker, newNoopLogger())
		_, err := svc.Activate(context.Background(), req)
		require.ErrorIs(t, err, ErrTermsNotAccepted)
	})

	t.Run("expired token", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByActivationToken", mock.Anything, "tok-123").
			Return(pendingUser(-time.Minute), nil).Once()

		svc := New(repo, maker, newNoopLogger())
		_, err := svc.Activate(context.Background(), validReq)
		require.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("unknown token", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByActivationToken", mock.Anything, "tok-123").
			Return(nil, storage.ErrNotFound).Once()

		svc := New(repo, maker, newNoopLogger())
		_, err := svc.Activate(context.Background(), validReq)
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("token consumed concurrently", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByActivationToken", mock.Anything, "tok-123").
			Return(pendingUser(time.Hour), nil).Once()
		repo.On("ActivateUser", mock.Anything, 3, mock.Anything, "tok-123").Return(0, nil).Once()

		svc := New(repo, maker, newNoopLogger())
		_, err := svc.Activate(context.Background(), validReq)
		require.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"maria@example.com", "ma***@example.com"},
		{"jo@example.com", "j***@example.com"},
		{"a@example.com", "a***@example.com"},
		{"not-an-email", "***"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, maskEmail(tt.email))
	}
}
