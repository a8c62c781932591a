// Package auth implements the admin and master login.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	jwtlib "github.com/imobsites/platform/internal/lib/jwt"
	"github.com/imobsites/platform/internal/lib/password"
	"github.com/imobsites/platform/internal/models"
	"github.com/imobsites/platform/internal/storage"
)

// Sentinel errors for the login handler. Unknown email and wrong
// password collapse into ErrInvalidCredentials so the API does not leak
// which accounts exist.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account not activated")
)

// Repository defines the user persistence used by auth.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service implements login.
type Service struct {
	repo   Repository
	tokens jwtlib.Maker
	log    *slog.Logger
}

// New creates an auth Service.
func New(repo Repository, tokens jwtlib.Maker, log *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, log: log}
}

// LoginResult carries the session token and its subject.
type LoginResult struct {
	Token    string `json:"token"`
	TenantID int    `json:"tenant_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Login verifies the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	const op = "auth.Login"

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrAccountInactive
	}

	token, err := s.tokens.GenerateToken(user.ID, user.TenantID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged in",
		slog.Int("user_id", user.ID),
		slog.Int("tenant_id", user.TenantID),
		slog.String("role", user.Role))

	return &LoginResult{
		Token:    token,
		TenantID: user.TenantID,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}
