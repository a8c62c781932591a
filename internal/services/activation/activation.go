// Package activation turns the inactive admin user created during
// onboarding into a working account: token inspection for the
// activation page plus the password-setting activation itself.
package activation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	jwtlib "github.com/imobsites/platform/internal/lib/jwt"
	"github.com/imobsites/platform/internal/lib/password"
	"github.com/imobsites/platform/internal/models"
	"github.com/imobsites/platform/internal/storage"
)

// Sentinel errors distinguishing activation outcomes for the handlers.
var (
	ErrTokenInvalid     = errors.New("activation token invalid")
	ErrTokenExpired     = errors.New("activation token expired")
	ErrPasswordMismatch = errors.New("password confirmation mismatch")
	ErrTermsNotAccepted = errors.New("terms not accepted")
)

// Repository defines the user persistence used by activation.
type Repository interface {
	GetUserByActivationToken(ctx context.Context, token string) (*models.User, error)
	ActivateUser(ctx context.Context, userID int, passwordHash, token string) (int, error)
}

// Service implements account activation.
type Service struct {
	repo   Repository
	tokens jwtlib.Maker
	log    *slog.Logger
}

// New creates an activation Service.
func New(repo Repository, tokens jwtlib.Maker, log *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, log: log}
}

// TokenInfo is what the activation page needs to render: whether the
// link is still usable and a masked hint of the account email.
type TokenInfo struct {
	Valid       bool   `json:"valid"`
	Expired     bool   `json:"expired,omitempty"`
	MaskedEmail string `json:"masked_email,omitempty"`
}

// ActivationResult is returned on successful activation: a session
// token so the new admin lands straight in the panel.
type ActivationResult struct {
	Token    string `json:"token"`
	TenantID int    `json:"tenant_id"`
	Email    string `json:"email"`
}

// InspectToken reports whether an activation token is usable.
func (s *Service) InspectToken(ctx context.Context, token string) (*TokenInfo, error) {
	const op = "activation.InspectToken"

	user, err := s.repo.GetUserByActivationToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &TokenInfo{Valid: false}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if user.ActivationExpiresAt != nil && time.Now().After(*user.ActivationExpiresAt) {
		return &TokenInfo{Valid: false, Expired: true}, nil
	}
	return &TokenInfo{Valid: true, MaskedEmail: maskEmail(user.Email)}, nil
}

// Activate sets the account password and flips the user active. The
// token is consumed atomically, so a second submit with the same link
// fails with ErrTokenInvalid.
func (s *Service) Activate(ctx context.Context, req models.ActivationRequest) (*ActivationResult, error) {
	const op = "activation.Activate"

	if req.Password != req.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}
	if !req.AcceptTerms {
		return nil, ErrTermsNotAccepted
	}

	user, err := s.repo.GetUserByActivationToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.ActivationExpiresAt != nil && time.Now().After(*user.ActivationExpiresAt) {
		return nil, ErrTokenExpired
	}

	hash, err := password.GetHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := s.repo.ActivateUser(ctx, user.ID, hash, req.Token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, ErrTokenInvalid
	}

	sessionToken, err := s.tokens.GenerateToken(user.ID, user.TenantID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("account activated",
		slog.Int("user_id", user.ID),
		slog.Int("tenant_id", user.TenantID))

	return &ActivationResult{
		Token:    sessionToken,
		TenantID: user.TenantID,
		Email:    user.Email,
	}, nil
}

// maskEmail keeps the first two local characters and the domain:
// maria@example.com becomes ma***@example.com.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	local := email[:at]
	if len(local) <= 2 {
		return local[:1] + "***" + email[at:]
	}
	return local[:2] + "***" + email[at:]
}
