package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/imobsites/platform/internal/models"
)

// CreateUser inserts a user and returns its ID. Onboarding creates admin
// users inactive with an activation token attached.
func (s *Storage) CreateUser(ctx context.Context, u models.User) (int, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (tenant_id, name, email, password_hash, role, active,
			      activation_token, activation_expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		u.TenantID, u.Name, u.Email, u.PasswordHash, u.Role, u.Active,
		u.ActivationToken, u.ActivationExpiresAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

const userColumns = `id, tenant_id, name, email, password_hash, role, active,
			  activation_token, activation_expires_at, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var activationToken sql.NullString
	var activationExpiresAt sql.NullTime
	if err := row.Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Role, &u.Active, &activationToken, &activationExpiresAt,
		&u.CreatedAt); err != nil {
		return nil, err
	}
	if activationToken.Valid {
		u.ActivationToken = &activationToken.String
	}
	if activationExpiresAt.Valid {
		u.ActivationExpiresAt = &activationExpiresAt.Time
	}
	return &u, nil
}

// GetUserByEmail returns a user by email, regardless of active state.
// Login must distinguish "wrong password" from "not yet activated".
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByActivationToken returns the user holding an outstanding
// activation token. Consumed tokens no longer match.
func (s *Storage) GetUserByActivationToken(ctx context.Context, token string) (*models.User, error) {
	const op = "storage.GetUserByActivationToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE activation_token = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ActivateUser sets the password, marks the user active and clears the
// activation token in one conditional update. Zero affected rows means
// the token was already consumed, so a replayed activation cannot reset
// the password again.
func (s *Storage) ActivateUser(ctx context.Context, userID int, passwordHash, token string) (int, error) {
	const op = "storage.ActivateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $1, active = true,
			      activation_token = NULL, activation_expires_at = NULL
			  WHERE id = $2 AND activation_token = $3`
	result, err := s.DB.ExecContext(ctx, query, passwordHash, userID, token)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
