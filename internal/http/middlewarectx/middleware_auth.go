// Package middlewarectx contains the HTTP middleware of the platform:
// JWT session checks, role gating, host based tenant resolution and
// rate limiting. Request-scoped values travel in the context.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/imobsites/platform/internal/http/response"
	jwtlib "github.com/imobsites/platform/internal/lib/jwt"
	"github.com/imobsites/platform/internal/lib/sl"
)

// Key is the type of request context keys.
type Key string

const (
	// UserID is the authenticated user's id.
	UserID Key = "user_id"
	// UserEmail is the authenticated user's email.
	UserEmail Key = "user_email"
	// Role is the authenticated user's role.
	Role Key = "role"
	// SessionTenantID is the tenant id carried by the session token.
	SessionTenantID Key = "session_tenant_id"
	// Tenant is the tenant resolved from the request host.
	Tenant Key = "tenant"
)

// JWTMiddleware checks the Bearer token in the Authorization header and
// stores the session claims in the request context. Invalid or missing
// tokens answer 401.
func JWTMiddleware(maker jwtlib.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := maker.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), UserID, claims.UserID)
			ctx = context.WithValue(ctx, UserEmail, claims.Email)
			ctx = context.WithValue(ctx, Role, claims.Role)
			ctx = context.WithValue(ctx, SessionTenantID, claims.TenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route on the session role stored by JWTMiddleware.
func RequireRole(role string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRole"

			got, _ := r.Context().Value(Role).(string)
			if got != role {
				log.Error("forbidden",
					slog.String("op", op),
					slog.String("required_role", role),
					slog.String("role", got),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
