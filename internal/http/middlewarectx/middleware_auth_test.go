package middlewarectx

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtlib "github.com/imobsites/platform/internal/lib/jwt"
	"github.com/imobsites/platform/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestJWTMiddleware(t *testing.T) {
	maker := jwtlib.NewMaker("test-secret", time.Hour)

	validToken, err := maker.GenerateToken(3, 9, "admin@example.com", models.RoleAdmin)
	require.NoError(t, err)

	otherMaker := jwtlib.NewMaker("other-secret", time.Hour)
	foreignToken, err := otherMaker.GenerateToken(3, 9, "admin@example.com", models.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "valid token passes with claims in context",
			authHeader: "Bearer " + validToken,
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "foreign signature",
			authHeader: "Bearer " + foreignToken,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				nextCalled = true
				assert.Equal(t, 3, r.Context().Value(UserID))
				assert.Equal(t, 9, r.Context().Value(SessionTenantID))
				assert.Equal(t, models.RoleAdmin, r.Context().Value(Role))
			})

			req := httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			JWTMiddleware(maker, discardLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		required   string
		wantStatus int
	}{
		{name: "matching role", role: models.RoleMaster, required: models.RoleMaster, wantStatus: http.StatusOK},
		{name: "admin hitting master route", role: models.RoleAdmin, required: models.RoleMaster, wantStatus: http.StatusForbidden},
		{name: "no role in context", role: "", required: models.RoleMaster, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/master/tenants", nil)
			if tt.role != "" {
				req = req.WithContext(context.WithValue(req.Context(), Role, tt.role))
			}
			rec := httptest.NewRecorder()

			RequireRole(tt.required, discardLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

type stubResolver struct {
	tenant *models.Tenant
	err    error
	host   string
}

func (s *stubResolver) ResolveHost(_ context.Context, host string) (*models.Tenant, error) {
	s.host = host
	return s.tenant, s.err
}

func TestTenantMiddleware(t *testing.T) {
	tenant := &models.Tenant{ID: 5, Slug: "imob-silva", Status: models.TenantStatusActive}

	t.Run("stores resolved tenant in context", func(t *testing.T) {
		resolver := &stubResolver{tenant: tenant}

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := TenantFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, 5, got.ID)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/site/profile", nil)
		req.Host = "Imoveissilva.com.br:8080"
		rec := httptest.NewRecorder()

		TenantMiddleware(resolver, discardLogger())(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "imoveissilva.com.br", resolver.host)
	})

	t.Run("resolver failure answers 500", func(t *testing.T) {
		resolver := &stubResolver{err: fmt.Errorf("db down")}

		next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			t.Error("next should not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/api/site/profile", nil)
		rec := httptest.NewRecorder()

		TenantMiddleware(resolver, discardLogger())(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestNormalizeHost(t *testing.T) {
	assert.Equal(t, "example.com", NormalizeHost("Example.com:443"))
	assert.Equal(t, "example.com", NormalizeHost("example.com"))
	assert.Equal(t, "imob-silva.platform.example", NormalizeHost("imob-silva.platform.example:8080"))
}
