package middlewarectx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/imobsites/platform/internal/http/response"
	"github.com/imobsites/platform/internal/lib/sl"
	"github.com/imobsites/platform/internal/models"
)

// TenantResolver resolves the tenant serving a request host. It must
// always yield a tenant, falling back to the platform default.
type TenantResolver interface {
	ResolveHost(ctx context.Context, host string) (*models.Tenant, error)
}

// TenantMiddleware maps the request Host to a tenant and stores it in
// the context. Resolution failures answer 500.
func TenantMiddleware(resolver TenantResolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.TenantMiddleware"

			host := NormalizeHost(r.Host)
			tenant, err := resolver.ResolveHost(r.Context(), host)
			if err != nil {
				log.Error("failed to resolve tenant",
					slog.String("op", op),
					slog.String("host", host),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}
			ctx := context.WithValue(r.Context(), Tenant, tenant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TenantFromContext returns the tenant stored by TenantMiddleware.
func TenantFromContext(ctx context.Context) (*models.Tenant, bool) {
	tenant, ok := ctx.Value(Tenant).(*models.Tenant)
	return tenant, ok
}

// NormalizeHost strips the port and lowercases a request host.
func NormalizeHost(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(host)
}
