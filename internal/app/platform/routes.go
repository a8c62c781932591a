package platform

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/imobsites/platform/internal/cache"
	"github.com/imobsites/platform/internal/http/handlers/account/activate"
	"github.com/imobsites/platform/internal/http/handlers/account/activationinfo"
	"github.com/imobsites/platform/internal/http/handlers/admin/profileread"
	"github.com/imobsites/platform/internal/http/handlers/admin/profileupdate"
	"github.com/imobsites/platform/internal/http/handlers/admin/settingsread"
	"github.com/imobsites/platform/internal/http/handlers/admin/settingsupdate"
	"github.com/imobsites/platform/internal/http/handlers/auth/login"
	"github.com/imobsites/platform/internal/http/handlers/health"
	listingcreate "github.com/imobsites/platform/internal/http/handlers/listing/create"
	listinglist "github.com/imobsites/platform/internal/http/handlers/listing/list"
	listingremove "github.com/imobsites/platform/internal/http/handlers/listing/remove"
	listingupdate "github.com/imobsites/platform/internal/http/handlers/listing/update"
	"github.com/imobsites/platform/internal/http/handlers/master/orderlist"
	"github.com/imobsites/platform/internal/http/handlers/master/tenantlist"
	"github.com/imobsites/platform/internal/http/handlers/master/tenantstatus"
	ordercreate "github.com/imobsites/platform/internal/http/handlers/order/create"
	"github.com/imobsites/platform/internal/http/handlers/payment/asaaswebhook"
	planlist "github.com/imobsites/platform/internal/http/handlers/plan/list"
	sitelistingget "github.com/imobsites/platform/internal/http/handlers/site/listingget"
	sitelistinglist "github.com/imobsites/platform/internal/http/handlers/site/listinglist"
	siteprofile "github.com/imobsites/platform/internal/http/handlers/site/profile"
	"github.com/imobsites/platform/internal/http/middlewarectx"
	jwtlib "github.com/imobsites/platform/internal/lib/jwt"
	activationservice "github.com/imobsites/platform/internal/services/activation"
	authservice "github.com/imobsites/platform/internal/services/auth"
	catalogservice "github.com/imobsites/platform/internal/services/catalog"
	listingservice "github.com/imobsites/platform/internal/services/listing"
	onboardingservice "github.com/imobsites/platform/internal/services/onboarding"
	orderservice "github.com/imobsites/platform/internal/services/order"
	tenantservice "github.com/imobsites/platform/internal/services/tenant"
	"github.com/imobsites/platform/internal/models"
	"github.com/imobsites/platform/internal/storage"
)

// Services groups the business services the routes depend on.
type Services struct {
	Orders     *orderservice.Service
	Onboarding *onboardingservice.Service
	Activation *activationservice.Service
	Auth       *authservice.Service
	Tenants    *tenantservice.Service
	Catalog    *catalogservice.Service
	Listings   *listingservice.Service
}

// RegisterRoutes registers every route of the platform API.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services, tokenMaker jwtlib.Maker, webhookToken string, db *storage.Storage, rabbit *amqp.Connection, cacheRedis *cache.Cache) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		// Checkout and activation, open to the world.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/plans/public-list", planlist.New(logger, s.Catalog).ServeHTTP)
			r.Post("/orders/create", ordercreate.New(logger, s.Orders).ServeHTTP)
			r.Get("/account/activation", activationinfo.New(logger, s.Activation).ServeHTTP)
			r.Post("/account/activation", activate.New(logger, s.Activation).ServeHTTP)
			r.Post("/admin/login", login.New(logger, s.Auth).ServeHTTP)
		})

		// Billing gateway callback, authenticated by its own token.
		r.Post("/webhooks/asaas", asaaswebhook.New(logger, s.Orders, s.Onboarding, webhookToken).ServeHTTP)

		// Public site API, tenant resolved from the request host.
		r.Route("/site", func(r chi.Router) {
			r.Use(middlewarectx.TenantMiddleware(s.Tenants, logger))
			r.Get("/profile", siteprofile.New(logger, s.Tenants).ServeHTTP)
			r.Get("/listings", sitelistinglist.New(logger, s.Listings).ServeHTTP)
			r.Get("/listings/{id}", sitelistingget.New(logger, s.Listings).ServeHTTP)
		})

		// Admin panel, session scoped to one tenant.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokenMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/profile", profileread.New(logger, s.Tenants).ServeHTTP)
			r.Put("/profile", profileupdate.New(logger, s.Tenants).ServeHTTP)
			r.Get("/settings", settingsread.New(logger, s.Tenants).ServeHTTP)
			r.Put("/settings", settingsupdate.New(logger, s.Tenants).ServeHTTP)
			r.Post("/listings", listingcreate.New(logger, s.Listings).ServeHTTP)
			r.Get("/listings", listinglist.New(logger, s.Listings).ServeHTTP)
			r.Put("/listings/{id}", listingupdate.New(logger, s.Listings).ServeHTTP)
			r.Delete("/listings/{id}", listingremove.New(logger, s.Listings).ServeHTTP)
		})

		// Reseller panel, master role only.
		r.Route("/master", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokenMaker, logger))
			r.Use(middlewarectx.RequireRole(models.RoleMaster, logger))
			r.Get("/tenants", tenantlist.New(logger, s.Tenants).ServeHTTP)
			r.Put("/tenants/{id}/status", tenantstatus.New(logger, s.Tenants).ServeHTTP)
			r.Get("/orders", orderlist.New(logger, s.Orders).ServeHTTP)
		})

		r.Get("/health", health.New(logger, db, rabbit, cacheRedis).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
