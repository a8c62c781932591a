// Package platform wires the API application: storage, cache, billing
// gateway, broker and the HTTP server.
package platform

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/imobsites/platform/internal/asaas"
	"github.com/imobsites/platform/internal/cache"
	"github.com/imobsites/platform/internal/config"
	jwtlib "github.com/imobsites/platform/internal/lib/jwt"
	"github.com/imobsites/platform/internal/migrations"
	"github.com/imobsites/platform/internal/rabbitmq"
	activationservice "github.com/imobsites/platform/internal/services/activation"
	authservice "github.com/imobsites/platform/internal/services/auth"
	catalogservice "github.com/imobsites/platform/internal/services/catalog"
	listingservice "github.com/imobsites/platform/internal/services/listing"
	onboardingservice "github.com/imobsites/platform/internal/services/onboarding"
	orderservice "github.com/imobsites/platform/internal/services/order"
	tenantservice "github.com/imobsites/platform/internal/services/tenant"
	"github.com/imobsites/platform/internal/storage"
)

// App is the API application.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	rabbit *amqp.Connection
	ch     *amqp.Channel
}

// New builds the App from config: connects every dependency, runs the
// migrations and registers the routes.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetMailerQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	gateway := asaas.NewClient(cfg.Asaas.APIBaseURL, cfg.Asaas.APIKey)
	tokenMaker := jwtlib.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	mailer := rabbitmq.NewMailerPublisher(ch)

	services := &Services{
		Orders:     orderservice.New(db, gateway, logger),
		Onboarding: onboardingservice.New(db, mailer, cfg.PlatformBaseURL, logger),
		Activation: activationservice.New(db, tokenMaker, logger),
		Auth:       authservice.New(db, tokenMaker, logger),
		Tenants:    tenantservice.New(db, cacheRedis, logger),
		Catalog:    catalogservice.New(db, cacheRedis, logger),
		Listings:   listingservice.New(db, logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services, tokenMaker, cfg.Asaas.WebhookToken, db, conn, cacheRedis)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		rabbit: conn,
		ch:     ch,
	}, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.ch.Close()
		_ = a.rabbit.Close()
		_ = a.db.DB.Close()
		return err
	}
}
