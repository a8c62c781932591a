// Package sender wires the mail worker: broker consumer plus the SMTP
// transport.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/imobsites/platform/internal/config"
	"github.com/imobsites/platform/internal/lib/smtp"
	"github.com/imobsites/platform/internal/rabbitmq"
	senderservice "github.com/imobsites/platform/internal/services/sender"
)

// App is the mail worker application.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New connects the broker and builds the sender service.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetMailerQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(logger, transport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run consumes the activation queue until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.ActivationQueue, a.senderService.SendActivationEmail)
	if err != nil {
		a.logger.Error("failed to start activation queue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("Sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
