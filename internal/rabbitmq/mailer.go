package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/imobsites/platform/internal/models"
)

// MailerPublisher publishes activation emails to the mailer exchange.
type MailerPublisher struct {
	ch *amqp.Channel
}

// NewMailerPublisher creates a MailerPublisher over an open channel.
func NewMailerPublisher(ch *amqp.Channel) *MailerPublisher {
	return &MailerPublisher{ch: ch}
}

// PublishActivationMail enqueues one activation email message.
func (p *MailerPublisher) PublishActivationMail(mail models.ActivationMail) error {
	return PublishMessage(p.ch, MailerExchange, ActivationRoutingKey, mail)
}
