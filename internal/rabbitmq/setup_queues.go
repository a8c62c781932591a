package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// MailerExchange carries activation emails from the API to the sender
// worker.
const MailerExchange = "mailer"

// ActivationRoutingKey routes activation emails.
const ActivationRoutingKey = "activation"

// ActivationQueue is consumed by the sender worker.
const ActivationQueue = "mailer.activation"

func GetMailerQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: ActivationQueue, RoutingKey: ActivationRoutingKey},
	}
}
