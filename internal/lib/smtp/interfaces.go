// Package smtp provides interfaces for sending mail over SMTP.
package smtp

import "io"

// Client is the interface of an SMTP client session.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface is the interface of an SMTP transport.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
