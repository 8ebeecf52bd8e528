package emailsend

import (
	"context"
	"errors"
	"net"
)

var (
	ErrInvalidAddress = errors.New("INVALID_EMAIL_ADDRESS")
	ErrSMTP           = errors.New("SMTP_ERROR")
)

// DialFunc opens the TCP connection to the SMTP server.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// envelope is the SMTP-level view of one message.
type envelope struct {
	From       string
	Recipients []string
	Data       []byte
}
