package emailsend

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/models"
)

// Service delivers rendered confirmation messages over SMTP. It satisfies the
// notification Mailer interface.
type Service struct {
	config *Config
	dial   DialFunc
	logger logger.Logger
}

func NewService(config *Config, log logger.Logger) *Service {
	d := &net.Dialer{Timeout: config.Timeout}
	return &Service{
		config: config,
		dial:   d.DialContext,
		logger: logger.ForComponent(log, "smtp-mailer"),
	}
}

// WithDialer replaces the network dialer.
func (s *Service) WithDialer(dial DialFunc) *Service {
	s.dial = dial
	return s
}

func (s *Service) Send(ctx context.Context, msg *models.ConfirmationMessage) error {
	env, err := s.buildEnvelope(msg)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	if err := s.deliver(ctx, env); err != nil {
		return fmt.Errorf("%w: %v", ErrSMTP, err)
	}

	s.logger.Info("Email sent successfully", map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	return nil
}

func (s *Service) buildEnvelope(msg *models.ConfirmationMessage) (*envelope, error) {
	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return nil, fmt.Errorf("%w: from %q: %v", ErrInvalidAddress, msg.From, err)
	}
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return nil, fmt.Errorf("%w: to %q: %v", ErrInvalidAddress, msg.To, err)
	}

	recipients := []string{to.Address}
	var cc []*mail.Address
	if strings.TrimSpace(msg.CC) != "" {
		cc, err = mail.ParseAddressList(msg.CC)
		if err != nil {
			return nil, fmt.Errorf("%w: cc %q: %v", ErrInvalidAddress, msg.CC, err)
		}
		for _, a := range cc {
			recipients = append(recipients, a.Address)
		}
	}

	data, err := s.buildMessage(from, to, cc, msg)
	if err != nil {
		return nil, err
	}
	return &envelope{From: from.Address, Recipients: recipients, Data: data}, nil
}

// buildMessage writes a multipart/alternative message with a plain text part
// followed by the HTML part.
func (s *Service) buildMessage(from, to *mail.Address, cc []*mail.Address, msg *models.ConfirmationMessage) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", msg.TextBody},
		{"text/html; charset=UTF-8", msg.HTMLBody},
	}
	for _, p := range parts {
		if p.content == "" {
			continue
		}
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", p.contentType)
		h.Set("Content-Transfer-Encoding", "8bit")
		w, err := mw.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create mime part: %w", err)
		}
		if _, err := w.Write([]byte(normalizeNewlines(p.content))); err != nil {
			return nil, fmt.Errorf("write mime part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close mime writer: %w", err)
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from.String())
	fmt.Fprintf(&b, "To: %s\r\n", to.String())
	if len(cc) > 0 {
		list := make([]string, len(cc))
		for i, a := range cc {
			list[i] = a.String()
		}
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(list, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: %s\r\n", s.messageID())
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	b.WriteString("\r\n")
	b.Write(body.Bytes())
	return b.Bytes(), nil
}

func (s *Service) messageID() string {
	host := s.config.Host
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("<%s@%s>", uuid.New().String(), host)
}

func (s *Service) deliver(ctx context.Context, env *envelope) error {
	client, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err = client.Mail(env.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, addr := range env.Recipients {
		if err = client.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", addr, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(env.Data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return client.Quit()
}

// connect dials the server, upgrades with STARTTLS when configured and
// authenticates when credentials are set.
func (s *Service) connect(ctx context.Context) (*smtp.Client, error) {
	conn, err := s.dial(ctx, "tcp", s.config.address())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("smtp handshake: %w", err)
	}

	if s.config.UseTLS {
		if err = client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if s.config.Username != "" && s.config.Password != "" {
		auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
		if err = client.Auth(auth); err != nil {
			client.Close()
			return nil, fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}
	return client, nil
}

// TestConnection performs the handshake and quits without sending.
func (s *Service) TestConnection(ctx context.Context) error {
	client, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Quit()
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}
