package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"portfolio-backend/config"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/logger"

	"github.com/google/uuid"
)

// EmailService sends contact notifications to the site owner via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	toEmail   string
	timeout   time.Duration
	// dial is swapped in tests
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
	now  func() time.Time
}

// NewEmailService creates a new email service from SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	s := &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
		toEmail:   cfg.ContactEmailTo,
		timeout:   cfg.SMTPTimeout,
		now:       time.Now,
	}
	if s.fromEmail == "" {
		s.fromEmail = s.username
	}
	if s.timeout <= 0 {
		s.timeout = 15 * time.Second
	}
	s.dial = s.defaultDial
	return s
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.port != "" && s.username != "" && s.password != "" && s.toEmail != ""
}

// Recipient is the fixed operator address every notification goes to
func (s *EmailService) Recipient() string {
	return s.toEmail
}

// NotifyContact composes and sends the notification for a stored contact message
func (s *EmailService) NotifyContact(ctx context.Context, msg *domain.ContactMessage) error {
	if !s.IsConfigured() {
		return domain.ErrMailNotConfigured
	}

	notification, err := s.ComposeContactEmail(msg)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMailTransport, err)
	}

	return s.Send(ctx, notification)
}

// Send delivers one email over a fresh SMTP session. The connection is
// always closed before returning, whatever the outcome.
func (s *EmailService) Send(ctx context.Context, email domain.NotificationEmail) error {
	body, err := BuildMIMEMessage(email, s.now(), s.messageID())
	if err != nil {
		return fmt.Errorf("%w: build message: %w", domain.ErrMailTransport, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	addr := net.JoinHostPort(s.host, s.port)
	conn, err := s.dial(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %w", domain.ErrMailTransport, addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: handshake: %w", domain.ErrMailTransport, err)
	}
	defer client.Close()

	if err := s.deliver(client, email, body); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMailTransport, err)
	}
	return nil
}

func (s *EmailService) deliver(client *smtp.Client, email domain.NotificationEmail, body []byte) error {
	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{
			ServerName: s.host,
			MinVersion: tls.VersionTLS12,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("starttls failed: %w", err)
		}
	}

	if ok, _ := client.Extension("AUTH"); ok && s.username != "" {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("auth failed: %w", err)
		}
	}

	if err := client.Mail(email.FromEmail); err != nil {
		return fmt.Errorf("mail from failed: %w", err)
	}
	if err := client.Rcpt(email.To); err != nil {
		return fmt.Errorf("rcpt to failed: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("data failed: %w", err)
	}
	if _, err := writer.Write(body); err != nil {
		writer.Close()
		return fmt.Errorf("write body failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("relay rejected message: %w", err)
	}

	// The relay owns the message once DATA is accepted
	if err := client.Quit(); err != nil {
		logger.Log.Warn("SMTP QUIT failed after message was accepted", "host", s.host, "error", err)
	}
	return nil
}

// defaultDial uses implicit TLS on port 465 and plain TCP (upgraded by STARTTLS) elsewhere
func (s *EmailService) defaultDial(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	if s.port == "465" {
		tlsDialer := &tls.Dialer{
			NetDialer: dialer,
			Config:    &tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12},
		}
		return tlsDialer.DialContext(ctx, network, addr)
	}
	return dialer.DialContext(ctx, network, addr)
}

func (s *EmailService) messageID() string {
	domainPart := "localhost"
	if at := strings.LastIndexByte(s.fromEmail, '@'); at >= 0 && at < len(s.fromEmail)-1 {
		domainPart = s.fromEmail[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domainPart)
}
