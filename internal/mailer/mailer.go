package mailer

import (
	"context"
	"crypto/tls"

	"github.com/merabestie/sellerhub/config"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers one message. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends through an authenticated SMTP account. Every Send dials a
// fresh connection so concurrent broadcasts do not share a session.
type SMTPSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	if cfg.InsecureSkipVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true, ServerName: cfg.Host} //nolint:gosec // opt-in for self-signed relays
	}
	return &SMTPSender{dialer: d, from: cfg.User, fromName: cfg.FromName}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return errors.New("empty recipient")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return errors.Wrapf(err, "send mail to %s", msg.To)
	}
	return nil
}

// Verify dials and authenticates once, the way a transport self-check does at boot.
func (s *SMTPSender) Verify() error {
	closer, err := s.dialer.Dial()
	if err != nil {
		return errors.Wrap(err, "smtp dial")
	}
	return closer.Close()
}

// LogSender only logs messages. It is used when no SMTP account is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	zap.L().Info("mail (not sent, smtp disabled)",
		zap.String("namespace", "mailer"),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
