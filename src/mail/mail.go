// Package mail renders and delivers the emails the API sends: account
// verification links and budget threshold alerts.
package mail

import (
	"context"
	"fmt"

	"gajanji-server/src/logger"

	gomail "github.com/wneessen/go-mail"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers messages through an SMTP relay, dialing per message.
type SMTPSender struct {
	cfg SMTPConfig
	log *logger.Logger
}

func NewSMTPSender(cfg SMTPConfig, log *logger.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log.WithComponent(logger.ComponentMail)}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Info("Email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// LogSender writes messages to the log instead of sending them. Used when no
// SMTP host is configured.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log.WithComponent(logger.ComponentMail)}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("Email not sent, SMTP disabled", "to", msg.To, "subject", msg.Subject, "body", msg.Text)
	return nil
}
