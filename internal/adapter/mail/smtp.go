package mail

import (
	"context"
	"fmt"

	"journal/internal/domain"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig holds the SMTP account used to relay messages.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// SMTP sends contact messages through an authenticated SMTP server.
type SMTP struct {
	client *gomail.Client
	from   string
	to     string
}

var _ domain.Mailer = (*SMTP)(nil)

// NewSMTP creates an SMTP mailer. From and To default to the username.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	c, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	from, to := cfg.From, cfg.To
	if from == "" {
		from = cfg.Username
	}
	if to == "" {
		to = cfg.Username
	}
	return &SMTP{client: c, from: from, to: to}, nil
}

// SendContact builds the message and sends it in a single attempt.
func (s *SMTP) SendContact(ctx context.Context, msg domain.ContactMessage) error {
	m, err := s.build(msg)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTP) build(msg domain.ContactMessage) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(s.from); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := m.To(s.to); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	if err := m.ReplyTo(msg.Email); err != nil {
		return nil, fmt.Errorf("smtp reply-to: %w", err)
	}
	m.Subject(subject(msg))

	html, err := renderHTML(msg)
	if err != nil {
		return nil, err
	}
	m.SetBodyString(gomail.TypeTextHTML, html)
	m.AddAlternativeString(gomail.TypeTextPlain, renderText(msg))
	return m, nil
}
