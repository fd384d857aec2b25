package mail

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"journal/internal/domain"

	"github.com/go-resty/resty/v2"
)

const emailJSSendPath = "/api/v1.0/email/send"

// EmailJSConfig identifies the EmailJS service and template to send with.
type EmailJSConfig struct {
	BaseURL    string
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
	To         string
	Timeout    time.Duration
}

// EmailJS sends contact messages through the EmailJS REST API.
type EmailJS struct {
	client *resty.Client
	cfg    EmailJSConfig
}

var _ domain.Mailer = (*EmailJS)(nil)

// NewEmailJS creates an EmailJS mailer.
func NewEmailJS(cfg EmailJSConfig) *EmailJS {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)
	return &EmailJS{client: c, cfg: cfg}
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// SendContact posts the message to EmailJS once.
func (e *EmailJS) SendContact(ctx context.Context, msg domain.ContactMessage) error {
	html, err := renderHTML(msg)
	if err != nil {
		return err
	}
	req := emailJSRequest{
		ServiceID:   e.cfg.ServiceID,
		TemplateID:  e.cfg.TemplateID,
		UserID:      e.cfg.PublicKey,
		AccessToken: e.cfg.PrivateKey,
		TemplateParams: map[string]string{
			"first_name": msg.FirstName,
			"last_name":  msg.LastName,
			"from_name":  msg.FullName(),
			"reply_to":   msg.Email,
			"phone":      msg.Phone,
			"message":    msg.Message,
			"subject":    subject(msg),
			"html":       html,
			"to_email":   e.cfg.To,
		},
	}

	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(&req).
		Post(emailJSSendPath)
	if err != nil {
		return fmt.Errorf("emailjs request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("emailjs status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
