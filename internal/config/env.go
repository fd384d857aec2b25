// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Store backends accepted by JOURNAL_STORE.
const (
	StoreMemory    = "memory"
	StorePostgres  = "postgres"
	StoreSQLite    = "sqlite"
	StoreFirestore = "firestore"
)

// Journald configures the journal API server.
type Journald struct {
	Addr                 string        `env:"JOURNAL_ADDR" envDefault:":8080"`
	Store                string        `env:"JOURNAL_STORE" envDefault:"memory"`
	DatabaseURL          string        `env:"DATABASE_URL"`
	SQLitePath           string        `env:"SQLITE_PATH" envDefault:"journal.db"`
	FirestoreProject     string        `env:"FIRESTORE_PROJECT"`
	FirestoreCredentials string        `env:"FIRESTORE_CREDENTIALS"`
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SweepInterval        time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"15m"`
	SecureCookies        bool          `env:"SECURE_COOKIES" envDefault:"false"`
	OIDC                 OIDC          `envPrefix:"OIDC_"`
}

// OIDC configures optional single sign-on.
type OIDC struct {
	Issuer       string `env:"ISSUER"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
}

// Enabled reports whether every OIDC setting is present.
func (o OIDC) Enabled() bool {
	return o.Issuer != "" && o.ClientID != "" && o.ClientSecret != "" && o.RedirectURL != ""
}

// Validate checks that the selected store has what it needs.
func (c Journald) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for store %q", c.Store)
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for store %q", c.Store)
		}
	case StoreFirestore:
		if c.FirestoreProject == "" {
			return fmt.Errorf("FIRESTORE_PROJECT is required for store %q", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	return nil
}

// Mail providers accepted by MAIL_PROVIDER.
const (
	MailSMTP    = "smtp"
	MailEmailJS = "emailjs"
)

// Relay configures the contact mail relay.
type Relay struct {
	Addr           string   `env:"RELAY_ADDR" envDefault:":5000"`
	Provider       string   `env:"MAIL_PROVIDER" envDefault:"smtp"`
	To             string   `env:"MAIL_TO"`
	AllowedOrigins []string `env:"RELAY_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	SMTP           SMTP     `envPrefix:"SMTP_"`
	EmailJS        EmailJS  `envPrefix:"EMAILJS_"`
}

// SMTP configures the SMTP mailer.
type SMTP struct {
	Host     string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"`
}

// EmailJS configures the EmailJS REST mailer.
type EmailJS struct {
	BaseURL    string        `env:"BASE_URL" envDefault:"https://api.emailjs.com"`
	ServiceID  string        `env:"SERVICE_ID"`
	TemplateID string        `env:"TEMPLATE_ID"`
	PublicKey  string        `env:"PUBLIC_KEY"`
	PrivateKey string        `env:"PRIVATE_KEY"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Validate checks that the selected provider has what it needs.
func (c Relay) Validate() error {
	switch c.Provider {
	case MailSMTP:
		if c.SMTP.Username == "" || c.SMTP.Password == "" {
			return fmt.Errorf("SMTP_USERNAME and SMTP_PASSWORD are required for provider %q", c.Provider)
		}
	case MailEmailJS:
		if c.EmailJS.ServiceID == "" || c.EmailJS.TemplateID == "" || c.EmailJS.PublicKey == "" {
			return fmt.Errorf("EMAILJS_SERVICE_ID, EMAILJS_TEMPLATE_ID and EMAILJS_PUBLIC_KEY are required for provider %q", c.Provider)
		}
	default:
		return fmt.Errorf("unknown mail provider %q", c.Provider)
	}
	return nil
}
