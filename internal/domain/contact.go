package domain

import (
	"context"
	"errors"
	"strings"
)

// ContactMessage is a contact-form submission.
type ContactMessage struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
}

// ErrIncompleteContact is returned when the sender email or the message is blank.
var ErrIncompleteContact = errors.New("email and message are required")

// Validate performs the presence checks on the submission.
func (m ContactMessage) Validate() error {
	if strings.TrimSpace(m.Email) == "" || strings.TrimSpace(m.Message) == "" {
		return ErrIncompleteContact
	}
	return nil
}

// FullName joins first and last name.
func (m ContactMessage) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Mailer is the port to an email-sending provider.
type Mailer interface {
	SendContact(ctx context.Context, msg ContactMessage) error
}
