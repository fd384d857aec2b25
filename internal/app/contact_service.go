package app

import (
	"context"
	"fmt"

	"journal/internal/domain"
)

// ContactService relays contact-form submissions to a mail provider.
type ContactService struct {
	mailer domain.Mailer
}

// NewContactService creates a ContactService sending through mailer.
func NewContactService(mailer domain.Mailer) *ContactService {
	return &ContactService{mailer: mailer}
}

// Send validates msg and hands it to the provider once. There is no retry
// and nothing is kept when the provider fails.
func (s *ContactService) Send(ctx context.Context, msg domain.ContactMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := s.mailer.SendContact(ctx, msg); err != nil {
		return fmt.Errorf("send contact message: %w", err)
	}
	return nil
}
