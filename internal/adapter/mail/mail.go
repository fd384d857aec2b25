// Package mail implements domain.Mailer for SMTP and the EmailJS REST API.
package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"journal/internal/domain"
)

var contactTemplate = template.Must(template.New("contact").Parse(`<h3>New contact message</h3>
<p><strong>Name:</strong> {{.FullName}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
`))

func subject(msg domain.ContactMessage) string {
	name := msg.FullName()
	if name == "" {
		name = msg.Email
	}
	return fmt.Sprintf("New contact message from %s", name)
}

// renderHTML renders the escaped HTML body of a contact message.
func renderHTML(msg domain.ContactMessage) (string, error) {
	var buf bytes.Buffer
	if err := contactTemplate.Execute(&buf, msg); err != nil {
		return "", fmt.Errorf("render contact body: %w", err)
	}
	return buf.String(), nil
}

func renderText(msg domain.ContactMessage) string {
	return fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\n\n%s\n", msg.FullName(), msg.Email, msg.Phone, msg.Message)
}
