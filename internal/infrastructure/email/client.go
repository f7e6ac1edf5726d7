// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"
	"os"

	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/email/templates"
	"github.com/Laisfaustt/ProjetoCamali/pkg/config"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock
// implementations in tests.
type Service interface {
	SendPasswordResetEmail(toEmail, displayName, resetURL string) error
}

// ResendClient is the concrete implementation of the email Service using the
// Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: config.EmailFrom,
		fromName:  config.EmailFromName,
	}, nil
}

// SendPasswordResetEmail composes and sends the password recovery email.
func (c *ResendClient) SendPasswordResetEmail(toEmail, displayName, resetURL string) error {
	subject := "Redefina sua senha do Camali"

	htmlContent := templates.PasswordResetEmail(templates.PasswordResetProps{
		Name:            displayName,
		ResetURL:        resetURL,
		ExpirationHours: 1,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send password reset email via Resend: %w", err)
	}

	return nil
}
