package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/gonbot/fisio-scheduler/pkg/logging"
)

// EmailNotifier delivers reminders to the clinic inbox via SendGrid.
type EmailNotifier struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	toEmail   string
	logger    *logging.Logger
}

// EmailConfig holds SendGrid configuration.
type EmailConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	ToEmail   string
}

// NewEmailNotifier creates a SendGrid-backed notifier. Returns nil if
// no API key is configured, so callers can skip wiring it.
func NewEmailNotifier(cfg EmailConfig, logger *logging.Logger) *EmailNotifier {
	if cfg.APIKey == "" || cfg.ToEmail == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "FisioBot"
	}
	return &EmailNotifier{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		toEmail:   cfg.ToEmail,
		logger:    logger,
	}
}

// Notify sends the reminder as a plain-text email.
func (n *EmailNotifier) Notify(ctx context.Context, title, body string) error {
	from := mail.NewEmail(n.fromName, n.fromEmail)
	to := mail.NewEmail("", n.toEmail)
	message := mail.NewSingleEmail(from, title, to, body, body)

	response, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("notify: sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("notify: sendgrid returned status %d", response.StatusCode)
	}

	n.logger.Info("reminder email sent", "to", n.toEmail, "subject", title)
	return nil
}
