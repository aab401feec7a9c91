package mailer

import (
	"context"
	"fmt"
	"time"

	"Warbler/api/config"

	"github.com/matcornic/hermes/v2"
	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends the transactional emails Warbler needs.
type Mailer interface {
	SendPasswordReset(ctx context.Context, toName, toEmail, resetLink string) error
}

// New returns a SendGrid mailer, or a log-only one when no API key is set.
func New(cfg config.MailConfig, logger zerolog.Logger) Mailer {
	h := newHermes(cfg)
	if cfg.SendGridAPIKey == "" {
		return &LogMailer{hermes: h, logger: logger}
	}
	return &SendGridMailer{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromAddress),
		hermes: h,
	}
}

func newHermes(cfg config.MailConfig) hermes.Hermes {
	return hermes.Hermes{
		Product: hermes.Product{
			Name:      cfg.FromName,
			Link:      cfg.ProductLink,
			Copyright: fmt.Sprintf("Copyright © %d Warbler.", time.Now().Year()),
		},
	}
}

// PasswordResetEmail renders the reset email as HTML and plain text.
func PasswordResetEmail(h hermes.Hermes, name, link string) (string, string, error) {
	email := hermes.Email{
		Body: hermes.Body{
			Name: name,
			Intros: []string{
				"You have received this email because a password reset was requested for your Warbler account.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Click the button below to choose a new password:",
					Button: hermes.Button{
						Color: "#DC4D2F",
						Text:  "Reset your password",
						Link:  link,
					},
				},
			},
			Outros: []string{
				"If you did not request a password reset, no further action is required.",
			},
			Signature: "Thanks",
		},
	}

	html, err := h.GenerateHTML(email)
	if err != nil {
		return "", "", err
	}
	text, err := h.GeneratePlainText(email)
	if err != nil {
		return "", "", err
	}
	return html, text, nil
}

type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
	hermes hermes.Hermes
}

func (m *SendGridMailer) SendPasswordReset(ctx context.Context, toName, toEmail, resetLink string) error {
	html, text, err := PasswordResetEmail(m.hermes, toName, resetLink)
	if err != nil {
		return err
	}

	message := mail.NewSingleEmail(m.from, "Reset your Warbler password", mail.NewEmail(toName, toEmail), text, html)
	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

// LogMailer renders emails and logs them instead of sending.
type LogMailer struct {
	hermes hermes.Hermes
	logger zerolog.Logger
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, toName, toEmail, resetLink string) error {
	if _, _, err := PasswordResetEmail(m.hermes, toName, resetLink); err != nil {
		return err
	}
	m.logger.Info().
		Str("to", toEmail).
		Str("reset_link", resetLink).
		Msg("password reset email not sent: no SendGrid API key")
	return nil
}
