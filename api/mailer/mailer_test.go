package mailer

import (
	"bytes"
	"context"
	"testing"

	"Warbler/api/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordResetEmailContainsLink(t *testing.T) {
	h := newHermes(config.MailConfig{FromName: "Warbler", ProductLink: "https://warbler.app"})

	html, text, err := PasswordResetEmail(h, "testuser", "https://warbler.app/password/reset?token=abc")
	require.NoError(t, err)

	assert.Contains(t, html, "https://warbler.app/password/reset?token=abc")
	assert.Contains(t, text, "https://warbler.app/password/reset?token=abc")
	assert.Contains(t, text, "testuser")
}

func TestNewWithoutAPIKeyLogs(t *testing.T) {
	var buf bytes.Buffer
	m := New(config.MailConfig{FromName: "Warbler", FromAddress: "no-reply@warbler.app"}, zerolog.New(&buf))

	_, ok := m.(*LogMailer)
	require.True(t, ok)

	require.NoError(t, m.SendPasswordReset(context.Background(), "testuser", "test@test.com", "https://warbler.app/reset"))
	assert.Contains(t, buf.String(), "test@test.com")
}

func TestNewWithAPIKeyUsesSendGrid(t *testing.T) {
	m := New(config.MailConfig{SendGridAPIKey: "SG.test", FromName: "Warbler", FromAddress: "no-reply@warbler.app"}, zerolog.Nop())

	_, ok := m.(*SendGridMailer)
	assert.True(t, ok)
}
