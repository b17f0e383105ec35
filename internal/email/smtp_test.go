package email

import (
	"context"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/console-api/internal/config"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPSender_Send(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	s := NewSMTPSender(config.EmailConfig{Host: "smtp.example.com", Port: 2525, Username: "u", Password: "p"}, log)
	s.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }

	var gotAddr, gotFrom string
	var gotTo []string
	var gotBody []byte
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotBody = addr, from, to, msg
		assert.NotNil(t, a)
		return nil
	}

	err := s.Send(context.Background(), Message{
		From:     "portal@example.com",
		FromName: "John Doe",
		ReplyTo:  "jdoe@example.com",
		To:       []string{"support@example.com"},
		Bcc:      []string{"jdoe@example.com"},
		Subject:  "Help",
		HTMLBody: "<p>hi</p>",
	})
	require.NoError(t, err)

	body := string(gotBody)
	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	assert.Equal(t, "portal@example.com", gotFrom)
	assert.Equal(t, []string{"support@example.com", "jdoe@example.com"}, gotTo)
	assert.Contains(t, body, "From: \"John Doe\" <portal@example.com>\r\n")
	assert.Contains(t, body, "To: <support@example.com>\r\n")
	assert.Contains(t, body, "Reply-To: jdoe@example.com\r\n")
	assert.Contains(t, body, "Subject: Help\r\n")
	assert.NotContains(t, body, "Bcc")
	assert.True(t, strings.HasSuffix(body, "\r\n\r\n<p>hi</p>"))
}

func TestSMTPSender_Errors(t *testing.T) {
	log, _ := logger.NewTestLogger(t)
	s := NewSMTPSender(config.EmailConfig{Host: "smtp.example.com"}, log)
	assert.Equal(t, "smtp.example.com:587", s.addr)
	assert.Nil(t, s.auth)

	assert.ErrorIs(t, s.Send(context.Background(), Message{From: "a@example.com"}), ErrNoRecipients)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, Message{To: []string{"b@example.com"}}), context.Canceled)

	err := s.Send(context.Background(), Message{From: "a@example.com", To: []string{"not an address"}})
	assert.Error(t, err)
}
