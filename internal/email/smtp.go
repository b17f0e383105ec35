package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/console-api/internal/config"
	"github.com/phrazzld/console-api/internal/platform/logger"
)

// ErrNoRecipients is returned when a message has no envelope recipient.
var ErrNoRecipients = errors.New("email has no recipients")

// SMTPSender delivers messages through an SMTP relay. STARTTLS is used when
// the server offers it; credentials, when configured, use PLAIN auth.
type SMTPSender struct {
	addr     string
	host     string
	auth     smtp.Auth
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now      func() time.Time
	logger   *slog.Logger
}

var _ Sender = (*SMTPSender)(nil)

// NewSMTPSender creates a sender for the relay described by cfg.
func NewSMTPSender(cfg config.EmailConfig, logger *slog.Logger) *SMTPSender {
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	s := &SMTPSender{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		host:     cfg.Host,
		sendMail: smtp.SendMail,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "smtp_sender")),
	}
	if cfg.Username != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return s
}

// Send implements Sender. net/smtp has no context support, so ctx is only
// checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rcpt := msg.Recipients()
	if len(rcpt) == 0 {
		return ErrNoRecipients
	}

	body, err := s.build(msg)
	if err != nil {
		return err
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := s.sendMail(s.addr, s.auth, msg.From, rcpt, body); err != nil {
		log.Error("smtp delivery failed",
			"error", err,
			"relay", s.addr,
			"subject", msg.Subject)
		return fmt.Errorf("failed to send e-mail via %s: %w", s.addr, err)
	}

	log.Debug("e-mail delivered", "relay", s.addr, "recipients", len(rcpt))
	return nil
}

// build writes the RFC 5322 message. Bcc recipients only appear in the
// envelope.
func (s *SMTPSender) build(msg Message) ([]byte, error) {
	from := mail.Address{Name: msg.FromName, Address: msg.From}
	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		parsed, err := mail.ParseAddress(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid recipient %q: %w", addr, err)
		}
		to = append(to, parsed.String())
	}

	var b bytes.Buffer
	writeHeader(&b, "From", from.String())
	if len(to) > 0 {
		writeHeader(&b, "To", strings.Join(to, ", "))
	}
	if msg.ReplyTo != "" {
		writeHeader(&b, "Reply-To", msg.ReplyTo)
	}
	writeHeader(&b, "Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	writeHeader(&b, "Date", s.now().Format(time.RFC1123Z))
	writeHeader(&b, "Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), s.host))
	writeHeader(&b, "MIME-Version", "1.0")
	writeHeader(&b, "Content-Type", `text/html; charset="utf-8"`)
	writeHeader(&b, "Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.HTMLBody, "\n", "\r\n"))
	return b.Bytes(), nil
}

func writeHeader(b *bytes.Buffer, key, value string) {
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\r\n")
}
