package email

import (
	"context"
	"log/slog"
	"strings"

	"github.com/phrazzld/console-api/internal/platform/logger"
)

// Message is a fully rendered e-mail ready for delivery.
type Message struct {
	From     string
	FromName string
	ReplyTo  string
	To       []string
	Bcc      []string
	Subject  string
	HTMLBody string
}

// Recipients returns every envelope recipient, To first.
func (m Message) Recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.Bcc))
	out = append(out, m.To...)
	return append(out, m.Bcc...)
}

// Sender delivers rendered messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender is a Sender that only logs the message envelope.
type LogSender struct {
	logger *slog.Logger
}

var _ Sender = (*LogSender)(nil)

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With(slog.String("component", "log_sender"))}
}

// Send implements Sender.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	logger.FromContextOrDefault(ctx, s.logger).Info("e-mail delivery disabled, message logged only",
		"to", strings.Join(msg.To, ","),
		"bcc_count", len(msg.Bcc),
		"subject", msg.Subject)
	return nil
}
