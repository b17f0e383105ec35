package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/platform/metrics"
	"github.com/phrazzld/console-api/internal/task"
)

// TaskTypeEmail tags queued e-mail deliveries.
const TaskTypeEmail = "email"

// Service turns notifications into messages and hands them to a Sender.
type Service struct {
	sender        Sender
	renderer      *Renderer
	queue         task.TaskQueueWriter
	from          string
	subjectPrefix string
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// Options configures a Service.
type Options struct {
	// From is the envelope sender. A notification's own From becomes the
	// Reply-To so relays do not reject spoofed senders.
	From          string
	SubjectPrefix string
	Metrics       *metrics.Metrics
}

// NewService creates an e-mail service. queue may be nil, in which case
// SendAsync delivers inline.
func NewService(sender Sender, renderer *Renderer, queue task.TaskQueueWriter, opts Options, logger *slog.Logger) (*Service, error) {
	if sender == nil {
		return nil, errors.New("email sender cannot be nil")
	}
	if renderer == nil {
		return nil, errors.New("email renderer cannot be nil")
	}
	return &Service{
		sender:        sender,
		renderer:      renderer,
		queue:         queue,
		from:          opts.From,
		subjectPrefix: opts.SubjectPrefix,
		metrics:       opts.Metrics,
		logger:        logger.With(slog.String("component", "email_service")),
	}, nil
}

// Send renders and delivers n before returning.
func (s *Service) Send(ctx context.Context, n domain.EmailNotification) error {
	msg, err := s.compose(n)
	if err != nil {
		s.metrics.EmailHandled(string(n.Template), metrics.EmailFailed)
		return err
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.metrics.EmailHandled(string(n.Template), metrics.EmailFailed)
		return err
	}
	s.metrics.EmailHandled(string(n.Template), metrics.EmailSent)
	return nil
}

// SendAsync queues n for background delivery and returns at once. Rendering
// and delivery errors, as well as a full or closed queue, are logged and
// never reach the caller.
func (s *Service) SendAsync(ctx context.Context, n domain.EmailNotification) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.queue == nil {
		if err := s.Send(ctx, n); err != nil {
			log.Error("e-mail delivery failed", "error", err, "template", n.Template)
		}
		return
	}

	t := task.NewFunc(TaskTypeEmail, func(taskCtx context.Context) error {
		if err := s.Send(logger.WithLogger(taskCtx, log), n); err != nil {
			log.Error("async e-mail delivery failed", "error", err, "template", n.Template)
			return err
		}
		return nil
	})
	if err := s.queue.Enqueue(t); err != nil {
		s.metrics.EmailHandled(string(n.Template), metrics.EmailDropped)
		log.Error("e-mail dropped, could not enqueue delivery",
			"error", err,
			"template", n.Template,
			"subject", n.Subject)
		return
	}
	log.Debug("e-mail queued", "task_id", t.ID(), "template", n.Template)
}

func (s *Service) compose(n domain.EmailNotification) (Message, error) {
	body, err := s.renderer.Render(n.Template, n.Params)
	if err != nil {
		return Message{}, err
	}

	to := make([]string, 0, len(n.To))
	for _, addr := range n.To {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) == 0 {
		return Message{}, ErrNoRecipients
	}

	msg := Message{
		From:     s.from,
		FromName: n.FromName,
		To:       to,
		Subject:  s.subject(n.Subject),
		HTMLBody: body,
	}
	if msg.From == "" {
		msg.From = n.From
	}
	if n.From != "" && n.From != msg.From {
		msg.ReplyTo = n.From
	}
	if n.CopyToSender && n.From != "" {
		msg.Bcc = []string{n.From}
	}
	if msg.From == "" {
		return Message{}, fmt.Errorf("no sender address for template %q", n.Template)
	}
	return msg, nil
}

func (s *Service) subject(subject string) string {
	if s.subjectPrefix == "" {
		return subject
	}
	return strings.TrimSpace(s.subjectPrefix) + " " + subject
}
