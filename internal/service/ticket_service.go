package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
)

// TicketService forwards support requests to the support mailbox of an API
// or of the portal.
type TicketService interface {
	// Create sends t on behalf of username. Delivery is synchronous.
	Create(ctx context.Context, username string, t domain.NewTicket) error
}

// TicketServiceDeps are the collaborators of TicketServiceImpl.
type TicketServiceDeps struct {
	Users        UserService
	Applications ApplicationService
	APIs         APIService
	Metadata     MetadataService
	Email        EmailService
}

// TicketServiceImpl implements the TicketService interface
type TicketServiceImpl struct {
	users    UserService
	apps     ApplicationService
	apis     APIService
	metadata MetadataService
	email    EmailService
	settings TicketSettings
	logger   *slog.Logger
}

var _ TicketService = (*TicketServiceImpl)(nil)

// NewTicketService creates a TicketService.
func NewTicketService(deps TicketServiceDeps, settings TicketSettings, logger *slog.Logger) (*TicketServiceImpl, error) {
	if deps.Users == nil || deps.Applications == nil || deps.APIs == nil || deps.Metadata == nil || deps.Email == nil {
		return nil, errors.New("ticket service: all dependencies are required")
	}
	return &TicketServiceImpl{
		users:    deps.Users,
		apps:     deps.Applications,
		apis:     deps.APIs,
		metadata: deps.Metadata,
		email:    deps.Email,
		settings: settings,
		logger:   logger.With("component", "ticket_service"),
	}, nil
}

// Create implements TicketService.
func (s *TicketServiceImpl) Create(ctx context.Context, username string, t domain.NewTicket) error {
	if err := s.create(ctx, username, t); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create support ticket",
			"error", err,
			"username", username,
			"api", t.API)
		return technical("create ticket", err)
	}
	return nil
}

func (s *TicketServiceImpl) create(ctx context.Context, username string, t domain.NewTicket) error {
	if !s.settings.SupportEnabled {
		return ErrSupportUnavailable
	}

	user, err := s.users.FindByName(ctx, username, false)
	if err != nil {
		return err
	}
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("%w: %s", ErrEmailRequired, username)
	}

	var api *domain.APIModel
	recipient := ""
	if t.API != "" {
		api, err = s.apis.FindByIDForTemplates(ctx, t.API)
		if err != nil {
			return err
		}
		recipient = api.Metadata[domain.MetadataEmailSupportKey]
	} else {
		recipient, err = s.metadata.FindDefaultValue(ctx, domain.MetadataEmailSupportKey)
		if err != nil {
			return err
		}
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" || recipient == domain.DefaultEmailSupport {
		return ErrSupportEmailNotConfigured
	}

	var app *domain.ApplicationView
	if t.Application != "" {
		app, err = s.apps.FindByID(ctx, t.Application)
		if err != nil {
			return err
		}
	}

	params := map[string]any{
		"user":    user,
		"content": strings.ReplaceAll(t.Content, "\n", "<br />"),
	}
	if api != nil {
		params["api"] = api
	}
	if app != nil {
		params["application"] = app
	}

	if err := s.email.Send(ctx, domain.EmailNotification{
		From:         user.Email,
		FromName:     user.DisplayName(),
		To:           []string{recipient},
		Subject:      t.Subject,
		Template:     domain.TemplateSupportTicket,
		Params:       params,
		CopyToSender: t.CopyToSender,
	}); err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("support ticket sent",
		"username", username,
		"api", t.API,
		"application", t.Application)
	return nil
}
