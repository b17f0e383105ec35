package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/store"
)

// APIService reads API definitions for notification templates.
type APIService interface {
	// FindByIDForTemplates returns the API with its metadata.
	FindByIDForTemplates(ctx context.Context, id string) (*domain.APIModel, error)
}

// APIServiceImpl implements APIService.
type APIServiceImpl struct {
	apis   store.APIStore
	logger *slog.Logger
}

var _ APIService = (*APIServiceImpl)(nil)

// NewAPIService creates an APIService.
func NewAPIService(apis store.APIStore, logger *slog.Logger) *APIServiceImpl {
	return &APIServiceImpl{apis: apis, logger: logger.With("component", "api_service")}
}

// FindByIDForTemplates implements APIService.
func (s *APIServiceImpl) FindByIDForTemplates(ctx context.Context, id string) (*domain.APIModel, error) {
	api, err := s.apis.FindByID(ctx, id)
	if errors.Is(err, store.ErrAPINotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAPINotFound, id)
	}
	if err != nil {
		return nil, technical("find api", err)
	}
	return api, nil
}

// MetadataService reads portal metadata.
type MetadataService interface {
	// FindDefaultValue returns the portal value of key, or "" when unset.
	FindDefaultValue(ctx context.Context, key string) (string, error)
}

// MetadataServiceImpl implements MetadataService.
type MetadataServiceImpl struct {
	metadata store.MetadataStore
	logger   *slog.Logger
}

var _ MetadataService = (*MetadataServiceImpl)(nil)

// NewMetadataService creates a MetadataService.
func NewMetadataService(metadata store.MetadataStore, logger *slog.Logger) *MetadataServiceImpl {
	return &MetadataServiceImpl{metadata: metadata, logger: logger.With("component", "metadata_service")}
}

// FindDefaultValue implements MetadataService.
func (s *MetadataServiceImpl) FindDefaultValue(ctx context.Context, key string) (string, error) {
	v, err := s.metadata.FindByKey(ctx, key)
	if errors.Is(err, store.ErrMetadataNotFound) {
		return "", nil
	}
	if err != nil {
		return "", technical("find metadata", err)
	}
	return v, nil
}

// EmailService delivers notifications.
type EmailService interface {
	// Send renders and delivers n before returning.
	Send(ctx context.Context, n domain.EmailNotification) error

	// SendAsync queues n; delivery failures are never reported to the caller.
	SendAsync(ctx context.Context, n domain.EmailNotification)
}
