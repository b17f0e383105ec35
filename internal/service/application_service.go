package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/platform/metrics"
	"github.com/phrazzld/console-api/internal/store"
)

// ApplicationService provides the consumer application lifecycle.
type ApplicationService interface {
	// FindByID returns one application with its primary owner.
	FindByID(ctx context.Context, id string) (*domain.ApplicationView, error)

	// FindByUser returns the ACTIVE applications a user reaches directly or
	// through a group granting an APPLICATION role.
	FindByUser(ctx context.Context, username string) ([]*domain.ApplicationView, error)

	// FindByName returns the ACTIVE applications whose name contains name.
	FindByName(ctx context.Context, name string) ([]*domain.ApplicationView, error)

	// FindByGroup returns the ACTIVE applications of a group.
	FindByGroup(ctx context.Context, groupID string) ([]*domain.ApplicationView, error)

	// FindAll returns every ACTIVE application.
	FindAll(ctx context.Context) ([]*domain.ApplicationView, error)

	// Create creates an application owned by username.
	Create(ctx context.Context, n domain.NewApplication, username string) (*domain.ApplicationView, error)

	// Update replaces the mutable fields of an ACTIVE application.
	Update(ctx context.Context, id string, u domain.UpdateApplication) (*domain.ApplicationView, error)

	// Archive closes the application's subscriptions, revokes their keys and
	// marks it ARCHIVED.
	Archive(ctx context.Context, id string) error
}

// ApplicationServiceDeps are the collaborators of ApplicationServiceImpl.
type ApplicationServiceDeps struct {
	Applications  store.ApplicationStore
	Users         UserService
	Memberships   MembershipService
	Groups        GroupService
	Subscriptions SubscriptionService
	APIKeys       APIKeyService
	Audit         AuditService
	Metrics       *metrics.Metrics
}

// ApplicationServiceImpl implements the ApplicationService interface
type ApplicationServiceImpl struct {
	apps          store.ApplicationStore
	users         UserService
	memberships   MembershipService
	groups        GroupService
	subscriptions SubscriptionService
	apiKeys       APIKeyService
	audit         AuditService
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

var _ ApplicationService = (*ApplicationServiceImpl)(nil)

// NewApplicationService creates an ApplicationService. Metrics may be nil.
func NewApplicationService(deps ApplicationServiceDeps, logger *slog.Logger) (*ApplicationServiceImpl, error) {
	if deps.Applications == nil || deps.Users == nil || deps.Memberships == nil || deps.Groups == nil ||
		deps.Subscriptions == nil || deps.APIKeys == nil || deps.Audit == nil {
		return nil, errors.New("application service: all dependencies are required")
	}
	return &ApplicationServiceImpl{
		apps:          deps.Applications,
		users:         deps.Users,
		memberships:   deps.Memberships,
		groups:        deps.Groups,
		subscriptions: deps.Subscriptions,
		apiKeys:       deps.APIKeys,
		audit:         deps.Audit,
		metrics:       deps.Metrics,
		logger:        logger.With("component", "application_service"),
	}, nil
}

// FindByID implements ApplicationService.
func (s *ApplicationServiceImpl) FindByID(ctx context.Context, id string) (*domain.ApplicationView, error) {
	app, err := s.findApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toView(ctx, app)
}

// FindByUser implements ApplicationService.
func (s *ApplicationServiceImpl) FindByUser(ctx context.Context, username string) ([]*domain.ApplicationView, error) {
	direct, err := s.memberships.FindByUserAndReferenceType(ctx, username, domain.ReferenceApplication)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(direct))
	for _, m := range direct {
		ids = append(ids, m.ReferenceID)
	}

	var apps []*domain.Application
	if len(ids) > 0 {
		found, err := s.apps.FindByIDs(ctx, ids)
		if err != nil {
			return nil, technical("find applications", err)
		}
		for _, a := range found {
			if a.IsActive() {
				apps = append(apps, a)
			}
		}
	}

	groupMemberships, err := s.memberships.FindByUserAndReferenceType(ctx, username, domain.ReferenceGroup)
	if err != nil {
		return nil, err
	}
	var groupIDs []string
	for _, m := range groupMemberships {
		if m.HasScope(domain.RoleScopeApplication) {
			groupIDs = append(groupIDs, m.ReferenceID)
		}
	}
	if len(groupIDs) > 0 {
		viaGroups, err := s.apps.FindByGroups(ctx, groupIDs, domain.ApplicationActive)
		if err != nil {
			return nil, technical("find applications by groups", err)
		}
		apps = append(apps, viaGroups...)
	}

	return s.toViews(ctx, dedupe(apps))
}

// FindByName implements ApplicationService.
func (s *ApplicationServiceImpl) FindByName(ctx context.Context, name string) ([]*domain.ApplicationView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return []*domain.ApplicationView{}, nil
	}
	found, err := s.apps.FindByName(ctx, name)
	if err != nil {
		return nil, technical("find applications by name", err)
	}
	active := make([]*domain.Application, 0, len(found))
	for _, a := range found {
		if a.IsActive() {
			active = append(active, a)
		}
	}
	return s.toViews(ctx, active)
}

// FindByGroup implements ApplicationService.
func (s *ApplicationServiceImpl) FindByGroup(ctx context.Context, groupID string) ([]*domain.ApplicationView, error) {
	apps, err := s.apps.FindByGroups(ctx, []string{groupID}, domain.ApplicationActive)
	if err != nil {
		return nil, technical("find applications by group", err)
	}
	return s.toViews(ctx, apps)
}

// FindAll implements ApplicationService.
func (s *ApplicationServiceImpl) FindAll(ctx context.Context) ([]*domain.ApplicationView, error) {
	apps, err := s.apps.FindAll(ctx, domain.ApplicationActive)
	if err != nil {
		return nil, technical("find all applications", err)
	}
	return s.toViews(ctx, apps)
}

// Create implements ApplicationService.
func (s *ApplicationServiceImpl) Create(
	ctx context.Context,
	n domain.NewApplication,
	username string,
) (*domain.ApplicationView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With("username", username)

	if len(n.Groups) > 0 {
		if _, err := s.groups.FindByIDs(ctx, n.Groups); err != nil {
			return nil, err
		}
	}

	app := n.ToApplication()
	app.ID = uuid.NewString()

	_, err := s.apps.FindByID(ctx, app.ID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", ErrApplicationAlreadyExists, app.ID)
	case !errors.Is(err, store.ErrApplicationNotFound):
		return nil, technical("check application id", err)
	}

	defaults, err := s.groups.FindByEvent(ctx, domain.GroupEventApplicationCreate)
	if err != nil {
		return nil, err
	}
	for _, g := range defaults {
		app.AddGroups(g.ID)
	}

	now := time.Now().UTC()
	app.Status = domain.ApplicationActive
	app.CreatedAt = now
	app.UpdatedAt = now
	if err := app.Validate(); err != nil {
		return nil, err
	}

	created, err := s.apps.Create(ctx, app)
	if errors.Is(err, store.ErrApplicationExists) {
		return nil, fmt.Errorf("%w: %s", ErrApplicationAlreadyExists, app.ID)
	}
	if err != nil {
		log.Error("failed to create application", "error", err)
		return nil, technical("create application", err)
	}

	s.audit.CreateApplicationAuditLog(ctx,
		created.ID,
		map[string]string{domain.AuditPropertyApplication: created.ID},
		domain.AuditApplicationCreated,
		actorOr(ctx, username),
		now,
		nil,
		created)

	if _, err := s.memberships.AddOrUpdateMember(ctx,
		domain.ReferenceApplication, created.ID, username,
		domain.RoleScopeApplication, domain.RolePrimaryOwner); err != nil {
		log.Error("failed to grant primary owner", "error", err, "application_id", created.ID)
		return nil, err
	}

	owner, err := s.users.FindByName(ctx, username, false)
	if err != nil {
		return nil, err
	}

	s.metrics.ApplicationTransition("created")
	log.Info("application created", "application_id", created.ID, "groups", created.Groups)
	return domain.NewApplicationView(created, owner), nil
}

// Update implements ApplicationService. CreatedAt is preserved and the
// status stays ACTIVE.
func (s *ApplicationServiceImpl) Update(
	ctx context.Context,
	id string,
	u domain.UpdateApplication,
) (*domain.ApplicationView, error) {
	if len(u.Groups) > 0 {
		if _, err := s.groups.FindByIDs(ctx, u.Groups); err != nil {
			return nil, err
		}
	}

	app, err := s.findApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if !app.IsActive() {
		return nil, fmt.Errorf("%w: %s", ErrApplicationArchived, id)
	}
	previous := app.Clone()

	replacement := u.ToApplication()
	now := time.Now().UTC()
	app.Name = replacement.Name
	app.Description = replacement.Description
	app.Type = replacement.Type
	app.Groups = replacement.Groups
	app.Status = domain.ApplicationActive
	app.UpdatedAt = now
	if err := app.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.apps.Update(ctx, app)
	if err != nil {
		return nil, technical("update application", err)
	}

	s.audit.CreateApplicationAuditLog(ctx,
		updated.ID,
		map[string]string{domain.AuditPropertyApplication: updated.ID},
		domain.AuditApplicationUpdated,
		actorOr(ctx, ""),
		now,
		previous,
		updated)

	s.metrics.ApplicationTransition("updated")
	return s.toView(ctx, updated)
}

// Archive implements ApplicationService. The cascade is best effort and not
// atomic: key revocation failures and non-closable subscriptions are logged
// and skipped, other failures abort with the application still ACTIVE.
func (s *ApplicationServiceImpl) Archive(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With("application_id", id)

	app, err := s.findApplication(ctx, id)
	if err != nil {
		return err
	}
	if !app.IsActive() {
		return fmt.Errorf("%w: %s", ErrApplicationArchived, id)
	}
	previous := app.Clone()

	subs, err := s.subscriptions.FindByApplicationAndPlan(ctx, id, "")
	if err != nil {
		return err
	}
	for _, sub := range subs {
		keys, err := s.apiKeys.FindBySubscription(ctx, sub.ID)
		if err != nil {
			return err
		}
		for _, k := range keys {
			if _, err := s.apiKeys.Revoke(ctx, k.Key); err != nil {
				log.Error("failed to revoke api key, continuing",
					"error", err,
					"subscription_id", sub.ID)
			}
		}

		if _, err := s.subscriptions.Close(ctx, sub.ID); err != nil {
			if errors.Is(err, ErrSubscriptionNotClosable) {
				log.Debug("subscription not closable, skipping",
					"subscription_id", sub.ID,
					"status", sub.Status)
				continue
			}
			return err
		}
	}

	now := time.Now().UTC()
	app.Status = domain.ApplicationArchived
	app.UpdatedAt = now

	archived, err := s.apps.Update(ctx, app)
	if err != nil {
		return technical("archive application", err)
	}

	s.audit.CreateApplicationAuditLog(ctx,
		archived.ID,
		map[string]string{domain.AuditPropertyApplication: archived.ID},
		domain.AuditApplicationArchived,
		actorOr(ctx, ""),
		now,
		previous,
		archived)

	s.metrics.ApplicationTransition("archived")
	log.Info("application archived", "subscriptions", len(subs))
	return nil
}

func (s *ApplicationServiceImpl) findApplication(ctx context.Context, id string) (*domain.Application, error) {
	app, err := s.apps.FindByID(ctx, id)
	if errors.Is(err, store.ErrApplicationNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrApplicationNotFound, id)
	}
	if err != nil {
		return nil, technical("find application", err)
	}
	return app, nil
}

func (s *ApplicationServiceImpl) toView(ctx context.Context, app *domain.Application) (*domain.ApplicationView, error) {
	views, err := s.toViews(ctx, []*domain.Application{app})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// toViews resolves the primary owners of a batch in one membership lookup.
// A single application without an owner fails the whole batch.
func (s *ApplicationServiceImpl) toViews(ctx context.Context, apps []*domain.Application) ([]*domain.ApplicationView, error) {
	if len(apps) == 0 {
		return []*domain.ApplicationView{}, nil
	}

	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.ID)
	}

	owners, err := s.memberships.FindByReferencesAndRole(ctx,
		domain.ReferenceApplication, ids, domain.RoleScopeApplication, domain.RolePrimaryOwner)
	if err != nil {
		return nil, err
	}
	if len(owners) < len(apps) {
		err := fmt.Errorf("%w: %d applications has no identified primary owners in this list %s.",
			ErrPrimaryOwnerMissing, len(apps)-len(owners), strings.Join(ids, " / "))
		logger.FromContextOrDefault(ctx, s.logger).Error("primary owner resolution failed", "error", err)
		return nil, err
	}

	ownerOf := make(map[string]string, len(owners))
	usernames := make([]string, 0, len(owners))
	seen := make(map[string]bool, len(owners))
	for _, m := range owners {
		ownerOf[m.ReferenceID] = m.UserID
		if !seen[m.UserID] {
			seen[m.UserID] = true
			usernames = append(usernames, m.UserID)
		}
	}

	users, err := s.users.FindByNames(ctx, usernames, false)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*domain.UserView, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}

	views := make([]*domain.ApplicationView, 0, len(apps))
	for _, a := range apps {
		views = append(views, domain.NewApplicationView(a, byName[ownerOf[a.ID]]))
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Name != views[j].Name {
			return views[i].Name < views[j].Name
		}
		return views[i].ID < views[j].ID
	})
	return views, nil
}

func dedupe(apps []*domain.Application) []*domain.Application {
	seen := make(map[string]bool, len(apps))
	out := make([]*domain.Application, 0, len(apps))
	for _, a := range apps {
		if !seen[a.ID] {
			seen[a.ID] = true
			out = append(out, a)
		}
	}
	return out
}
