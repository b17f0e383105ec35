package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/service/auth"
	"github.com/phrazzld/console-api/internal/store"
)

// registrationConfirmPath is appended to the portal URL, followed by the token.
const registrationConfirmPath = "/#!/registration/confirm/"

// UserService provides the console user lifecycle.
type UserService interface {
	// Connect records a successful login and returns the user with roles.
	// On a first connection it may create the user's default application.
	Connect(ctx context.Context, username string) (*domain.UserView, error)

	// FindByName returns one user, optionally with its PORTAL and MANAGEMENT roles.
	FindByName(ctx context.Context, username string, loadRoles bool) (*domain.UserView, error)

	// FindByNames returns the known users among usernames. A non-empty
	// request that matches nobody fails with ErrUserNotFound.
	FindByNames(ctx context.Context, usernames []string, loadRoles bool) ([]*domain.UserView, error)

	// CompleteRegistration sets the password of an invited user from a
	// registration token.
	CompleteRegistration(ctx context.Context, r domain.RegisterUser) (*domain.UserView, error)

	// CreateExternal pre-creates a user without a password, optionally with
	// the default MANAGEMENT and PORTAL roles.
	CreateExternal(ctx context.Context, n domain.NewExternalUser, addDefaultRole bool) (*domain.UserView, error)

	// Register pre-creates a portal user and e-mails a registration link.
	Register(ctx context.Context, n domain.NewExternalUser) (*domain.UserView, error)

	// Update changes the user's picture.
	Update(ctx context.Context, u domain.UpdateUser) (*domain.UserView, error)

	// FindAll returns every user ordered by username.
	FindAll(ctx context.Context, loadRoles bool) ([]*domain.UserView, error)
}

// UserServiceDeps are the collaborators of UserServiceImpl.
type UserServiceDeps struct {
	Users       store.UserStore
	Roles       RoleService
	Memberships MembershipService
	Audit       AuditService
	Email       EmailService
	Tokens      auth.RegistrationTokenService
	Hasher      auth.PasswordHasher
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	users       store.UserStore
	roles       RoleService
	memberships MembershipService
	audit       AuditService
	email       EmailService
	tokens      auth.RegistrationTokenService
	hasher      auth.PasswordHasher
	apps        ApplicationService
	settings    UserSettings
	logger      *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a UserService. The application service is wired
// afterwards with UseApplications, since it depends on this service too.
func NewUserService(deps UserServiceDeps, settings UserSettings, logger *slog.Logger) (*UserServiceImpl, error) {
	if deps.Users == nil || deps.Roles == nil || deps.Memberships == nil ||
		deps.Audit == nil || deps.Email == nil || deps.Tokens == nil || deps.Hasher == nil {
		return nil, errors.New("user service: all dependencies are required")
	}
	return &UserServiceImpl{
		users:       deps.Users,
		roles:       deps.Roles,
		memberships: deps.Memberships,
		audit:       deps.Audit,
		email:       deps.Email,
		tokens:      deps.Tokens,
		hasher:      deps.Hasher,
		settings:    settings,
		logger:      logger.With("component", "user_service"),
	}, nil
}

// UseApplications wires the application service used on first connection.
func (s *UserServiceImpl) UseApplications(apps ApplicationService) {
	s.apps = apps
}

// Connect implements UserService.
func (s *UserServiceImpl) Connect(ctx context.Context, username string) (*domain.UserView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With("username", username)

	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}
	previous := user.Clone()

	if user.FirstConnection() && s.settings.DefaultApplication {
		if s.apps == nil {
			return nil, ErrApplicationServiceNotReady
		}
		app, err := s.apps.Create(ctx, domain.NewApplication{
			Name:        domain.DefaultApplicationName,
			Description: domain.DefaultApplicationDescription,
		}, username)
		if err != nil {
			log.Error("failed to create default application", "error", err)
			return nil, err
		}
		log.Info("default application created", "application_id", app.ID)
	}

	now := time.Now().UTC()
	user.LastConnectionAt = &now
	user.UpdatedAt = now

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		log.Error("failed to record connection", "error", err)
		return nil, technical("connect user", err)
	}

	s.audit.CreatePortalAuditLog(ctx,
		map[string]string{domain.AuditPropertyUser: username},
		domain.AuditUserConnected,
		actorOr(ctx, username),
		now,
		previous,
		updated)

	return s.toView(ctx, updated, true)
}

// FindByName implements UserService.
func (s *UserServiceImpl) FindByName(ctx context.Context, username string, loadRoles bool) (*domain.UserView, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.toView(ctx, user, loadRoles)
}

// FindByNames implements UserService.
func (s *UserServiceImpl) FindByNames(ctx context.Context, usernames []string, loadRoles bool) ([]*domain.UserView, error) {
	if len(usernames) == 0 {
		return []*domain.UserView{}, nil
	}

	users, err := s.users.FindByUsernames(ctx, usernames)
	if err != nil {
		return nil, technical("find users", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, strings.Join(usernames, "/"))
	}
	return s.toViews(ctx, users, loadRoles)
}

// FindAll implements UserService.
func (s *UserServiceImpl) FindAll(ctx context.Context, loadRoles bool) ([]*domain.UserView, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, technical("find all users", err)
	}
	return s.toViews(ctx, users, loadRoles)
}

// CompleteRegistration implements UserService. Every failure past the
// registration switch is reported as one *TechnicalError carrying the
// cause's message.
func (s *UserServiceImpl) CompleteRegistration(ctx context.Context, r domain.RegisterUser) (*domain.UserView, error) {
	if !s.settings.RegistrationEnabled {
		return nil, ErrRegistrationDisabled
	}

	view, err := s.completeRegistration(ctx, r)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to complete user registration", "error", err)
		return nil, NewTechnicalError("complete registration", err.Error(), err)
	}
	return view, nil
}

func (s *UserServiceImpl) completeRegistration(ctx context.Context, r domain.RegisterUser) (*domain.UserView, error) {
	claims, err := s.tokens.Verify(ctx, r.Token)
	if errors.Is(err, auth.ErrMissingSecret) {
		return nil, ErrJWTSecretMissing
	}
	if err != nil {
		return nil, fmt.Errorf("invalid registration token: %w", err)
	}

	username := claims.Subject
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.HasPassword() {
		return nil, fmt.Errorf("%w: %s", ErrUsernameAlreadyExists, username)
	}
	previous := user.Clone()

	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user.Email = claims.Email
	user.Firstname = claims.Firstname
	user.Lastname = claims.Lastname
	user.Password = hash
	user.UpdatedAt = now
	if err := user.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.CreatePortalAuditLog(ctx,
		map[string]string{domain.AuditPropertyUser: username},
		domain.AuditUserCreated,
		username,
		now,
		previous,
		updated)

	logger.FromContextOrDefault(ctx, s.logger).Info("user registration completed", "username", username)
	return s.toView(ctx, updated, true)
}

// CreateExternal implements UserService.
func (s *UserServiceImpl) CreateExternal(
	ctx context.Context,
	n domain.NewExternalUser,
	addDefaultRole bool,
) (*domain.UserView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With("username", n.Username)

	_, err := s.users.FindByUsername(ctx, n.Username)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", ErrUsernameAlreadyExists, n.Username)
	case !errors.Is(err, store.ErrUserNotFound):
		return nil, technical("find user", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:  n.Username,
		Email:     n.Email,
		Firstname: n.Firstname,
		Lastname:  n.Lastname,
		Source:    n.Source,
		SourceID:  n.SourceID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, user)
	if errors.Is(err, store.ErrUsernameExists) {
		return nil, fmt.Errorf("%w: %s", ErrUsernameAlreadyExists, n.Username)
	}
	if err != nil {
		log.Error("failed to create user", "error", err)
		return nil, technical("create user", err)
	}

	s.audit.CreatePortalAuditLog(ctx,
		map[string]string{domain.AuditPropertyUser: created.Username},
		domain.AuditUserCreated,
		actorOr(ctx, created.Username),
		now,
		nil,
		created)

	if addDefaultRole {
		if err := s.addDefaultRoles(ctx, created.Username); err != nil {
			return nil, err
		}
	}

	log.Info("user created", "source", created.Source)
	return s.toView(ctx, created, true)
}

// addDefaultRoles grants the default MANAGEMENT and PORTAL roles under the
// default reference.
func (s *UserServiceImpl) addDefaultRoles(ctx context.Context, username string) error {
	roles, err := s.roles.FindDefaultRoleByScopes(ctx, domain.RoleScopeManagement, domain.RoleScopePortal)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return fmt.Errorf("%w for scopes %s, %s", ErrDefaultRoleNotFound, domain.RoleScopeManagement, domain.RoleScopePortal)
	}

	for _, role := range roles {
		refType := domain.ReferencePortal
		if role.Scope == domain.RoleScopeManagement {
			refType = domain.ReferenceManagement
		}
		if _, err := s.memberships.AddOrUpdateMember(ctx, refType, domain.DefaultReferenceID, username, role.Scope, role.Name); err != nil {
			return err
		}
	}
	return nil
}

// Register implements UserService.
func (s *UserServiceImpl) Register(ctx context.Context, n domain.NewExternalUser) (*domain.UserView, error) {
	if !s.settings.RegistrationEnabled {
		return nil, ErrRegistrationDisabled
	}
	if !s.tokens.Configured() {
		return nil, ErrJWTSecretMissing
	}
	if strings.TrimSpace(s.settings.PortalURL) == "" {
		return nil, ErrPortalURLMissing
	}

	n.Username = n.Email
	n.Source = domain.SourceInternal
	n.SourceID = n.Username

	user, err := s.CreateExternal(ctx, n, true)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Sign(ctx, auth.RegistrationClaims{
		Subject:   user.Username,
		Email:     user.Email,
		Firstname: user.Firstname,
		Lastname:  user.Lastname,
	})
	if err != nil {
		return nil, technical("sign registration token", err)
	}

	registrationURL := strings.TrimSuffix(strings.TrimSpace(s.settings.PortalURL), "/") + registrationConfirmPath + token
	s.email.SendAsync(ctx, domain.EmailNotification{
		To:       []string{user.Email},
		Subject:  "User registration - " + user.Username,
		Template: domain.TemplateUserRegistration,
		Params: map[string]any{
			"username":        user.Username,
			"token":           token,
			"registrationUrl": registrationURL,
			"user":            user,
		},
	})

	return user, nil
}

// Update implements UserService.
func (s *UserServiceImpl) Update(ctx context.Context, u domain.UpdateUser) (*domain.UserView, error) {
	user, err := s.findUser(ctx, u.Username)
	if err != nil {
		return nil, err
	}
	previous := user.Clone()

	now := time.Now().UTC()
	user.Picture = u.Picture
	user.UpdatedAt = now

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, technical("update user", err)
	}

	s.audit.CreatePortalAuditLog(ctx,
		map[string]string{domain.AuditPropertyUser: u.Username},
		domain.AuditUserUpdated,
		actorOr(ctx, u.Username),
		now,
		previous,
		updated)

	return s.toView(ctx, updated, true)
}

func (s *UserServiceImpl) findUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	if err != nil {
		return nil, technical("find user", err)
	}
	return user, nil
}

func (s *UserServiceImpl) toViews(ctx context.Context, users []*domain.User, loadRoles bool) ([]*domain.UserView, error) {
	out := make([]*domain.UserView, 0, len(users))
	for _, u := range users {
		v, err := s.toView(ctx, u, loadRoles)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// toView projects user and, when loadRoles is set, attaches its PORTAL and
// MANAGEMENT roles on the default reference. Missing roles are omitted.
func (s *UserServiceImpl) toView(ctx context.Context, user *domain.User, loadRoles bool) (*domain.UserView, error) {
	view := domain.NewUserView(user)
	if !loadRoles {
		return view, nil
	}

	scopes := []struct {
		refType domain.MembershipReferenceType
		scope   domain.RoleScope
	}{
		{domain.ReferencePortal, domain.RoleScopePortal},
		{domain.ReferenceManagement, domain.RoleScopeManagement},
	}
	for _, sc := range scopes {
		role, err := s.memberships.GetRole(ctx, sc.refType, domain.DefaultReferenceID, user.Username, sc.scope)
		if err != nil {
			return nil, err
		}
		if role == nil {
			continue
		}
		view.Roles = append(view.Roles, domain.UserRole{
			Scope:       role.Scope,
			Name:        role.Name,
			Permissions: role.Permissions,
		})
	}
	return view, nil
}
