package service_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/mocks"
	"github.com/phrazzld/console-api/internal/service"
	"github.com/stretchr/testify/require"
)

// fixture wires every service on in-memory stores.
type fixture struct {
	users       *mocks.MockUserStore
	apps        *mocks.MockApplicationStore
	memberships *mocks.MockMembershipStore
	roles       *mocks.MockRoleStore
	groups      *mocks.MockGroupStore
	subs        *mocks.MockSubscriptionStore
	keys        *mocks.MockAPIKeyStore
	audits      *mocks.MockAuditStore
	apis        *mocks.MockAPIStore
	metadata    *mocks.MockMetadataStore
	email       *mocks.MockEmailService
	tokens      *mocks.MockRegistrationTokens
	hasher      *mocks.MockPasswordHasher

	userSettings   service.UserSettings
	ticketSettings service.TicketSettings
}

func newFixture() *fixture {
	return &fixture{
		users:       mocks.NewMockUserStore(),
		apps:        mocks.NewMockApplicationStore(),
		memberships: mocks.NewMockMembershipStore(),
		roles: mocks.NewMockRoleStore(
			&domain.Role{Scope: domain.RoleScopeManagement, Name: "USER", Default: true},
			&domain.Role{Scope: domain.RoleScopePortal, Name: "USER", Default: true},
			&domain.Role{Scope: domain.RoleScopeApplication, Name: domain.RolePrimaryOwner, System: true},
			&domain.Role{Scope: domain.RoleScopeApplication, Name: "USER", Default: true},
		),
		groups:   mocks.NewMockGroupStore(),
		subs:     mocks.NewMockSubscriptionStore(),
		keys:     mocks.NewMockAPIKeyStore(),
		audits:   mocks.NewMockAuditStore(),
		apis:     mocks.NewMockAPIStore(),
		metadata: mocks.NewMockMetadataStore(nil),
		email:    &mocks.MockEmailService{},
		tokens:   &mocks.MockRegistrationTokens{Token: "signed-token"},
		hasher:   &mocks.MockPasswordHasher{},
		userSettings: service.UserSettings{
			DefaultApplication:  true,
			RegistrationEnabled: true,
			PortalURL:           "https://portal.example.com/",
		},
		ticketSettings: service.TicketSettings{SupportEnabled: true},
	}
}

type services struct {
	users   *service.UserServiceImpl
	apps    *service.ApplicationServiceImpl
	tickets *service.TicketServiceImpl
}

func (f *fixture) build(t *testing.T) services {
	t.Helper()
	log := testLogger()

	audit := service.NewAuditService(f.audits, nil, log)
	roles := service.NewRoleService(f.roles, log)
	memberships := service.NewMembershipService(f.memberships, roles, log)

	users, err := service.NewUserService(service.UserServiceDeps{
		Users:       f.users,
		Roles:       roles,
		Memberships: memberships,
		Audit:       audit,
		Email:       f.email,
		Tokens:      f.tokens,
		Hasher:      f.hasher,
	}, f.userSettings, log)
	require.NoError(t, err)

	apps, err := service.NewApplicationService(service.ApplicationServiceDeps{
		Applications:  f.apps,
		Users:         users,
		Memberships:   memberships,
		Groups:        service.NewGroupService(f.groups, log),
		Subscriptions: service.NewSubscriptionService(f.subs, log),
		APIKeys:       service.NewAPIKeyService(f.keys, log),
		Audit:         audit,
	}, log)
	require.NoError(t, err)
	users.UseApplications(apps)

	tickets, err := service.NewTicketService(service.TicketServiceDeps{
		Users:        users,
		Applications: apps,
		APIs:         service.NewAPIService(f.apis, log),
		Metadata:     service.NewMetadataService(f.metadata, log),
		Email:        f.email,
	}, f.ticketSettings, log)
	require.NoError(t, err)

	return services{users: users, apps: apps, tickets: tickets}
}

// addApplication stores an ACTIVE application owned by owner.
func (f *fixture) addApplication(id, name, owner string, groups ...string) *domain.Application {
	now := time.Now().UTC().Add(-time.Hour)
	app := &domain.Application{
		ID:          id,
		Name:        name,
		Description: name + " description",
		Status:      domain.ApplicationActive,
		Groups:      groups,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.apps.Applications[id] = app
	if owner != "" {
		f.memberships.Memberships = append(f.memberships.Memberships,
			domain.NewPrimaryOwnerMembership(owner, id, now))
	}
	return app
}

func (f *fixture) addUser(username string) *domain.User {
	now := time.Now().UTC().Add(-time.Hour)
	u := &domain.User{
		Username:  username,
		Email:     username + "@example.com",
		Firstname: "First",
		Lastname:  "Last",
		Source:    domain.SourceInternal,
		SourceID:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.users.Users[username] = u
	return u
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
