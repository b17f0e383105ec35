package api

import (
	"context"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/service"
	"github.com/stretchr/testify/mock"
)

type mockUserService struct {
	mock.Mock
}

var _ service.UserService = (*mockUserService)(nil)

func (m *mockUserService) userView(args mock.Arguments) (*domain.UserView, error) {
	v, _ := args.Get(0).(*domain.UserView)
	return v, args.Error(1)
}

func (m *mockUserService) Connect(ctx context.Context, username string) (*domain.UserView, error) {
	return m.userView(m.Called(ctx, username))
}

func (m *mockUserService) FindByName(ctx context.Context, username string, loadRoles bool) (*domain.UserView, error) {
	return m.userView(m.Called(ctx, username, loadRoles))
}

func (m *mockUserService) FindByNames(ctx context.Context, usernames []string, loadRoles bool) ([]*domain.UserView, error) {
	args := m.Called(ctx, usernames, loadRoles)
	v, _ := args.Get(0).([]*domain.UserView)
	return v, args.Error(1)
}

func (m *mockUserService) CompleteRegistration(ctx context.Context, r domain.RegisterUser) (*domain.UserView, error) {
	return m.userView(m.Called(ctx, r))
}

func (m *mockUserService) CreateExternal(ctx context.Context, n domain.NewExternalUser, addDefaultRole bool) (*domain.UserView, error) {
	return m.userView(m.Called(ctx, n, addDefaultRole))
}

func (m *mockUserService) Register(ctx context.Context, n domain.NewExternalUser) (*domain.UserView, error) {
	return m.userView(m.Called(ctx, n))
}

func (m *mockUserService) Update(ctx context.Context, u domain.UpdateUser) (*domain.UserView, error) {
	return m.userView(m.Called(ctx, u))
}

func (m *mockUserService) FindAll(ctx context.Context, loadRoles bool) ([]*domain.UserView, error) {
	args := m.Called(ctx, loadRoles)
	v, _ := args.Get(0).([]*domain.UserView)
	return v, args.Error(1)
}

type mockApplicationService struct {
	mock.Mock
}

var _ service.ApplicationService = (*mockApplicationService)(nil)

func (m *mockApplicationService) view(args mock.Arguments) (*domain.ApplicationView, error) {
	v, _ := args.Get(0).(*domain.ApplicationView)
	return v, args.Error(1)
}

func (m *mockApplicationService) views(args mock.Arguments) ([]*domain.ApplicationView, error) {
	v, _ := args.Get(0).([]*domain.ApplicationView)
	return v, args.Error(1)
}

func (m *mockApplicationService) FindByID(ctx context.Context, id string) (*domain.ApplicationView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *mockApplicationService) FindByUser(ctx context.Context, username string) ([]*domain.ApplicationView, error) {
	return m.views(m.Called(ctx, username))
}

func (m *mockApplicationService) FindByName(ctx context.Context, name string) ([]*domain.ApplicationView, error) {
	return m.views(m.Called(ctx, name))
}

func (m *mockApplicationService) FindByGroup(ctx context.Context, groupID string) ([]*domain.ApplicationView, error) {
	return m.views(m.Called(ctx, groupID))
}

func (m *mockApplicationService) FindAll(ctx context.Context) ([]*domain.ApplicationView, error) {
	return m.views(m.Called(ctx))
}

func (m *mockApplicationService) Create(ctx context.Context, n domain.NewApplication, username string) (*domain.ApplicationView, error) {
	return m.view(m.Called(ctx, n, username))
}

func (m *mockApplicationService) Update(ctx context.Context, id string, u domain.UpdateApplication) (*domain.ApplicationView, error) {
	return m.view(m.Called(ctx, id, u))
}

func (m *mockApplicationService) Archive(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockTicketService struct {
	mock.Mock
}

var _ service.TicketService = (*mockTicketService)(nil)

func (m *mockTicketService) Create(ctx context.Context, username string, t domain.NewTicket) error {
	return m.Called(ctx, username, t).Error(0)
}

type mockMembershipService struct {
	mock.Mock
}

var _ service.MembershipService = (*mockMembershipService)(nil)

func (m *mockMembershipService) AddOrUpdateMember(
	ctx context.Context,
	referenceType domain.MembershipReferenceType,
	referenceID, username string,
	scope domain.RoleScope,
	roleName string,
) (*domain.Membership, error) {
	args := m.Called(ctx, referenceType, referenceID, username, scope, roleName)
	v, _ := args.Get(0).(*domain.Membership)
	return v, args.Error(1)
}

func (m *mockMembershipService) GetRole(
	ctx context.Context,
	referenceType domain.MembershipReferenceType,
	referenceID, username string,
	scope domain.RoleScope,
) (*domain.Role, error) {
	args := m.Called(ctx, referenceType, referenceID, username, scope)
	v, _ := args.Get(0).(*domain.Role)
	return v, args.Error(1)
}

func (m *mockMembershipService) FindByUserAndReferenceType(
	ctx context.Context,
	username string,
	referenceType domain.MembershipReferenceType,
) ([]*domain.Membership, error) {
	args := m.Called(ctx, username, referenceType)
	v, _ := args.Get(0).([]*domain.Membership)
	return v, args.Error(1)
}

func (m *mockMembershipService) FindByReferencesAndRole(
	ctx context.Context,
	referenceType domain.MembershipReferenceType,
	referenceIDs []string,
	scope domain.RoleScope,
	role string,
) ([]*domain.Membership, error) {
	args := m.Called(ctx, referenceType, referenceIDs, scope, role)
	v, _ := args.Get(0).([]*domain.Membership)
	return v, args.Error(1)
}
