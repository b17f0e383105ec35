package domain

import (
	"slices"
	"time"
)

// RoleScope is the perimeter a role applies to.
type RoleScope string

const (
	RoleScopeManagement  RoleScope = "MANAGEMENT"
	RoleScopePortal      RoleScope = "PORTAL"
	RoleScopeAPI         RoleScope = "API"
	RoleScopeApplication RoleScope = "APPLICATION"
	RoleScopeGroup       RoleScope = "GROUP"
)

// RolePrimaryOwner is the system role every active application grants to
// exactly one user.
const RolePrimaryOwner = "PRIMARY_OWNER"

// DefaultReferenceID is the well-known reference under which MANAGEMENT and
// PORTAL memberships are recorded.
const DefaultReferenceID = "DEFAULT"

// MembershipReferenceType is the kind of entity a membership points at.
type MembershipReferenceType string

const (
	ReferenceApplication MembershipReferenceType = "APPLICATION"
	ReferenceAPI         MembershipReferenceType = "API"
	ReferenceGroup       MembershipReferenceType = "GROUP"
	ReferenceManagement  MembershipReferenceType = "MANAGEMENT"
	ReferencePortal      MembershipReferenceType = "PORTAL"
)

// Role is a named set of permissions within a scope.
type Role struct {
	Scope       RoleScope           `json:"scope" db:"scope"`
	Name        string              `json:"name" db:"name"`
	Description string              `json:"description,omitempty" db:"description"`
	Default     bool                `json:"default" db:"default_role"`
	System      bool                `json:"system" db:"system"`
	Permissions map[string][]string `json:"permissions,omitempty" db:"-"`
}

// Permission resources and actions found in role permission maps.
const (
	PermissionResourceUser        = "USER"
	PermissionResourceApplication = "APPLICATION"
	PermissionResourceDefinition  = "DEFINITION"

	PermissionCreate = "C"
	PermissionRead   = "R"
	PermissionUpdate = "U"
	PermissionDelete = "D"
)

// Grants reports whether the role allows action on resource. A nil role
// grants nothing.
func (r *Role) Grants(resource, action string) bool {
	if r == nil {
		return false
	}
	return slices.Contains(r.Permissions[resource], action)
}

// Membership associates a user with a reference entity and one role per scope.
type Membership struct {
	UserID        string                  `json:"userId"`
	ReferenceID   string                  `json:"referenceId"`
	ReferenceType MembershipReferenceType `json:"referenceType"`
	Roles         map[RoleScope]string    `json:"roles"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
}

// HasScope reports whether the membership grants some role in scope.
func (m *Membership) HasScope(scope RoleScope) bool {
	_, ok := m.Roles[scope]
	return ok
}

// NewPrimaryOwnerMembership grants PRIMARY_OWNER on an application.
func NewPrimaryOwnerMembership(username, applicationID string, at time.Time) *Membership {
	return &Membership{
		UserID:        username,
		ReferenceID:   applicationID,
		ReferenceType: ReferenceApplication,
		Roles:         map[RoleScope]string{RoleScopeApplication: RolePrimaryOwner},
		CreatedAt:     at,
		UpdatedAt:     at,
	}
}
