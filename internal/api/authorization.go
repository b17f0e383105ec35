package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/service"
)

// Authorizer guards routes with the permissions of the current user's roles.
// It must run behind the auth middleware.
type Authorizer struct {
	memberships service.MembershipService
	logger      *slog.Logger
}

// NewAuthorizer creates an Authorizer.
func NewAuthorizer(memberships service.MembershipService, logger *slog.Logger) *Authorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authorizer{
		memberships: memberships,
		logger:      logger.With("component", "authorizer"),
	}
}

// RequireManagement admits users whose MANAGEMENT role grants action on
// resource.
func (a *Authorizer) RequireManagement(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := actorFromRequest(w, r)
			if !ok {
				return
			}

			allowed, err := a.managementGrants(r.Context(), username, resource, action)
			if err != nil {
				HandleAPIError(w, r, err, "")
				return
			}
			if !allowed {
				a.deny(w, r, username, domain.DefaultReferenceID, resource, action)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireApplication admits users whose role on the application named by
// the {id} path parameter grants action on resource. A MANAGEMENT role
// granting the same action on every application also passes.
func (a *Authorizer) RequireApplication(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := actorFromRequest(w, r)
			if !ok {
				return
			}
			id, ok := pathParam(w, r, "id")
			if !ok {
				return
			}

			role, err := a.memberships.GetRole(r.Context(),
				domain.ReferenceApplication, id, username, domain.RoleScopeApplication)
			if err != nil {
				HandleAPIError(w, r, err, "")
				return
			}
			if role.Grants(resource, action) {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := a.managementGrants(r.Context(), username, domain.PermissionResourceApplication, action)
			if err != nil {
				HandleAPIError(w, r, err, "")
				return
			}
			if !allowed {
				a.deny(w, r, username, id, resource, action)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *Authorizer) managementGrants(ctx context.Context, username, resource, action string) (bool, error) {
	role, err := a.memberships.GetRole(ctx,
		domain.ReferenceManagement, domain.DefaultReferenceID, username, domain.RoleScopeManagement)
	if err != nil {
		return false, err
	}
	return role.Grants(resource, action), nil
}

func (a *Authorizer) deny(w http.ResponseWriter, r *http.Request, username, referenceID, resource, action string) {
	logger.FromContextOrDefault(r.Context(), a.logger).Warn("permission denied",
		slog.String("username", username),
		slog.String("reference_id", referenceID),
		slog.String("resource", resource),
		slog.String("action", action))
	HandleAPIError(w, r, ErrForbidden, "")
}
