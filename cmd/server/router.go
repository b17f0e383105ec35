package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/console-api/internal/api"
	apiMiddleware "github.com/phrazzld/console-api/internal/api/middleware"
	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/redact"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(app.metrics.Middleware)

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.passwordVerifier, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	applicationHandler := api.NewApplicationHandler(app.applicationService, app.logger)
	ticketHandler := api.NewTicketHandler(app.ticketService)
	authz := api.NewAuthorizer(app.membershipService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/login", authHandler.Login)
		r.Post("/users/registration", userHandler.Register)
		r.Post("/users/registration/finalize", userHandler.FinalizeRegistration)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/user", userHandler.Current)
			r.Put("/user", userHandler.UpdateCurrent)

			r.With(authz.RequireManagement(domain.PermissionResourceUser, domain.PermissionRead)).
				Get("/users", userHandler.List)
			r.With(authz.RequireManagement(domain.PermissionResourceUser, domain.PermissionCreate)).
				Post("/users", userHandler.CreateExternal)
			r.With(authz.RequireManagement(domain.PermissionResourceUser, domain.PermissionRead)).
				Get("/users/{username}", userHandler.Get)

			r.Get("/applications", applicationHandler.List)
			r.Post("/applications", applicationHandler.Create)
			r.With(authz.RequireApplication(domain.PermissionResourceDefinition, domain.PermissionRead)).
				Get("/applications/{id}", applicationHandler.Get)
			r.With(authz.RequireApplication(domain.PermissionResourceDefinition, domain.PermissionUpdate)).
				Put("/applications/{id}", applicationHandler.Update)
			r.With(authz.RequireApplication(domain.PermissionResourceDefinition, domain.PermissionDelete)).
				Delete("/applications/{id}", applicationHandler.Archive)

			r.Post("/platform/tickets", ticketHandler.Create)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", redact.Attr(err))
		}
	})
	r.Handle("/metrics", app.metrics.Handler())

	return r
}
