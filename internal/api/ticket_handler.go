package api

import (
	"net/http"

	"github.com/phrazzld/console-api/internal/api/shared"
	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/service"
)

// TicketHandler serves the support ticket endpoint.
type TicketHandler struct {
	tickets service.TicketService
}

// NewTicketHandler creates a TicketHandler.
func NewTicketHandler(tickets service.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// Create handles POST /api/platform/tickets. The ticket is sent on behalf of
// the current user.
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req domain.NewTicket
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.tickets.Create(r.Context(), username, req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusCreated)
}
