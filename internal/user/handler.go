package user

import (
	"context"
	"net/http"

	"github.com/Affo25/imsdashboard/internal"
	"github.com/Affo25/imsdashboard/internal/transport"
)

type ServiceAPI interface {
	ListAll(ctx context.Context) ([]*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// ListUsers handles GET /api/users and GET /api/admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListAll(r.Context())
	if err != nil {
		h.Logger.Error("ListUsers: failed to list users", "error", err)
		h.WriteAppError(w, internal.ErrInternal)
		return
	}

	h.WriteJSON(w, http.StatusOK, UsersResponse{Users: users})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.landing(w, r, "dashboard")
}

func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	h.landing(w, r, "admin")
}

func (h *Handler) landing(w http.ResponseWriter, r *http.Request, page string) {
	id, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrNoToken)
		return
	}

	h.WriteJSON(w, http.StatusOK, LandingResponse{
		Page:   page,
		UserID: id.UserID,
		Email:  id.Email,
		Role:   id.Role,
	})
}
