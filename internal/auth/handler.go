package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Affo25/imsdashboard/internal"
	"github.com/Affo25/imsdashboard/internal/transport"
	"github.com/Affo25/imsdashboard/internal/user"
)

// CredentialStore is the slice of the user service the auth endpoints need.
type CredentialStore interface {
	CreateUser(ctx context.Context, in user.CreateUserInput) (*user.User, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
	TouchLastLogin(ctx context.Context, id int64)
}

type Handler struct {
	*transport.BaseHandler
	Users        CredentialStore
	Tokens       TokenServiceAPI
	CookieSecure bool
}

func NewHandler(baseHandler *transport.BaseHandler, users CredentialStore, tokens TokenServiceAPI, cookieSecure bool) *Handler {
	return &Handler{
		BaseHandler:  baseHandler,
		Users:        users,
		Tokens:       tokens,
		CookieSecure: cookieSecure,
	}
}

// Register handles POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if appErr := dto.Validate(); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	u, err := h.Users.CreateUser(r.Context(), dto.ToInput())
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			h.WriteAppError(w, internal.ErrEmailExists)
			return
		}
		h.Logger.Error("registration failed", "error", err)
		h.WriteAppError(w, internal.ErrInternal.WithCause(err))
		return
	}

	h.WriteJSON(w, http.StatusCreated, RegisterResponse{Success: true, User: u})
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if appErr := dto.Validate(); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	u, err := h.Users.Authenticate(r.Context(), dto.Email, dto.Password)
	if err != nil {
		h.Logger.Error("authentication failed", "error", err)
		h.WriteAppError(w, internal.ErrInternal.WithCause(err))
		return
	}
	if u == nil {
		h.WriteAppError(w, internal.ErrInvalidCredentials)
		return
	}

	h.Users.TouchLastLogin(r.Context(), u.ID)

	token, err := h.Tokens.Issue(internal.Identity{
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
	})
	if err != nil {
		h.Logger.Error("failed to issue token", "user_id", u.ID, "error", err)
		h.WriteAppError(w, internal.ErrInternal.WithCause(err))
		return
	}

	h.setAuthCookie(w, token, int(TokenLifetime.Seconds()))
	h.WriteJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		User:    u.ToSummary(),
		Token:   token,
	})
}

// Me handles GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	token := ExtractTokenFromRequest(r)
	if token == "" {
		h.WriteAppError(w, internal.ErrNoToken)
		return
	}

	claims, err := h.Tokens.Verify(token)
	if err != nil {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}

	u, err := h.Users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			h.WriteAppError(w, internal.ErrUserNotFound)
			return
		}
		h.Logger.Error("auth check failed", "user_id", claims.UserID, "error", err)
		h.WriteAppError(w, internal.ErrInternal.WithCause(err))
		return
	}

	h.WriteJSON(w, http.StatusOK, MeResponse{User: u.ToSummary()})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so this only
// clears the browser cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setAuthCookie(w, "", -1)
	h.WriteJSON(w, http.StatusOK, LogoutResponse{Success: true})
}

func (h *Handler) setAuthCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
