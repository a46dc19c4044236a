package handler

import (
	"net/http"
	"strings"

	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/core/ports"
	"github.com/hostel-management/hostel-service/internal/core/services"
)

// AuthObserver is told about every login attempt.
type AuthObserver interface {
	RecordAuthAttempt(err error)
}

type AuthHandler struct {
	authService ports.AuthService
	users       ports.UserStore
	observer    AuthObserver
}

func NewAuthHandler(auth ports.AuthService, users ports.UserStore, observer AuthObserver) *AuthHandler {
	return &AuthHandler{authService: auth, users: users, observer: observer}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type ProfileRequest struct {
	Avatar string `json:"avatar"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	token, user, err := h.authService.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if h.observer != nil {
		h.observer.RecordAuthAttempt(err)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.authService.Logout(r.Context(), p.Token); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id := r.PathValue("id")
	if err := services.CanViewUser(p, id); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile sets the avatar URL of a user.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id := r.PathValue("id")
	if err := services.CanManageUser(p, id); err != nil {
		writeError(w, r, err)
		return
	}
	var req ProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.users.UpdateAvatar(r.Context(), id, req.Avatar)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
