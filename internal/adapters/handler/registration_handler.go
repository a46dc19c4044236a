package handler

import (
	"net/http"

	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/core/ports"
)

type RegistrationHandler struct {
	registrationService ports.RegistrationService
}

func NewRegistrationHandler(registration ports.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registration}
}

// Register creates an account of any role.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.NewUser
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	role, err := domain.ParseRole(string(req.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}
	req.Role = role

	user, err := h.registrationService.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Admit creates a student from the admission form.
func (h *RegistrationHandler) Admit(w http.ResponseWriter, r *http.Request) {
	var req domain.NewStudent
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.registrationService.AdmitStudent(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}
