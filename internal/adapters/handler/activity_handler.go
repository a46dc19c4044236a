package handler

import (
	"net/http"

	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/core/services"
)

func (h *HostelHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	role, err := services.NotificationRole(p, r.URL.Query().Get("role"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	notifications, err := h.store.ListNotifications(r.Context(), role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *HostelHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := h.visibleNotification(w, r)
	if !ok {
		return
	}
	n, err := h.store.MarkNotificationRead(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *HostelHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := h.visibleNotification(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteNotification(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// visibleNotification resolves the {id} path value and checks the caller's
// role is targeted by that notification. Admins reach every notification.
// Anything else is reported as not found.
func (h *HostelHandler) visibleNotification(w http.ResponseWriter, r *http.Request) (string, bool) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return "", false
	}
	id := r.PathValue("id")
	if p.Role == domain.RoleAdmin {
		return id, true
	}
	feed, err := h.store.ListNotifications(r.Context(), p.Role)
	if err != nil {
		writeError(w, r, err)
		return "", false
	}
	for _, n := range feed {
		if n.ID == id {
			return id, true
		}
	}
	writeError(w, r, domain.NotFound("notification", id))
	return "", false
}

func (h *HostelHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	logs, err := h.store.ListMovementLogs(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// LogMovement records a check-in or check-out. Students omit studentId.
func (h *HostelHandler) LogMovement(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req domain.NewMovement
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.StudentID == "" && p.Role == domain.RoleStudent {
		req.StudentID = p.UserID
	}
	if err := services.CanLogMovement(p, req.StudentID); err != nil {
		writeError(w, r, err)
		return
	}
	log, err := h.store.LogMovement(r.Context(), req.StudentID, req.Type, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

func (h *HostelHandler) DeleteMovement(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteMovementLog(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HostelHandler) ListFees(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	studentID, err := services.StudentFilter(p, r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	fees, err := h.store.ListFees(r.Context(), studentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fees)
}

// SubmitFeeProof lets a student pay one of their own fees.
func (h *HostelHandler) SubmitFeeProof(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id := r.PathValue("id")
	if p.Role == domain.RoleStudent {
		fees, err := h.store.ListFees(r.Context(), p.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !ownsFee(fees, id) {
			writeError(w, r, domain.NotFound("fee", id))
			return
		}
	}

	var req domain.FeeProof
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	fee, err := h.store.SubmitFeeProof(r.Context(), id, req.TransactionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fee)
}

func (h *HostelHandler) ApproveFee(w http.ResponseWriter, r *http.Request) {
	fee, err := h.store.ApproveFee(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fee)
}

func (h *HostelHandler) DeleteFee(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteFee(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ownsFee(fees []domain.FeeRecord, id string) bool {
	for _, f := range fees {
		if f.ID == id {
			return true
		}
	}
	return false
}
