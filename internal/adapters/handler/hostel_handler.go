package handler

import (
	"net/http"

	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/core/ports"
	"github.com/hostel-management/hostel-service/internal/core/services"
)

// HostelHandler serves the records kept by the hostel store.
type HostelHandler struct {
	store ports.HostelStore
}

func NewHostelHandler(store ports.HostelStore) *HostelHandler {
	return &HostelHandler{store: store}
}

func (h *HostelHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.ListStudents(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (h *HostelHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteStudent(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HostelHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.store.ListRooms(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (h *HostelHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req domain.NewRoom
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	room, err := h.store.CreateRoom(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *HostelHandler) AssignRoom(w http.ResponseWriter, r *http.Request) {
	var req domain.AssignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.RoomID == "" || req.StudentID == "" {
		writeError(w, r, domain.Invalid("roomId and studentId are required"))
		return
	}
	room, err := h.store.AssignStudent(r.Context(), req.RoomID, req.StudentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *HostelHandler) ListComplaints(w http.ResponseWriter, r *http.Request) {
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
	complaints, err := h.store.ListComplaints(r.Context(), studentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, complaints)
}

func (h *HostelHandler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	author, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req domain.NewComplaint
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	complaint, err := h.store.CreateComplaint(r.Context(), req, author)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, complaint)
}

func (h *HostelHandler) UpdateComplaintStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	complaint, err := h.store.UpdateComplaintStatus(r.Context(), r.PathValue("id"), domain.ComplaintStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, complaint)
}

func (h *HostelHandler) DeleteComplaint(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteComplaint(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HostelHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
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
	orders, err := h.store.ListOrders(r.Context(), studentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *HostelHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	author, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req domain.NewOrder
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.store.CreateOrder(r.Context(), req, author)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *HostelHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.store.UpdateOrderStatus(r.Context(), r.PathValue("id"), domain.OrderStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *HostelHandler) WeeklyMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.store.WeeklyMenu(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

func (h *HostelHandler) UpdateWeeklyMenu(w http.ResponseWriter, r *http.Request) {
	var req domain.WeeklyMenu
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	menu, err := h.store.UpdateWeeklyMenu(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

// caller loads the authenticated user's record.
func (h *HostelHandler) caller(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return domain.User{}, false
	}
	user, err := h.store.GetUser(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err)
		return domain.User{}, false
	}
	return user, true
}
