package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Login checks the credentials against the remote instance. The remote token
// is discarded; the caller issues its own.
func (c *Client) Login(ctx context.Context, email, password string) (domain.User, error) {
	var out loginResponse
	err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", nil,
		map[string]string{"email": email, "password": password}, &out)
	return out.User, err
}

func (c *Client) Register(ctx context.Context, n domain.NewUser) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, "register", http.MethodPost, "/api/auth/register", nil, n, &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, id string) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, "get_user", http.MethodGet, pathID("/api/users/", id, ""), nil, nil, &out)
	return out, err
}

func (c *Client) UpdateAvatar(ctx context.Context, id, avatar string) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, "update_avatar", http.MethodPatch, pathID("/api/auth/profile/", id, ""), nil,
		map[string]string{"avatar": avatar}, &out)
	return out, err
}

func (c *Client) ListStudents(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	err := c.do(ctx, "list_students", http.MethodGet, "/api/students", nil, nil, &out)
	return out, err
}

func (c *Client) CreateStudent(ctx context.Context, n domain.NewStudent) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, "create_student", http.MethodPost, "/api/students", nil, n, &out)
	return out, err
}

func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	return c.do(ctx, "delete_student", http.MethodDelete, pathID("/api/users/", id, ""), nil, nil, nil)
}

func (c *Client) ListRooms(ctx context.Context) ([]domain.Room, error) {
	out := []domain.Room{}
	err := c.do(ctx, "list_rooms", http.MethodGet, "/api/rooms", nil, nil, &out)
	return out, err
}

func (c *Client) CreateRoom(ctx context.Context, n domain.NewRoom) (domain.Room, error) {
	var out domain.Room
	err := c.do(ctx, "create_room", http.MethodPost, "/api/rooms", nil, n, &out)
	return out, err
}

func (c *Client) AssignStudent(ctx context.Context, roomID, studentID string) (domain.Room, error) {
	var out domain.Room
	err := c.do(ctx, "assign_student", http.MethodPost, "/api/rooms/assign", nil,
		domain.AssignRequest{RoomID: roomID, StudentID: studentID}, &out)
	return out, err
}

func (c *Client) ListComplaints(ctx context.Context, studentID string) ([]domain.Complaint, error) {
	out := []domain.Complaint{}
	err := c.do(ctx, "list_complaints", http.MethodGet, "/api/complaints", studentQuery(studentID), nil, &out)
	return out, err
}

// CreateComplaint files the complaint as the caller whose token is forwarded;
// the remote instance resolves the author itself.
func (c *Client) CreateComplaint(ctx context.Context, n domain.NewComplaint, _ domain.User) (domain.Complaint, error) {
	var out domain.Complaint
	err := c.do(ctx, "create_complaint", http.MethodPost, "/api/complaints", nil, n, &out)
	return out, err
}

func (c *Client) UpdateComplaintStatus(ctx context.Context, id string, status domain.ComplaintStatus) (domain.Complaint, error) {
	var out domain.Complaint
	err := c.do(ctx, "update_complaint_status", http.MethodPatch, pathID("/api/complaints/", id, "/status"), nil,
		map[string]string{"status": string(status)}, &out)
	return out, err
}

func (c *Client) DeleteComplaint(ctx context.Context, id string) error {
	return c.do(ctx, "delete_complaint", http.MethodDelete, pathID("/api/complaints/", id, ""), nil, nil, nil)
}

func (c *Client) ListOrders(ctx context.Context, studentID string) ([]domain.MealOrder, error) {
	out := []domain.MealOrder{}
	err := c.do(ctx, "list_orders", http.MethodGet, "/api/orders", studentQuery(studentID), nil, &out)
	return out, err
}

func (c *Client) CreateOrder(ctx context.Context, n domain.NewOrder, _ domain.User) (domain.MealOrder, error) {
	var out domain.MealOrder
	err := c.do(ctx, "create_order", http.MethodPost, "/api/orders", nil, n, &out)
	return out, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.MealOrder, error) {
	var out domain.MealOrder
	err := c.do(ctx, "update_order_status", http.MethodPatch, pathID("/api/orders/", id, "/status"), nil,
		map[string]string{"status": string(status)}, &out)
	return out, err
}

func (c *Client) ListNotifications(ctx context.Context, role domain.Role) ([]domain.Notification, error) {
	out := []domain.Notification{}
	err := c.do(ctx, "list_notifications", http.MethodGet, "/api/notifications",
		url.Values{"role": {string(role)}}, nil, &out)
	return out, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) (domain.Notification, error) {
	var out domain.Notification
	err := c.do(ctx, "mark_notification_read", http.MethodPatch, pathID("/api/notifications/", id, "/read"), nil, nil, &out)
	return out, err
}

func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.do(ctx, "delete_notification", http.MethodDelete, pathID("/api/notifications/", id, ""), nil, nil, nil)
}

func (c *Client) ListMovementLogs(ctx context.Context) ([]domain.MovementLog, error) {
	out := []domain.MovementLog{}
	err := c.do(ctx, "list_movements", http.MethodGet, "/api/movements", nil, nil, &out)
	return out, err
}

func (c *Client) LogMovement(ctx context.Context, studentID string, kind domain.MovementType, reason string) (domain.MovementLog, error) {
	var out domain.MovementLog
	err := c.do(ctx, "log_movement", http.MethodPost, "/api/movements", nil,
		domain.NewMovement{StudentID: studentID, Type: kind, Reason: reason}, &out)
	return out, err
}

func (c *Client) DeleteMovementLog(ctx context.Context, id string) error {
	return c.do(ctx, "delete_movement", http.MethodDelete, pathID("/api/movements/", id, ""), nil, nil, nil)
}

func (c *Client) ListFees(ctx context.Context, studentID string) ([]domain.FeeRecord, error) {
	out := []domain.FeeRecord{}
	err := c.do(ctx, "list_fees", http.MethodGet, "/api/fees", studentQuery(studentID), nil, &out)
	return out, err
}

func (c *Client) SubmitFeeProof(ctx context.Context, feeID, transactionID string) (domain.FeeRecord, error) {
	var out domain.FeeRecord
	err := c.do(ctx, "submit_fee_proof", http.MethodPost, pathID("/api/fees/", feeID, "/proof"), nil,
		domain.FeeProof{TransactionID: transactionID}, &out)
	return out, err
}

func (c *Client) ApproveFee(ctx context.Context, feeID string) (domain.FeeRecord, error) {
	var out domain.FeeRecord
	err := c.do(ctx, "approve_fee", http.MethodPost, pathID("/api/fees/", feeID, "/approve"), nil, nil, &out)
	return out, err
}

func (c *Client) DeleteFee(ctx context.Context, id string) error {
	return c.do(ctx, "delete_fee", http.MethodDelete, pathID("/api/fees/", id, ""), nil, nil, nil)
}

func (c *Client) WeeklyMenu(ctx context.Context) (domain.WeeklyMenu, error) {
	var out domain.WeeklyMenu
	err := c.do(ctx, "weekly_menu", http.MethodGet, "/api/menu", nil, nil, &out)
	return out, err
}

func (c *Client) UpdateWeeklyMenu(ctx context.Context, menu domain.WeeklyMenu) (domain.WeeklyMenu, error) {
	var out domain.WeeklyMenu
	err := c.do(ctx, "update_weekly_menu", http.MethodPut, "/api/menu", nil, menu, &out)
	return out, err
}
