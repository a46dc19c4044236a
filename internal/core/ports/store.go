package ports

import (
	"context"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

type UserStore interface {
	Login(ctx context.Context, email, password string) (domain.User, error)
	Register(ctx context.Context, user domain.NewUser) (domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
	UpdateAvatar(ctx context.Context, id, avatar string) (domain.User, error)
	ListStudents(ctx context.Context) ([]domain.User, error)
	CreateStudent(ctx context.Context, student domain.NewStudent) (domain.User, error)
	DeleteStudent(ctx context.Context, id string) error
}

type RoomStore interface {
	ListRooms(ctx context.Context) ([]domain.Room, error)
	CreateRoom(ctx context.Context, room domain.NewRoom) (domain.Room, error)
	AssignStudent(ctx context.Context, roomID, studentID string) (domain.Room, error)
}

type ComplaintStore interface {
	// ListComplaints returns complaints newest first. An empty studentID
	// lists every complaint.
	ListComplaints(ctx context.Context, studentID string) ([]domain.Complaint, error)
	CreateComplaint(ctx context.Context, complaint domain.NewComplaint, author domain.User) (domain.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id string, status domain.ComplaintStatus) (domain.Complaint, error)
	DeleteComplaint(ctx context.Context, id string) error
}

type OrderStore interface {
	ListOrders(ctx context.Context, studentID string) ([]domain.MealOrder, error)
	CreateOrder(ctx context.Context, order domain.NewOrder, author domain.User) (domain.MealOrder, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.MealOrder, error)
}

type NotificationStore interface {
	ListNotifications(ctx context.Context, role domain.Role) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (domain.Notification, error)
	DeleteNotification(ctx context.Context, id string) error
}

type MovementStore interface {
	ListMovementLogs(ctx context.Context) ([]domain.MovementLog, error)
	LogMovement(ctx context.Context, studentID string, kind domain.MovementType, reason string) (domain.MovementLog, error)
	DeleteMovementLog(ctx context.Context, id string) error
}

type FeeStore interface {
	ListFees(ctx context.Context, studentID string) ([]domain.FeeRecord, error)
	SubmitFeeProof(ctx context.Context, feeID, transactionID string) (domain.FeeRecord, error)
	ApproveFee(ctx context.Context, feeID string) (domain.FeeRecord, error)
	DeleteFee(ctx context.Context, id string) error
}

type MenuStore interface {
	WeeklyMenu(ctx context.Context) (domain.WeeklyMenu, error)
	UpdateWeeklyMenu(ctx context.Context, menu domain.WeeklyMenu) (domain.WeeklyMenu, error)
}

// HostelStore is the full persistence surface used by the HTTP layer.
// Implementations are chosen once at startup.
type HostelStore interface {
	UserStore
	RoomStore
	ComplaintStore
	OrderStore
	NotificationStore
	MovementStore
	FeeStore
	MenuStore

	// Backend names the implementation for logs and metrics.
	Backend() string
	Ping(ctx context.Context) error
}
