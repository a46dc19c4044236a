package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/hostel-management/hostel-service/internal/adapters/middleware"
	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/core/ports"
)

// Observer collects HTTP and login metrics. *metrics.Metrics satisfies it.
type Observer interface {
	middleware.HTTPObserver
	AuthObserver
}

type RouterConfig struct {
	Store          ports.HostelStore
	Auth           ports.AuthService
	Registration   ports.RegistrationService
	Avatars        ports.AvatarService
	Health         *HealthHandler
	Observer       Observer
	MetricsHandler http.Handler
	Logger         *zap.Logger
	AllowedOrigins []string
}

var (
	staff        = []domain.Role{domain.RoleAdmin, domain.RoleWarden}
	adminOnly    = []domain.Role{domain.RoleAdmin}
	kitchenStaff = []domain.Role{domain.RoleAdmin, domain.RoleKitchen}
	feePayers    = []domain.Role{domain.RoleStudent, domain.RoleAdmin}
)

// NewRouter wires every route and the middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	authMW := middleware.NewAuthMiddleware(cfg.Auth, log)
	authed := authMW.Authenticated
	role := func(roles []domain.Role, h http.HandlerFunc) http.HandlerFunc {
		return authMW.RequireRole(roles, h)
	}

	authHandler := NewAuthHandler(cfg.Auth, cfg.Store, cfg.Observer)
	registrationHandler := NewRegistrationHandler(cfg.Registration)
	hostel := NewHostelHandler(cfg.Store)
	avatars := NewAvatarHandler(cfg.Avatars)

	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	if cfg.Health != nil {
		mux.HandleFunc("/health", cfg.Health.Health)
		mux.HandleFunc("/health/ready", cfg.Health.Ready)
		mux.HandleFunc("/health/live", cfg.Health.Live)
	}
	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}

	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", role(adminOnly, registrationHandler.Register))
	mux.HandleFunc("POST /api/auth/logout", authed(authHandler.Logout))
	mux.HandleFunc("PATCH /api/auth/profile/{id}", authed(authHandler.UpdateProfile))

	mux.HandleFunc("GET /api/users/{id}", authed(authHandler.GetUser))
	mux.HandleFunc("DELETE /api/users/{id}", role(staff, hostel.DeleteUser))
	mux.HandleFunc("PUT /api/users/{id}/avatar", authed(avatars.Upload))
	mux.HandleFunc("GET /api/avatars/{key...}", avatars.Serve)

	mux.HandleFunc("GET /api/students", role(staff, hostel.ListStudents))
	mux.HandleFunc("POST /api/students", role(staff, registrationHandler.Admit))

	mux.HandleFunc("GET /api/rooms", authed(hostel.ListRooms))
	mux.HandleFunc("POST /api/rooms", role(staff, hostel.CreateRoom))
	mux.HandleFunc("POST /api/rooms/assign", role(staff, hostel.AssignRoom))

	mux.HandleFunc("GET /api/complaints", authed(hostel.ListComplaints))
	mux.HandleFunc("POST /api/complaints", authed(hostel.CreateComplaint))
	mux.HandleFunc("PATCH /api/complaints/{id}/status", role(staff, hostel.UpdateComplaintStatus))
	mux.HandleFunc("DELETE /api/complaints/{id}", role(staff, hostel.DeleteComplaint))

	mux.HandleFunc("GET /api/orders", authed(hostel.ListOrders))
	mux.HandleFunc("POST /api/orders", authed(hostel.CreateOrder))
	mux.HandleFunc("PATCH /api/orders/{id}/status", role(kitchenStaff, hostel.UpdateOrderStatus))

	mux.HandleFunc("GET /api/menu", authed(hostel.WeeklyMenu))
	mux.HandleFunc("PUT /api/menu", role(kitchenStaff, hostel.UpdateWeeklyMenu))

	mux.HandleFunc("GET /api/notifications", authed(hostel.ListNotifications))
	mux.HandleFunc("PATCH /api/notifications/{id}/read", authed(hostel.MarkNotificationRead))
	mux.HandleFunc("DELETE /api/notifications/{id}", authed(hostel.DeleteNotification))

	mux.HandleFunc("GET /api/movements", role(staff, hostel.ListMovements))
	mux.HandleFunc("POST /api/movements", role([]domain.Role{domain.RoleStudent, domain.RoleAdmin, domain.RoleWarden}, hostel.LogMovement))
	mux.HandleFunc("DELETE /api/movements/{id}", role(staff, hostel.DeleteMovement))

	mux.HandleFunc("GET /api/fees", authed(hostel.ListFees))
	mux.HandleFunc("POST /api/fees/{id}/proof", role(feePayers, hostel.SubmitFeeProof))
	mux.HandleFunc("POST /api/fees/{id}/approve", role(adminOnly, hostel.ApproveFee))
	mux.HandleFunc("DELETE /api/fees/{id}", role(adminOnly, hostel.DeleteFee))

	var h http.Handler = mux
	if cfg.Observer != nil {
		h = middleware.Metrics(cfg.Observer)(h)
	}
	return middleware.Chain(h,
		middleware.RequestID(log),
		middleware.Logging(log),
		middleware.CORSMiddleware(cfg.AllowedOrigins),
	)
}
