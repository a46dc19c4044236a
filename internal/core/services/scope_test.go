package services_test

import (
	"errors"
	"testing"

	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/core/services"
)

func TestStudentFilter(t *testing.T) {
	student := domain.Principal{UserID: "s1", Role: domain.RoleStudent}
	warden := domain.Principal{UserID: "u2", Role: domain.RoleWarden}

	tests := []struct {
		name      string
		principal domain.Principal
		requested string
		want      string
		wantErr   error
	}{
		{name: "student_forced_to_self", principal: student, requested: "", want: "s1"},
		{name: "student_asking_for_self", principal: student, requested: "s1", want: "s1"},
		{name: "student_asking_for_other", principal: student, requested: "s2", wantErr: domain.ErrForbidden},
		{name: "staff_lists_all", principal: warden, requested: "", want: ""},
		{name: "staff_filters", principal: warden, requested: "s2", want: "s2"},
		{name: "unknown_role", principal: domain.Principal{UserID: "x", Role: "GUEST"}, wantErr: domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.StudentFilter(tt.principal, tt.requested)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("StudentFilter() = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestCanManageUser(t *testing.T) {
	admin := domain.Principal{UserID: "u1", Role: domain.RoleAdmin}
	kitchen := domain.Principal{UserID: "u3", Role: domain.RoleKitchen}

	if err := services.CanManageUser(admin, "anyone"); err != nil {
		t.Errorf("admin should manage anyone: %v", err)
	}
	if err := services.CanManageUser(kitchen, "u3"); err != nil {
		t.Errorf("user should manage self: %v", err)
	}
	if err := services.CanManageUser(kitchen, "u1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestCanLogMovement(t *testing.T) {
	tests := []struct {
		name    string
		p       domain.Principal
		student string
		allowed bool
	}{
		{name: "warden", p: domain.Principal{UserID: "u2", Role: domain.RoleWarden}, student: "s1", allowed: true},
		{name: "student_self", p: domain.Principal{UserID: "s1", Role: domain.RoleStudent}, student: "s1", allowed: true},
		{name: "student_other", p: domain.Principal{UserID: "s1", Role: domain.RoleStudent}, student: "s2"},
		{name: "kitchen", p: domain.Principal{UserID: "u3", Role: domain.RoleKitchen}, student: "s1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := services.CanLogMovement(tt.p, tt.student)
			if tt.allowed != (err == nil) {
				t.Errorf("CanLogMovement() = %v, allowed %v", err, tt.allowed)
			}
		})
	}
}

func TestNotificationRole(t *testing.T) {
	admin := domain.Principal{UserID: "u1", Role: domain.RoleAdmin}
	student := domain.Principal{UserID: "s1", Role: domain.RoleStudent}

	if got, _ := services.NotificationRole(student, ""); got != domain.RoleStudent {
		t.Errorf("default role = %s", got)
	}
	if got, err := services.NotificationRole(admin, "warden"); err != nil || got != domain.RoleWarden {
		t.Errorf("admin override = %s, %v", got, err)
	}
	if _, err := services.NotificationRole(student, "ADMIN"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := services.NotificationRole(admin, "GUEST"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
