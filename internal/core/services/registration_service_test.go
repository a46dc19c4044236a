package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/core/services"
)

func TestRegistrationService_Register(t *testing.T) {
	store := newSeededStore()
	svc := services.NewRegistrationService(store, nil)
	ctx := context.Background()

	cook, err := svc.Register(ctx, domain.NewUser{Name: "Second Cook", Email: "cook2@hostel.com", Password: "pw", Role: domain.RoleKitchen})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if cook.Role != domain.RoleKitchen || cook.Avatar == "" {
		t.Errorf("unexpected user %+v", cook)
	}

	// Students without a password get the default one.
	if _, err := svc.Register(ctx, domain.NewUser{Name: "Sam", Email: "sam@hostel.com", Role: domain.RoleStudent}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Login(ctx, "sam@hostel.com", domain.DefaultPassword); err != nil {
		t.Errorf("student should log in with the default password: %v", err)
	}

	if _, err := svc.Register(ctx, domain.NewUser{Name: "X", Email: "x@hostel.com", Password: "pw", Role: "GUEST"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Register(ctx, domain.NewUser{Name: "Dup", Email: "ADMIN@hostel.com", Password: "pw", Role: domain.RoleAdmin}); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestRegistrationService_AdmitStudent(t *testing.T) {
	store := newSeededStore()
	svc := services.NewRegistrationService(store, nil)
	ctx := context.Background()

	student, err := svc.AdmitStudent(ctx, domain.NewStudent{Name: "Ali", Email: "ali@hostel.com", StudentID: "ST-1"})
	if err != nil {
		t.Fatalf("AdmitStudent() error = %v", err)
	}
	if !student.IsStudent() || !student.IsCheckedIn {
		t.Errorf("unexpected student %+v", student)
	}
	fees, _ := store.ListFees(ctx, student.ID)
	if len(fees) != 1 {
		t.Errorf("expected one fee, got %d", len(fees))
	}
}
