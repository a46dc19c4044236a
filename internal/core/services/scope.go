package services

import (
	"fmt"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

// StudentFilter returns the student id a list query should be restricted
// to. Students only ever see their own records; staff see everything or
// the student they asked for.
func StudentFilter(p domain.Principal, requested string) (string, error) {
	switch p.Role {
	case domain.RoleStudent:
		if requested != "" && requested != p.UserID {
			return "", fmt.Errorf("%w: students may only view their own records", domain.ErrForbidden)
		}
		return p.UserID, nil
	case domain.RoleAdmin, domain.RoleWarden, domain.RoleKitchen:
		return requested, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, p.Role)
	}
}

// CanManageUser reports whether p may change the account userID: its owner
// or an admin.
func CanManageUser(p domain.Principal, userID string) error {
	switch p.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleWarden, domain.RoleKitchen, domain.RoleStudent:
		if p.UserID == userID {
			return nil
		}
		return fmt.Errorf("%w: cannot modify another user", domain.ErrForbidden)
	default:
		return fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, p.Role)
	}
}

// CanViewUser allows staff to read any account and everyone else their own.
func CanViewUser(p domain.Principal, userID string) error {
	switch p.Role {
	case domain.RoleAdmin, domain.RoleWarden:
		return nil
	case domain.RoleKitchen, domain.RoleStudent:
		if p.UserID == userID {
			return nil
		}
		return fmt.Errorf("%w: cannot view another user", domain.ErrForbidden)
	default:
		return fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, p.Role)
	}
}

// CanLogMovement lets wardens and admins log anyone and students log
// themselves.
func CanLogMovement(p domain.Principal, studentID string) error {
	switch p.Role {
	case domain.RoleAdmin, domain.RoleWarden:
		return nil
	case domain.RoleStudent:
		if p.UserID == studentID {
			return nil
		}
		return fmt.Errorf("%w: students may only log their own movements", domain.ErrForbidden)
	case domain.RoleKitchen:
		return fmt.Errorf("%w: kitchen staff cannot log movements", domain.ErrForbidden)
	default:
		return fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, p.Role)
	}
}

// NotificationRole picks the role whose notifications are listed. Admins may
// look at another role's feed.
func NotificationRole(p domain.Principal, requested string) (domain.Role, error) {
	if requested == "" {
		return p.Role, nil
	}
	role, err := domain.ParseRole(requested)
	if err != nil {
		return "", err
	}
	switch p.Role {
	case domain.RoleAdmin:
		return role, nil
	case domain.RoleWarden, domain.RoleKitchen, domain.RoleStudent:
		if role != p.Role {
			return "", fmt.Errorf("%w: cannot read %s notifications", domain.ErrForbidden, role)
		}
		return role, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, p.Role)
	}
}
