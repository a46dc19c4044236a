package domain

import (
	"fmt"
	"net/url"
	"strings"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleWarden  Role = "WARDEN"
	RoleKitchen Role = "KITCHEN"
	RoleStudent Role = "STUDENT"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleWarden, RoleKitchen, RoleStudent}

// StaffRoles are the roles that receive operational notifications.
var StaffRoles = []Role{RoleAdmin, RoleWarden}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWarden, RoleKitchen, RoleStudent:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
	return r, nil
}

// DefaultPassword is assigned to students created by staff.
const DefaultPassword = "password123"

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     Role   `json:"role"`
	Avatar   string `json:"avatar,omitempty"`

	*StudentProfile
}

// StudentProfile holds the fields only students carry. Its fields are
// flattened into the user's JSON form.
type StudentProfile struct {
	StudentID        string `json:"studentId"`
	RoomNumber       string `json:"roomNumber,omitempty"`
	ContactNumber    string `json:"contactNumber"`
	EmergencyContact string `json:"emergencyContact"`
	CNIC             string `json:"cnic"`
	Address          string `json:"address"`
	PurposeOfStay    string `json:"purposeOfStay"`
	IsCheckedIn      bool   `json:"isCheckedIn"`
}

func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

// Clone returns a copy that shares no pointers with u.
func (u User) Clone() User {
	cp := u
	if u.StudentProfile != nil {
		p := *u.StudentProfile
		cp.StudentProfile = &p
	}
	return cp
}

// NewUser is the input for registering an account of any role.
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}

func (n NewUser) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(n.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if n.Password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	if !n.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, n.Role)
	}
	return nil
}

// NewStudent is the admission form submitted by staff. Rooms are given out
// through AssignStudent only.
type NewStudent struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	StudentID        string `json:"studentId"`
	ContactNumber    string `json:"contactNumber"`
	EmergencyContact string `json:"emergencyContact"`
	CNIC             string `json:"cnic"`
	Address          string `json:"address"`
	PurposeOfStay    string `json:"purposeOfStay"`
}

func (n NewStudent) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(n.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	return nil
}

// Profile builds the student profile for a newly admitted student.
func (n NewStudent) Profile() *StudentProfile {
	return &StudentProfile{
		StudentID:        n.StudentID,
		ContactNumber:    n.ContactNumber,
		EmergencyContact: n.EmergencyContact,
		CNIC:             n.CNIC,
		Address:          n.Address,
		PurposeOfStay:    n.PurposeOfStay,
		IsCheckedIn:      true,
	}
}

// DefaultAvatar returns a generated initials avatar for name.
func DefaultAvatar(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}
