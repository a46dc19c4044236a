package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

const userColumns = `id, name, email, password, role, avatar, student_id, room_number,
	contact_number, emergency_contact, cnic, address, purpose_of_stay, is_checked_in`

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var p domain.StudentProfile
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Avatar,
		&p.StudentID, &p.RoomNumber, &p.ContactNumber, &p.EmergencyContact,
		&p.CNIC, &p.Address, &p.PurposeOfStay, &p.IsCheckedIn)
	if err != nil {
		return domain.User{}, err
	}
	if u.IsStudent() {
		u.StudentProfile = &p
	}
	return u, nil
}

func (r *SQLRepository) Login(ctx context.Context, email, password string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 AND password = $2`,
		email, password))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrAuth
	}
	return u, err
}

func (r *SQLRepository) Register(ctx context.Context, n domain.NewUser) (domain.User, error) {
	if err := n.Validate(); err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		ID:       r.newID(),
		Name:     n.Name,
		Email:    n.Email,
		Password: n.Password,
		Role:     n.Role,
		Avatar:   n.Avatar,
	}
	if u.Avatar == "" {
		u.Avatar = domain.DefaultAvatar(n.Name)
	}
	if u.IsStudent() {
		u.StudentProfile = &domain.StudentProfile{IsCheckedIn: true}
	}
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if u.IsStudent() {
			return r.admit(ctx, tx, u)
		}
		return insertUser(ctx, tx, u)
	})
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *SQLRepository) GetUser(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	return u, notFound(err, "user", id)
}

func (r *SQLRepository) UpdateAvatar(ctx context.Context, id, avatar string) (domain.User, error) {
	if strings.TrimSpace(avatar) == "" {
		return domain.User{}, domain.Invalid("avatar is required")
	}
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`UPDATE users SET avatar = $2 WHERE id = $1 RETURNING `+userColumns, id, avatar))
	return u, notFound(err, "user", id)
}

func (r *SQLRepository) ListStudents(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY seq`, string(domain.RoleStudent))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *SQLRepository) CreateStudent(ctx context.Context, n domain.NewStudent) (domain.User, error) {
	if err := n.Validate(); err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		ID:             r.newID(),
		Name:           n.Name,
		Email:          n.Email,
		Password:       domain.DefaultPassword,
		Role:           domain.RoleStudent,
		Avatar:         domain.DefaultAvatar(n.Name),
		StudentProfile: n.Profile(),
	}
	if err := r.withTx(ctx, func(tx *sql.Tx) error { return r.admit(ctx, tx, u) }); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// admit inserts a student, their opening fee and the New Student notification.
func (r *SQLRepository) admit(ctx context.Context, tx *sql.Tx, u domain.User) error {
	now := r.nowFn()
	if err := insertUser(ctx, tx, u); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO fees (id, student_id, student_name, amount, month, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		r.newID(), u.ID, u.Name, r.monthlyFee, domain.BillingMonth(now), string(domain.FeePending)); err != nil {
		return fmt.Errorf("insert fee: %w", err)
	}
	return r.notify(ctx, tx, now, domain.TitleNewStudent, u.Name+" joined the hostel.", domain.StaffRoles...)
}

func insertUser(ctx context.Context, tx *sql.Tx, u domain.User) error {
	p := domain.StudentProfile{}
	if u.StudentProfile != nil {
		p = *u.StudentProfile
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password, role, avatar, student_id, room_number,
			contact_number, emergency_contact, cnic, address, purpose_of_stay, is_checked_in, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		u.ID, u.Name, u.Email, u.Password, string(u.Role), u.Avatar, p.StudentID, p.RoomNumber,
		p.ContactNumber, p.EmergencyContact, p.CNIC, p.Address, p.PurposeOfStay, p.IsCheckedIn, time.Now())
	if isUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", u.Email, domain.ErrConflict)
	}
	return err
}

// DeleteStudent removes the student; rooms, complaints, orders, fees and
// movement logs follow through ON DELETE CASCADE.
func (r *SQLRepository) DeleteStudent(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var name string
		err := tx.QueryRowContext(ctx,
			`SELECT name FROM users WHERE id = $1 AND role = $2 FOR UPDATE`,
			id, string(domain.RoleStudent)).Scan(&name)
		if err != nil {
			return notFound(err, "student", id)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
			return err
		}
		return r.notify(ctx, tx, r.nowFn(), domain.TitleStudentRemoved, name+" was removed from the system.", domain.StaffRoles...)
	})
}
