package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

const complaintColumns = `id, student_id, student_name, category, description, date, status`

func scanComplaint(row rowScanner) (domain.Complaint, error) {
	var c domain.Complaint
	err := row.Scan(&c.ID, &c.StudentID, &c.StudentName, &c.Category, &c.Description, &c.Date, &c.Status)
	return c, err
}

func (r *SQLRepository) ListComplaints(ctx context.Context, studentID string) ([]domain.Complaint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints
		 WHERE ($1 = '' OR student_id = $1) ORDER BY seq DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Complaint, 0)
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLRepository) CreateComplaint(ctx context.Context, n domain.NewComplaint, author domain.User) (domain.Complaint, error) {
	if err := n.Validate(); err != nil {
		return domain.Complaint{}, err
	}
	now := r.nowFn()
	c := domain.Complaint{
		ID:          r.newID(),
		StudentID:   author.ID,
		StudentName: author.Name,
		Category:    n.Category,
		Description: n.Description,
		Date:        now.Format("2006-01-02"),
		Status:      domain.ComplaintPending,
	}
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO complaints (`+complaintColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			c.ID, c.StudentID, c.StudentName, string(c.Category), c.Description, c.Date, string(c.Status))
		if isForeignKeyViolation(err) {
			return domain.NotFound("user", author.ID)
		}
		if err != nil {
			return err
		}
		return r.notify(ctx, tx, now, domain.TitleNewComplaint, author.Name+": "+string(n.Category), domain.StaffRoles...)
	})
	if err != nil {
		return domain.Complaint{}, err
	}
	return c, nil
}

func (r *SQLRepository) UpdateComplaintStatus(ctx context.Context, id string, status domain.ComplaintStatus) (domain.Complaint, error) {
	if !status.Valid() {
		return domain.Complaint{}, domain.Invalid("unknown complaint status %q", status)
	}
	c, err := scanComplaint(r.db.QueryRowContext(ctx,
		`UPDATE complaints SET status = $2 WHERE id = $1 RETURNING `+complaintColumns, id, string(status)))
	return c, notFound(err, "complaint", id)
}

func (r *SQLRepository) DeleteComplaint(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res, "complaint", id)
}

const orderColumns = `id, student_id, student_name, items, date, pickup_time, status, special_instructions`

func scanOrder(row rowScanner) (domain.MealOrder, error) {
	var o domain.MealOrder
	var items []string
	err := row.Scan(&o.ID, &o.StudentID, &o.StudentName, pq.Array(&items), &o.Date, &o.PickupTime, &o.Status, &o.SpecialInstructions)
	o.Items = append([]string{}, items...)
	return o, err
}

func (r *SQLRepository) ListOrders(ctx context.Context, studentID string) ([]domain.MealOrder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM meal_orders
		 WHERE ($1 = '' OR student_id = $1) ORDER BY seq DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.MealOrder, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *SQLRepository) CreateOrder(ctx context.Context, n domain.NewOrder, author domain.User) (domain.MealOrder, error) {
	if err := n.Validate(); err != nil {
		return domain.MealOrder{}, err
	}
	o := domain.MealOrder{
		ID:                  r.newID(),
		StudentID:           author.ID,
		StudentName:         author.Name,
		Items:               append([]string{}, n.Items...),
		Date:                r.nowFn().Format("2006-01-02"),
		PickupTime:          n.PickupTime,
		Status:              domain.OrderPending,
		SpecialInstructions: n.SpecialInstructions,
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO meal_orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, o.StudentID, o.StudentName, pq.Array(o.Items), o.Date, o.PickupTime, string(o.Status), o.SpecialInstructions)
	if isForeignKeyViolation(err) {
		return domain.MealOrder{}, domain.NotFound("user", author.ID)
	}
	if err != nil {
		return domain.MealOrder{}, err
	}
	return o, nil
}

func (r *SQLRepository) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.MealOrder, error) {
	if !status.Valid() {
		return domain.MealOrder{}, domain.Invalid("unknown order status %q", status)
	}
	var out domain.MealOrder
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var current domain.OrderStatus
		err := tx.QueryRowContext(ctx, `SELECT status FROM meal_orders WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if err != nil {
			return notFound(err, "order", id)
		}
		if !current.CanAdvanceTo(status) {
			return domain.Invalid("order %s cannot move from %s to %s", id, current, status)
		}
		out, err = scanOrder(tx.QueryRowContext(ctx,
			`UPDATE meal_orders SET status = $2 WHERE id = $1 RETURNING `+orderColumns, id, string(status)))
		return err
	})
	return out, err
}
