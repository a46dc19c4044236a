package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

const notificationColumns = `id, title, message, timestamp, is_read, target_roles`

func scanNotification(row rowScanner) (domain.Notification, error) {
	var n domain.Notification
	var roles []string
	if err := row.Scan(&n.ID, &n.Title, &n.Message, &n.Timestamp, &n.IsRead, pq.Array(&roles)); err != nil {
		return domain.Notification{}, err
	}
	n.TargetRole = make([]domain.Role, len(roles))
	for i, r := range roles {
		n.TargetRole[i] = domain.Role(r)
	}
	return n, nil
}

func (r *SQLRepository) ListNotifications(ctx context.Context, role domain.Role) ([]domain.Notification, error) {
	if !role.Valid() {
		return nil, domain.Invalid("unknown role %q", role)
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE $1 = ANY(target_roles) ORDER BY seq DESC`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *SQLRepository) MarkNotificationRead(ctx context.Context, id string) (domain.Notification, error) {
	n, err := scanNotification(r.db.QueryRowContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 RETURNING `+notificationColumns, id))
	return n, notFound(err, "notification", id)
}

func (r *SQLRepository) DeleteNotification(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res, "notification", id)
}

func (r *SQLRepository) ListMovementLogs(ctx context.Context) ([]domain.MovementLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, student_id, student_name, type, reason, timestamp FROM movement_logs
		 ORDER BY timestamp DESC, seq DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.MovementLog, 0)
	for rows.Next() {
		var m domain.MovementLog
		if err := rows.Scan(&m.ID, &m.StudentID, &m.StudentName, &m.Type, &m.Reason, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *SQLRepository) LogMovement(ctx context.Context, studentID string, kind domain.MovementType, reason string) (domain.MovementLog, error) {
	if !kind.Valid() {
		return domain.MovementLog{}, domain.Invalid("unknown movement type %q", kind)
	}
	var out domain.MovementLog
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var name string
		err := tx.QueryRowContext(ctx,
			`UPDATE users SET is_checked_in = $3 WHERE id = $1 AND role = $2 RETURNING name`,
			studentID, string(domain.RoleStudent), kind == domain.CheckIn).Scan(&name)
		if err != nil {
			return notFound(err, "student", studentID)
		}

		now := r.nowFn()
		out = domain.MovementLog{
			ID:          r.newID(),
			StudentID:   studentID,
			StudentName: name,
			Type:        kind,
			Reason:      reason,
			Timestamp:   now,
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO movement_logs (id, student_id, student_name, type, reason, timestamp)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			out.ID, out.StudentID, out.StudentName, string(out.Type), out.Reason, out.Timestamp); err != nil {
			return err
		}

		shown := reason
		if shown == "" {
			shown = "No reason provided"
		}
		return r.notify(ctx, tx, now, kind.Title(), name+": "+shown, domain.StaffRoles...)
	})
	return out, err
}

func (r *SQLRepository) DeleteMovementLog(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movement_logs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res, "movement log", id)
}

const feeColumns = `id, student_id, student_name, amount, month, status, submission_date, transaction_id`

func scanFee(row rowScanner) (domain.FeeRecord, error) {
	var f domain.FeeRecord
	var submitted sql.NullTime
	if err := row.Scan(&f.ID, &f.StudentID, &f.StudentName, &f.Amount, &f.Month, &f.Status, &submitted, &f.TransactionID); err != nil {
		return domain.FeeRecord{}, err
	}
	if submitted.Valid {
		t := submitted.Time
		f.SubmissionDate = &t
	}
	return f, nil
}

func (r *SQLRepository) ListFees(ctx context.Context, studentID string) ([]domain.FeeRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+feeColumns+` FROM fees WHERE ($1 = '' OR student_id = $1) ORDER BY seq DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.FeeRecord, 0)
	for rows.Next() {
		f, err := scanFee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *SQLRepository) SubmitFeeProof(ctx context.Context, feeID, transactionID string) (domain.FeeRecord, error) {
	var out domain.FeeRecord
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		fee, err := scanFee(tx.QueryRowContext(ctx, `SELECT `+feeColumns+` FROM fees WHERE id = $1 FOR UPDATE`, feeID))
		if err != nil {
			return notFound(err, "fee", feeID)
		}
		now := r.nowFn()
		if err := fee.Submit(transactionID, now); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE fees SET status = $2, submission_date = $3, transaction_id = $4 WHERE id = $1`,
			fee.ID, string(fee.Status), fee.SubmissionDate, fee.TransactionID); err != nil {
			return err
		}
		out = fee
		return r.notify(ctx, tx, now, domain.TitleFeePaid,
			fee.StudentName+" paid fee. Ref: "+transactionID, domain.RoleAdmin)
	})
	return out, err
}

func (r *SQLRepository) ApproveFee(ctx context.Context, feeID string) (domain.FeeRecord, error) {
	var out domain.FeeRecord
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		fee, err := scanFee(tx.QueryRowContext(ctx, `SELECT `+feeColumns+` FROM fees WHERE id = $1 FOR UPDATE`, feeID))
		if err != nil {
			return notFound(err, "fee", feeID)
		}
		if err := fee.Approve(); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE fees SET status = $2 WHERE id = $1`, fee.ID, string(fee.Status)); err != nil {
			return err
		}
		out = fee
		return nil
	})
	return out, err
}

func (r *SQLRepository) DeleteFee(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res, "fee", id)
}

func (r *SQLRepository) WeeklyMenu(ctx context.Context) (domain.WeeklyMenu, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM weekly_menu WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultWeeklyMenu(), nil
	}
	if err != nil {
		return domain.WeeklyMenu{}, err
	}
	var menu domain.WeeklyMenu
	if err := json.Unmarshal(payload, &menu); err != nil {
		return domain.WeeklyMenu{}, err
	}
	return menu, nil
}

func (r *SQLRepository) UpdateWeeklyMenu(ctx context.Context, menu domain.WeeklyMenu) (domain.WeeklyMenu, error) {
	payload, err := json.Marshal(menu)
	if err != nil {
		return domain.WeeklyMenu{}, err
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO weekly_menu (id, payload) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET payload = excluded.payload`, payload); err != nil {
		return domain.WeeklyMenu{}, err
	}
	return menu, nil
}
