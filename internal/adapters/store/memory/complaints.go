package memory

import (
	"context"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

func (s *Store) ListComplaints(ctx context.Context, studentID string) ([]domain.Complaint, error) {
	var out []domain.Complaint
	err := s.read(ctx, func(st *state) error {
		out = filter(st.complaints, func(c domain.Complaint) bool {
			return studentID == "" || c.StudentID == studentID
		})
		return nil
	})
	return out, err
}

func (s *Store) CreateComplaint(ctx context.Context, n domain.NewComplaint, author domain.User) (domain.Complaint, error) {
	if err := n.Validate(); err != nil {
		return domain.Complaint{}, err
	}
	var out domain.Complaint
	err := s.mutate(ctx, func(tx *txn) error {
		if tx.userIndex(author.ID) < 0 {
			return domain.NotFound("user", author.ID)
		}
		c := domain.Complaint{
			ID:          tx.newID(),
			StudentID:   author.ID,
			StudentName: author.Name,
			Category:    n.Category,
			Description: n.Description,
			Date:        tx.now.Format("2006-01-02"),
			Status:      domain.ComplaintPending,
		}
		tx.complaints = append([]domain.Complaint{c}, tx.complaints...)
		tx.notify(domain.TitleNewComplaint, author.Name+": "+string(n.Category), domain.StaffRoles...)
		out = c
		return nil
	})
	return out, err
}

func (s *Store) UpdateComplaintStatus(ctx context.Context, id string, status domain.ComplaintStatus) (domain.Complaint, error) {
	if !status.Valid() {
		return domain.Complaint{}, domain.Invalid("unknown complaint status %q", status)
	}
	var out domain.Complaint
	err := s.mutate(ctx, func(tx *txn) error {
		i := tx.complaintIndex(id)
		if i < 0 {
			return domain.NotFound("complaint", id)
		}
		tx.complaints[i].Status = status
		out = tx.complaints[i]
		return nil
	})
	return out, err
}

func (s *Store) DeleteComplaint(ctx context.Context, id string) error {
	return s.mutate(ctx, func(tx *txn) error {
		i := tx.complaintIndex(id)
		if i < 0 {
			return domain.NotFound("complaint", id)
		}
		tx.complaints = removeAt(tx.complaints, i)
		return nil
	})
}
