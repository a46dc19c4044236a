package memory

import (
	"context"
	"fmt"

	"github.com/hostel-management/hostel-service/internal/core/domain"
)

func (s *Store) ListFees(ctx context.Context, studentID string) ([]domain.FeeRecord, error) {
	var out []domain.FeeRecord
	err := s.read(ctx, func(st *state) error {
		out = make([]domain.FeeRecord, 0, len(st.fees))
		for _, f := range st.fees {
			if studentID == "" || f.StudentID == studentID {
				out = append(out, f.Clone())
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) SubmitFeeProof(ctx context.Context, feeID, transactionID string) (domain.FeeRecord, error) {
	var out domain.FeeRecord
	err := s.mutate(ctx, func(tx *txn) error {
		i := tx.feeIndex(feeID)
		if i < 0 {
			return domain.NotFound("fee", feeID)
		}
		fee := tx.fees[i].Clone()
		if err := fee.Submit(transactionID, tx.now); err != nil {
			return err
		}
		tx.fees[i] = fee
		tx.notify(domain.TitleFeePaid,
			fmt.Sprintf("%s paid fee. Ref: %s", fee.StudentName, transactionID),
			domain.RoleAdmin)
		out = fee.Clone()
		return nil
	})
	return out, err
}

func (s *Store) ApproveFee(ctx context.Context, feeID string) (domain.FeeRecord, error) {
	var out domain.FeeRecord
	err := s.mutate(ctx, func(tx *txn) error {
		i := tx.feeIndex(feeID)
		if i < 0 {
			return domain.NotFound("fee", feeID)
		}
		if err := tx.fees[i].Approve(); err != nil {
			return err
		}
		out = tx.fees[i].Clone()
		return nil
	})
	return out, err
}

func (s *Store) DeleteFee(ctx context.Context, id string) error {
	return s.mutate(ctx, func(tx *txn) error {
		i := tx.feeIndex(id)
		if i < 0 {
			return domain.NotFound("fee", id)
		}
		tx.fees = removeAt(tx.fees, i)
		return nil
	})
}
