package domain

import "time"

type FeeStatus string

const (
	FeePending   FeeStatus = "Pending"
	FeeSubmitted FeeStatus = "Submitted"
	FeePaid      FeeStatus = "Paid"
	FeeOverdue   FeeStatus = "Overdue"
)

func (s FeeStatus) Valid() bool {
	switch s {
	case FeePending, FeeSubmitted, FeePaid, FeeOverdue:
		return true
	}
	return false
}

// DefaultMonthlyFee is charged on admission when no amount is configured.
const DefaultMonthlyFee = 500

type FeeRecord struct {
	ID             string     `json:"id"`
	StudentID      string     `json:"studentId"`
	StudentName    string     `json:"studentName"`
	Amount         float64    `json:"amount"`
	Month          string     `json:"month"`
	Status         FeeStatus  `json:"status"`
	SubmissionDate *time.Time `json:"submissionDate,omitempty"`
	TransactionID  string     `json:"transactionId,omitempty"`
}

func (f FeeRecord) Clone() FeeRecord {
	cp := f
	if f.SubmissionDate != nil {
		t := *f.SubmissionDate
		cp.SubmissionDate = &t
	}
	return cp
}

// Submit records proof of payment. Only unpaid fees accept a proof.
func (f *FeeRecord) Submit(transactionID string, at time.Time) error {
	if transactionID == "" {
		return Invalid("transactionId is required")
	}
	if f.Status != FeePending && f.Status != FeeOverdue {
		return Invalid("fee %s is %s, expected %s or %s", f.ID, f.Status, FeePending, FeeOverdue)
	}
	f.Status = FeeSubmitted
	f.SubmissionDate = &at
	f.TransactionID = transactionID
	return nil
}

// Approve confirms a submitted payment.
func (f *FeeRecord) Approve() error {
	if f.Status != FeeSubmitted {
		return Invalid("fee %s is %s, expected %s", f.ID, f.Status, FeeSubmitted)
	}
	f.Status = FeePaid
	return nil
}

// BillingMonth formats t the way fee records name their month.
func BillingMonth(t time.Time) string {
	return t.Format("January 2006")
}

type FeeProof struct {
	TransactionID string `json:"transactionId"`
}
