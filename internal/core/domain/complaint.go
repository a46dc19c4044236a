package domain

type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "Pending"
	ComplaintInProgress ComplaintStatus = "In Progress"
	ComplaintResolved   ComplaintStatus = "Resolved"
)

func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintPending, ComplaintInProgress, ComplaintResolved:
		return true
	}
	return false
}

type ComplaintCategory string

const (
	CategoryPlumbing    ComplaintCategory = "Plumbing"
	CategoryElectricity ComplaintCategory = "Electricity"
	CategoryCleaning    ComplaintCategory = "Cleaning"
	CategoryInternet    ComplaintCategory = "Internet"
	CategoryOther       ComplaintCategory = "Other"
)

func (c ComplaintCategory) Valid() bool {
	switch c {
	case CategoryPlumbing, CategoryElectricity, CategoryCleaning, CategoryInternet, CategoryOther:
		return true
	}
	return false
}

type Complaint struct {
	ID          string            `json:"id"`
	StudentID   string            `json:"studentId"`
	StudentName string            `json:"studentName"`
	Category    ComplaintCategory `json:"category"`
	Description string            `json:"description"`
	Date        string            `json:"date"`
	Status      ComplaintStatus   `json:"status"`
}

type NewComplaint struct {
	Category    ComplaintCategory `json:"category"`
	Description string            `json:"description"`
}

func (n NewComplaint) Validate() error {
	if !n.Category.Valid() {
		return Invalid("unknown complaint category %q", n.Category)
	}
	return nil
}
