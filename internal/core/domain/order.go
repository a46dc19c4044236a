package domain

import "strings"

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderPreparing OrderStatus = "Preparing"
	OrderReady     OrderStatus = "Ready"
	OrderCollected OrderStatus = "Collected"
)

// rank orders the statuses along the kitchen workflow; 0 means unknown.
func (s OrderStatus) rank() int {
	switch s {
	case OrderPending:
		return 1
	case OrderPreparing:
		return 2
	case OrderReady:
		return 3
	case OrderCollected:
		return 4
	}
	return 0
}

func (s OrderStatus) Valid() bool {
	return s.rank() > 0
}

// CanAdvanceTo reports whether an order may move from s to next. Orders move
// one step forward at a time.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	return s.Valid() && next.rank() == s.rank()+1
}

type MealOrder struct {
	ID                  string      `json:"id"`
	StudentID           string      `json:"studentId"`
	StudentName         string      `json:"studentName"`
	Items               []string    `json:"items"`
	Date                string      `json:"date"`
	PickupTime          string      `json:"pickupTime"`
	Status              OrderStatus `json:"status"`
	SpecialInstructions string      `json:"specialInstructions,omitempty"`
}

func (o MealOrder) Clone() MealOrder {
	cp := o
	cp.Items = append([]string{}, o.Items...)
	return cp
}

// NewOrder is a pre-order placed by a student.
type NewOrder struct {
	Items               []string `json:"items"`
	PickupTime          string   `json:"pickupTime"`
	SpecialInstructions string   `json:"specialInstructions,omitempty"`
}

func (n NewOrder) Validate() error {
	if len(n.Items) == 0 {
		return Invalid("order must contain at least one item")
	}
	for _, it := range n.Items {
		if strings.TrimSpace(it) == "" {
			return Invalid("order items must not be blank")
		}
	}
	if strings.TrimSpace(n.PickupTime) == "" {
		return Invalid("pickupTime is required")
	}
	return nil
}
