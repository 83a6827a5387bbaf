package order

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// statusTransitions for the fulfillment collaborator. Cancellation is only
// possible before shipping.
var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type LineItem struct {
	ID        string
	OrderID   string
	ProduceID string
	Quantity  float64
	UnitPrice float64
	Subtotal  float64
}

type Order struct {
	ID            string
	CustomerID    string
	ProducerID    string
	Items         []LineItem
	Total         float64
	Status        Status
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewLineItem is a requested purchase line before pricing.
type NewLineItem struct {
	ProduceID string
	Quantity  float64
}
