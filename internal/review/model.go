package review

import "time"

// Review is a customer's rating of a producer after a purchase.
type Review struct {
	ID           string
	ProducerID   string
	CustomerID   string
	CustomerName string
	Rating       int
	Comment      string
	CreatedAt    time.Time
}
