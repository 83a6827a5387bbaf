package order

import "errors"

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrEmptyOrder          = errors.New("order has no line items")
	ErrInvalidQuantity     = errors.New("line item quantity must be greater than zero")
	ErrInsufficientStock   = errors.New("insufficient stock for requested quantity")
	ErrForeignProduce      = errors.New("produce unit does not belong to this producer")
	ErrInvalidStatusChange = errors.New("invalid order status change")
	ErrAlreadyPaid         = errors.New("order is already paid")
)
