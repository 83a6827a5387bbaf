package produce

import "errors"

var (
	ErrUnitNotFound      = errors.New("produce unit not found")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrUnknownCategory   = errors.New("unknown produce category")
	ErrUnknownStatus     = errors.New("unknown produce status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotOwner          = errors.New("caller does not own this produce unit")
)
