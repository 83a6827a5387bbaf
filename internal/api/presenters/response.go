package presenters

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"agrocycle-be/internal/db"
	"agrocycle-be/internal/export"
	"agrocycle-be/internal/impact"
	"agrocycle-be/internal/lifecycle"
	"agrocycle-be/internal/order"
	"agrocycle-be/internal/produce"
	"agrocycle-be/internal/review"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data interface{}, status int, message string) error {
	return c.Status(status).JSON(Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	resp := Response{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.Status(status).JSON(resp)
}

// DomainErrorResponse maps well-known domain errors to HTTP status codes
// and renders the error envelope. Unknown errors become a 500.
func DomainErrorResponse(c *fiber.Ctx, message string, err error) error {
	return ErrorResponse(c, statusFor(err), message, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, produce.ErrUnitNotFound),
		errors.Is(err, export.ErrExportNotFound),
		errors.Is(err, impact.ErrProfileNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		return fiber.StatusNotFound

	case errors.Is(err, produce.ErrNotOwner),
		errors.Is(err, lifecycle.ErrNotOwner),
		errors.Is(err, order.ErrForeignProduce):
		return fiber.StatusForbidden

	case errors.Is(err, produce.ErrInvalidTransition),
		errors.Is(err, export.ErrInvalidAdvance),
		errors.Is(err, export.ErrAlreadyProcessed),
		errors.Is(err, export.ErrAlreadyConverted),
		errors.Is(err, order.ErrInsufficientStock),
		errors.Is(err, order.ErrInvalidStatusChange):
		return fiber.StatusConflict

	case errors.Is(err, produce.ErrInvalidQuantity),
		errors.Is(err, produce.ErrUnknownCategory),
		errors.Is(err, produce.ErrUnknownStatus),
		errors.Is(err, export.ErrInvalidWeight),
		errors.Is(err, export.ErrUnitNotWaste),
		errors.Is(err, export.ErrUnknownCategory),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, review.ErrInvalidRating),
		errors.Is(err, review.ErrEmptyComment):
		return fiber.StatusUnprocessableEntity

	case errors.Is(err, db.ErrBackendUnavailable):
		return fiber.StatusServiceUnavailable

	default:
		return fiber.StatusInternalServerError
	}
}
