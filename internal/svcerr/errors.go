package svcerr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrInvalidWager      = errors.New("invalid wager")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrWrongState        = errors.New("wrong state")
	ErrCooldown          = errors.New("action not available yet")
)

// HTTPStatus maps a service error to the status class it should surface as.
// Unknown errors are internal.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidWager), errors.Is(err, ErrWrongState):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrInsufficientFunds):
		return fiber.StatusPaymentRequired
	case errors.Is(err, ErrCooldown):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Reply writes the standard error payload for err.
func Reply(c *fiber.Ctx, err error) error {
	status := HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": "internal error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
