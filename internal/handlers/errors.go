package handlers

import (
	"errors"

	"dailyreport/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps domain errors onto HTTP statuses. Anything outside
// the taxonomy is an internal failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput),
		errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrInvalidCode),
		errors.Is(err, apperrors.ErrCodeExpired):
		return fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the structured error response for err. Internal
// failures get a generic message so store details never leak to callers.
func respondError(c *fiber.Ctx, err error, message string) error {
	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
