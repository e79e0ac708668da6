package server

import (
	"object-manager/core/storage"

	"github.com/gofiber/fiber/v2"
)

// StatusClientClosedRequest is reported when the caller went away before the backend answered.
const StatusClientClosedRequest = 499

// StatusFor maps a storage error to the HTTP status returned to clients.
func StatusFor(err error) int {
	switch storage.KindOf(err) {
	case storage.KindNotFound:
		return fiber.StatusNotFound
	case storage.KindConflict:
		return fiber.StatusConflict
	case storage.KindPermissionDenied:
		return fiber.StatusForbidden
	case storage.KindInvalidInput:
		return fiber.StatusBadRequest
	case storage.KindTimeout:
		return fiber.StatusGatewayTimeout
	case storage.KindCanceled:
		return StatusClientClosedRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// SendError writes the JSON error body for err, prefixed with what the caller was doing.
func SendError(c *fiber.Ctx, prefix string, err error) error {
	return c.Status(StatusFor(err)).JSON(fiber.Map{
		"error": prefix + ": " + err.Error(),
		"kind":  storage.KindOf(err).String(),
	})
}
