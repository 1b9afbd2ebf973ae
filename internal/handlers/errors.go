package handlers

import (
	"errors"

	"estoquehub/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const internalErrorMessage = "internal server error"

// statusFor is the single mapping from service error kind to HTTP status.
func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation, services.KindConflict, services.KindCredentials:
		return fiber.StatusBadRequest
	case services.KindAuth:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError responds with {"message": ...} on canonical routes.
func writeError(c *fiber.Ctx, err error) error {
	return writeErrorAs(c, "message", err)
}

// writeLegacyError responds with {"error": ...} on legacy routes.
func writeLegacyError(c *fiber.Ctx, err error) error {
	return writeErrorAs(c, "error", err)
}

func writeErrorAs(c *fiber.Ctx, key string, err error) error {
	status := statusFor(services.KindOf(err))
	message := internalErrorMessage

	// Message never includes the wrapped cause.
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}

	if status >= fiber.StatusInternalServerError {
		zap.S().Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{key: message})
}

// ErrorHandler is the fiber-level fallback for errors returned by handlers
// and middleware, including recovered panics.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}
	return writeError(c, err)
}

// parseBody decodes a JSON body into dst regardless of Content-Type.
// An empty body leaves dst untouched so schema validation reports the missing fields.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(body, dst); err != nil {
		zap.S().Debugf("Error parsing request body: %v", err)
		return services.NewValidationError("invalid request body")
	}
	return nil
}
