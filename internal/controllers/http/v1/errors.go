package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"weather-widget/internal/models"
	"weather-widget/pkg/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string `json:"message" example:"City not found"`
}

// statusFor maps domain errors to an HTTP status and a client-facing message.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, models.ErrTokenRevoked):
		return fiber.StatusUnauthorized, "Token has been revoked. Please login again."
	case errors.Is(err, models.ErrUnauthorized):
		return fiber.StatusUnauthorized, "Not authorized, token failed"
	case errors.Is(err, models.ErrInvalidCredentials):
		return fiber.StatusBadRequest, "Invalid credentials"
	case errors.Is(err, models.ErrConflict):
		return fiber.StatusBadRequest, "User already exists"
	case errors.Is(err, models.ErrInvalidInput):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrCityNotFound):
		return fiber.StatusNotFound, "City not found"
	case errors.Is(err, models.ErrProvider):
		return fiber.StatusBadGateway, "Failed to fetch weather data"
	case errors.Is(err, models.ErrGeneration):
		return fiber.StatusBadGateway, "Failed to generate city image"
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound, "Not found"
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}

// NewErrorHandler writes every handler error as {"message": ...} and logs
// server-side failures.
func NewErrorHandler(l *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, msg := statusFor(err)

		fields := map[string]any{
			"method": c.Method(),
			"path":   c.Path(),
			"status": code,
		}
		if city, ok := c.Locals(localCity).(string); ok && city != "" {
			fields["city"] = city
		}
		if code >= fiber.StatusInternalServerError {
			l.Error(err, fields)
		} else {
			fields["err"] = err
			l.Warning("request rejected", fields)
		}

		return c.Status(code).JSON(ErrorResponse{Message: msg})
	}
}
