package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"weather-widget/internal/models"
	"weather-widget/pkg/logger"
)

const (
	localUser  = "user"
	localToken = "token"
	localCity  = "city"
)

// requireAuth resolves the bearer token to a user and stores both in locals.
func (r *routes) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authorized, no token")
	}

	user, err := r.auth.Authenticate(c.UserContext(), token)
	if err != nil {
		return err
	}

	c.Locals(localUser, user)
	c.Locals(localToken, token)
	return c.Next()
}

func currentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(localUser).(*models.User)
	return u
}

// requestLogger logs each request at debug level.
func requestLogger(l *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		fields := map[string]any{
			"method":   c.Method(),
			"path":     c.Path(),
			"duration": time.Since(start).String(),
		}
		if err != nil {
			fields["err"] = err
		} else {
			fields["status"] = c.Response().StatusCode()
		}
		l.Debug("request", fields)
		return err
	}
}
