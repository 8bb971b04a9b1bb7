package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"weather-widget/internal/models"
	"weather-widget/internal/services/auth"
)

// AuthResponse is returned by register and login
type AuthResponse struct {
	ID       string `json:"_id" example:"5b0b6b8e-8f9a-4c57-9d57-2a3c6f9e2f10"`
	Username string `json:"username" example:"ayse"`
	Email    string `json:"email" example:"ayse@example.org"`
	City     string `json:"city" example:"Ankara"`
	Token    string `json:"token"`
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	Message string `json:"message" example:"Logged out successfully"`
}

func newAuthResponse(s *auth.Session) AuthResponse {
	return AuthResponse{
		ID:       s.User.ID,
		Username: s.User.Username,
		Email:    s.User.Email,
		City:     s.User.City,
		Token:    s.Token,
	}
}

func bodyError(err error) error {
	return errors.Wrapf(models.ErrInvalidInput, "invalid request body: %v", err)
}

// Register godoc
// @Summary Register a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body auth.RegisterInput true "New user"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} ErrorResponse "Missing fields or user already exists"
// @Router /api/auth/register [post]
func (r *routes) handleRegister(c *fiber.Ctx) error {
	var in auth.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return bodyError(err)
	}

	session, err := r.auth.Register(c.UserContext(), in)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(newAuthResponse(session))
}

// Login godoc
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body auth.LoginInput true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ErrorResponse "Invalid credentials"
// @Router /api/auth/login [post]
func (r *routes) handleLogin(c *fiber.Ctx) error {
	var in auth.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return bodyError(err)
	}

	session, err := r.auth.Login(c.UserContext(), in)
	if err != nil {
		return err
	}

	return c.JSON(newAuthResponse(session))
}

// Logout godoc
// @Summary Revoke the current bearer token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/logout [post]
func (r *routes) handleLogout(c *fiber.Ctx) error {
	token, _ := c.Locals(localToken).(string)

	if err := r.auth.Logout(c.UserContext(), token); err != nil {
		return err
	}

	r.l.Info("user logged out", map[string]any{"username": currentUser(c).Username})

	return c.JSON(MessageResponse{Message: "Logged out successfully"})
}
