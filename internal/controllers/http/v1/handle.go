package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"weather-widget/internal/models"
)

// UpdateCityRequest is the body of PUT /api/users/city
type UpdateCityRequest struct {
	City string `json:"city" example:"İzmir"`
}

// UpdateCityResponse confirms the new city
type UpdateCityResponse struct {
	ID       string `json:"_id"`
	Username string `json:"username" example:"ayse"`
	City     string `json:"city" example:"İzmir"`
	Message  string `json:"message" example:"City updated to İzmir"`
}

// GetMe godoc
// @Summary Current user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Router /api/users/me [get]
func (r *routes) handleMe(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

// UpdateCity godoc
// @Summary Change the user's city
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateCityRequest true "New city"
// @Success 200 {object} UpdateCityResponse
// @Failure 400 {object} ErrorResponse "City is required"
// @Router /api/users/city [put]
func (r *routes) handleUpdateCity(c *fiber.Ctx) error {
	var req UpdateCityRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(err)
	}
	if strings.TrimSpace(req.City) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "City is required")
	}

	user, err := r.auth.UpdateCity(c.UserContext(), currentUser(c).ID, req.City)
	if err != nil {
		return err
	}

	return c.JSON(UpdateCityResponse{
		ID:       user.ID,
		Username: user.Username,
		City:     user.City,
		Message:  "City updated to " + user.City,
	})
}

// GetWidgetImage godoc
// @Summary Widget payload for the user's city
// @Description Fresh weather plus the permanent generated cityscape. The image is generated on the first request for a city and reused afterwards.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.WidgetData
// @Failure 400 {object} ErrorResponse "User has no city"
// @Failure 404 {object} ErrorResponse "City not found"
// @Failure 502 {object} ErrorResponse "Weather or image provider failed"
// @Router /api/users/widget-image [get]
func (r *routes) handleWidgetImage(c *fiber.Ctx) error {
	user := currentUser(c)
	c.Locals(localCity, user.City)

	data, err := r.widget.GetWidgetData(c.UserContext(), user)
	if err != nil {
		return err
	}

	return c.JSON(data)
}

// SearchCity godoc
// @Summary Search cities by name
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param query query string true "At least two characters" example(Ank)
// @Success 200 {array} models.GeoLocation
// @Failure 502 {object} ErrorResponse
// @Router /api/users/search-city [get]
func (r *routes) handleSearchCity(c *fiber.Ctx) error {
	results, err := r.weather.SearchCity(c.UserContext(), c.Query("query"))
	if err != nil {
		return err
	}
	if results == nil {
		results = []models.GeoLocation{}
	}
	return c.JSON(results)
}
