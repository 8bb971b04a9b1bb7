package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	_ "weather-widget/docs"
	"weather-widget/internal/models"
	"weather-widget/internal/services/auth"
	"weather-widget/pkg/logger"
)

const banner = "Weather Image API is running.\nEndpoints:\nPOST /api/auth/register\nPOST /api/auth/login\nGET /api/users/widget-image\nPUT /api/users/city"

type WeatherService interface {
	SearchCity(ctx context.Context, query string) ([]models.GeoLocation, error)
}

type WidgetService interface {
	GetWidgetData(ctx context.Context, user *models.User) (*models.WidgetData, error)
}

type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*auth.Session, error)
	Login(ctx context.Context, in auth.LoginInput) (*auth.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*models.User, error)
	UpdateCity(ctx context.Context, userID, city string) (*models.User, error)
}

// StaticDir is a directory served under a URL prefix.
type StaticDir struct {
	Prefix string
	Root   string
}

type routes struct {
	weather WeatherService
	widget  WidgetService
	auth    AuthService
	l       *logger.Logger
}

func NewRouter(
	app *fiber.App,
	weatherService WeatherService,
	widgetService WidgetService,
	authService AuthService,
	images StaticDir,
	l *logger.Logger,
) {
	r := &routes{
		weather: weatherService,
		widget:  widgetService,
		auth:    authService,
		l:       l,
	}

	app.Use(requestLogger(l))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(banner)
	})

	// Swagger documentation
	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	if images.Prefix != "" && images.Root != "" {
		app.Static(images.Prefix, images.Root, fiber.Static{MaxAge: 86400})
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", r.handleRegister)
	authGroup.Post("/login", r.handleLogin)
	authGroup.Post("/logout", r.requireAuth, r.handleLogout)

	users := api.Group("/users", r.requireAuth)
	users.Get("/me", r.handleMe)
	users.Put("/city", r.handleUpdateCity)
	users.Get("/widget-image", r.handleWidgetImage)
	users.Get("/search-city", r.handleSearchCity)
}
