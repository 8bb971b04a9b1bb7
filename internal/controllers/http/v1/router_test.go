package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-widget/internal/models"
	"weather-widget/internal/services/auth"
	"weather-widget/pkg/logger"
)

const validToken = "good-token"

var ayse = &models.User{ID: "u-1", Username: "ayse", Email: "ayse@example.org", City: "Ankara"}

type stubAuth struct {
	registered auth.RegisterInput
	loggedOut  string
	newCity    string
	err        error
}

func (s *stubAuth) Register(_ context.Context, in auth.RegisterInput) (*auth.Session, error) {
	s.registered = in
	if s.err != nil {
		return nil, s.err
	}
	u := *ayse
	return &auth.Session{User: &u, Token: "issued"}, nil
}

func (s *stubAuth) Login(_ context.Context, in auth.LoginInput) (*auth.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	u := *ayse
	return &auth.Session{User: &u, Token: "issued"}, nil
}

func (s *stubAuth) Logout(_ context.Context, token string) error {
	s.loggedOut = token
	return nil
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	switch token {
	case validToken:
		u := *ayse
		return &u, nil
	case "revoked":
		return nil, errors.Wrap(models.ErrTokenRevoked, "authenticate")
	default:
		return nil, errors.Wrap(models.ErrUnauthorized, "verify")
	}
}

func (s *stubAuth) UpdateCity(_ context.Context, userID, city string) (*models.User, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, errors.Wrap(models.ErrInvalidInput, "city is required")
	}
	s.newCity = city
	u := *ayse
	u.City = city
	return &u, nil
}

type stubWidget struct {
	data *models.WidgetData
	err  error
}

func (s *stubWidget) GetWidgetData(_ context.Context, user *models.User) (*models.WidgetData, error) {
	if s.err != nil {
		return nil, s.err
	}
	d := *s.data
	d.City = user.City
	return &d, nil
}

type stubWeather struct {
	query string
}

func (s *stubWeather) SearchCity(_ context.Context, query string) ([]models.GeoLocation, error) {
	s.query = query
	if len(query) < 2 {
		return nil, nil
	}
	return []models.GeoLocation{{Name: "Ankara", Country: "TR"}}, nil
}

type fixture struct {
	app     *fiber.App
	auth    *stubAuth
	widget  *stubWidget
	weather *stubWeather
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	l := logger.NewNop()
	f := &fixture{
		app:     fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(l)}),
		auth:    &stubAuth{},
		widget:  &stubWidget{data: &models.WidgetData{ImageURL: "https://weather.example.org/city-images/ankara.png", Source: "permanent"}},
		weather: &stubWeather{},
	}
	NewRouter(f.app, f.weather, f.widget, f.auth, StaticDir{}, l)
	return f
}

func (f *fixture) do(t *testing.T, method, target, token, body string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := f.app.Test(req, int((5 * time.Second).Milliseconds()))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestRouter_Banner(t *testing.T) {
	f := newFixture(t)

	resp, err := f.app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(raw), "Weather Image API is running."))
	assert.Contains(t, string(raw), "GET /api/users/widget-image")
}

func TestRouter_Register(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, fiber.MethodPost, "/api/auth/register", "",
		`{"username":"ayse","email":"ayse@example.org","password":"secret1","city":"Ankara"}`)

	assert.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "u-1", body["_id"])
	assert.Equal(t, "ayse", body["username"])
	assert.Equal(t, "Ankara", body["city"])
	assert.Equal(t, "issued", body["token"])
	assert.Equal(t, "ayse@example.org", f.auth.registered.Email)
}

func TestRouter_RegisterErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		body    string
		code    int
		message string
	}{
		{
			name:    "duplicate user",
			err:     errors.Wrap(models.ErrConflict, "create user"),
			body:    `{"username":"ayse"}`,
			code:    fiber.StatusBadRequest,
			message: "User already exists",
		},
		{
			name: "malformed body",
			body: `{"username":`,
			code: fiber.StatusBadRequest,
		},
		{
			name:    "store down",
			err:     errors.Wrap(models.ErrStore, "bolt"),
			body:    `{"username":"ayse"}`,
			code:    fiber.StatusInternalServerError,
			message: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.auth.err = tt.err

			code, body := f.do(t, fiber.MethodPost, "/api/auth/register", "", tt.body)

			assert.Equal(t, tt.code, code)
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			} else {
				assert.NotEmpty(t, body["message"])
			}
		})
	}
}

func TestRouter_LoginInvalidCredentials(t *testing.T) {
	f := newFixture(t)
	f.auth.err = models.ErrInvalidCredentials

	code, body := f.do(t, fiber.MethodPost, "/api/auth/login", "", `{"email":"ayse@example.org","password":"nope"}`)

	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "Invalid credentials", body["message"])
}

func TestRouter_AuthRequired(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		message string
	}{
		{name: "no token", message: "Not authorized, no token"},
		{name: "bad token", token: "forged", message: "Not authorized, token failed"},
		{name: "revoked token", token: "revoked", message: "Token has been revoked. Please login again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			code, body := f.do(t, fiber.MethodGet, "/api/users/widget-image", tt.token, "")

			assert.Equal(t, fiber.StatusUnauthorized, code)
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestRouter_Logout(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, fiber.MethodPost, "/api/auth/logout", validToken, "")

	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Logged out successfully", body["message"])
	assert.Equal(t, validToken, f.auth.loggedOut)
}

func TestRouter_Me(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, fiber.MethodGet, "/api/users/me", validToken, "")

	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "ayse", body["username"])
	assert.NotContains(t, body, "PasswordHash")
}

func TestRouter_UpdateCity(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, fiber.MethodPut, "/api/users/city", validToken, `{"city":"İzmir"}`)

	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "İzmir", body["city"])
	assert.Equal(t, "City updated to İzmir", body["message"])
	assert.Equal(t, "İzmir", f.auth.newCity)

	code, body = f.do(t, fiber.MethodPut, "/api/users/city", validToken, `{"city":"  "}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "City is required", body["message"])
	assert.Equal(t, "İzmir", f.auth.newCity)
}

func TestRouter_WidgetImage(t *testing.T) {
	f := newFixture(t)

	code, body := f.do(t, fiber.MethodGet, "/api/users/widget-image", validToken, "")

	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Ankara", body["city"])
	assert.Equal(t, "https://weather.example.org/city-images/ankara.png", body["imageUrl"])
	assert.Equal(t, "permanent", body["source"])
}

func TestRouter_WidgetImageErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"unknown city", errors.Wrap(models.ErrCityNotFound, "geocode"), fiber.StatusNotFound, "City not found"},
		{"weather provider down", errors.Wrap(models.ErrProvider, "forecast"), fiber.StatusBadGateway, "Failed to fetch weather data"},
		{"generation failed", errors.Wrap(models.ErrGeneration, "gemini"), fiber.StatusBadGateway, "Failed to generate city image"},
		{"no city", errors.Wrap(models.ErrInvalidInput, "user has no city"), fiber.StatusBadRequest, "user has no city: invalid input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.widget.err = tt.err

			code, body := f.do(t, fiber.MethodGet, "/api/users/widget-image", validToken, "")

			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestRouter_SearchCity(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(fiber.MethodGet, "/api/users/search-city?query=Ank", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+validToken)
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	var got []models.GeoLocation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Ank", f.weather.query)
	require.Len(t, got, 1)
	assert.Equal(t, "Ankara", got[0].Name)

	req = httptest.NewRequest(fiber.MethodGet, "/api/users/search-city?query=A", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+validToken)
	resp, err = f.app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestStatusFor_FiberError(t *testing.T) {
	code, msg := statusFor(fiber.NewError(fiber.StatusTeapot, "short and stout"))
	assert.Equal(t, fiber.StatusTeapot, code)
	assert.Equal(t, "short and stout", msg)

	code, _ = statusFor(errors.New("unexpected"))
	assert.Equal(t, fiber.StatusInternalServerError, code)
}
