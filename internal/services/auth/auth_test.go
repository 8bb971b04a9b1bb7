package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"weather-widget/internal/models"
	"weather-widget/internal/storage/memstore"
	"weather-widget/pkg/logger"
)

func newTestService(t *testing.T) (*Service, *memstore.DB) {
	t.Helper()

	db := memstore.New()
	svc, err := NewService(db, db, "test-secret", time.Hour, logger.NewNop())
	require.NoError(t, err)
	svc.cost = bcrypt.MinCost
	return svc, db
}

var ayse = RegisterInput{Username: "ayse", Email: "Ayse@Example.org ", Password: "hunter22", City: " Ankara "}

func TestService_RegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, ayse)
	require.NoError(t, err)
	assert.Equal(t, "ayse@example.org", reg.User.Email)
	assert.Equal(t, "Ankara", reg.User.City)
	assert.NotEqual(t, "hunter22", reg.User.PasswordHash)
	assert.NotEmpty(t, reg.Token)

	login, err := svc.Login(ctx, LoginInput{Email: "ayse@example.org", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.NotEqual(t, reg.Token, login.Token)

	user, err := svc.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, "ayse", user.Username)
}

func TestService_RegisterDuplicate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, ayse)
	require.NoError(t, err)

	sameEmail := ayse
	sameEmail.Username = "someone"
	_, err = svc.Register(ctx, sameEmail)
	assert.ErrorIs(t, err, models.ErrConflict)

	sameName := ayse
	sameName.Email = "other@example.org"
	_, err = svc.Register(ctx, sameName)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestService_RegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"missing city", RegisterInput{Username: "a1", Email: "a@b.co", Password: "secret1", City: "  "}},
		{"bad email", RegisterInput{Username: "a1", Email: "nope", Password: "secret1", City: "Oslo"}},
		{"short password", RegisterInput{Username: "a1", Email: "a@b.co", Password: "123", City: "Oslo"}},
		{"missing username", RegisterInput{Email: "a@b.co", Password: "secret1", City: "Oslo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestService_LoginFailures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, ayse)
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "ayse@example.org", Password: "wrong-password"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.org", Password: "hunter22"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "", Password: ""})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestService_LogoutRevokesToken(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, ayse)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, reg.Token))

	_, err = svc.Authenticate(ctx, reg.Token)
	assert.ErrorIs(t, err, models.ErrTokenRevoked)

	revoked, err := db.IsRevoked(ctx, reg.Token)
	require.NoError(t, err)
	assert.True(t, revoked)

	// entries outlive their token only until the purge
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	n, err := svc.PurgeRevoked(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_AuthenticateRejects(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "not.a.jwt")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	other, err := NewService(db, db, "another-secret", time.Hour, logger.NewNop())
	require.NoError(t, err)
	other.cost = bcrypt.MinCost
	foreign, err := other.Register(ctx, RegisterInput{Username: "mehmet", Email: "m@example.org", Password: "hunter22", City: "Oslo"})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, foreign.Token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestService_AuthenticateExpired(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, ayse)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Authenticate(ctx, reg.Token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestService_AuthenticateDeletedUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, _, err := svc.tokens.issue("ghost", time.Now())
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestService_UpdateCity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, ayse)
	require.NoError(t, err)

	user, err := svc.UpdateCity(ctx, reg.User.ID, "  İzmir ")
	require.NoError(t, err)
	assert.Equal(t, "İzmir", user.City)

	_, err = svc.UpdateCity(ctx, reg.User.ID, "   ")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.UpdateCity(ctx, "missing", "Oslo")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
