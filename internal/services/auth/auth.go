// Package auth registers users, issues bearer tokens and revokes them on logout.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"weather-widget/internal/models"
	"weather-widget/internal/storage"
	"weather-widget/pkg/logger"
)

const DefaultTokenTTL = 30 * 24 * time.Hour

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	City     string `json:"city" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is a signed-in user and their bearer token.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type Service struct {
	users     storage.UserStore
	blacklist storage.TokenBlacklist
	tokens    *tokenIssuer
	validate  *validator.Validate
	cost      int
	now       func() time.Time
	l         *logger.Logger
}

func NewService(
	users storage.UserStore,
	blacklist storage.TokenBlacklist,
	secret string,
	ttl time.Duration,
	l *logger.Logger,
) (*Service, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	tokens, err := newTokenIssuer(secret, ttl)
	if err != nil {
		return nil, err
	}
	return &Service{
		users:     users,
		blacklist: blacklist,
		tokens:    tokens,
		validate:  validator.New(),
		cost:      bcrypt.DefaultCost,
		now:       time.Now,
		l:         l,
	}, nil
}

// Validate runs struct validation and reports failures as models.ErrInvalidInput.
func (s *Service) Validate(v any) error {
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field())+" "+fe.Tag())
			}
			return errors.Wrap(models.ErrInvalidInput, "invalid fields: "+strings.Join(fields, ", "))
		}
		return errors.Wrap(models.ErrInvalidInput, err.Error())
	}
	return nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.City = strings.TrimSpace(in.City)
	if err := s.Validate(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		City:         in.City,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, errors.Wrap(models.ErrConflict, "user already exists")
		}
		return nil, errors.Wrap(err, "create user")
	}

	s.l.Info("user registered", map[string]any{"user_id": user.ID, "username": user.Username, "city": user.City})

	return s.newSession(user)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.Validate(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "find user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.newSession(user)
}

// Logout blacklists the token until it would have expired.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.verify(token, s.now())
	if err != nil {
		return err
	}

	err = s.blacklist.Revoke(ctx, models.RevokedToken{
		Token:     token,
		UserID:    claims.Subject,
		ExpiresAt: claims.Expiry.Time().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "revoke token")
	}

	s.l.Info("token revoked", map[string]any{"user_id": claims.Subject})
	return nil
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, errors.Wrap(models.ErrUnauthorized, "no token")
	}

	revoked, err := s.blacklist.IsRevoked(ctx, token)
	if err != nil {
		return nil, errors.Wrap(err, "check blacklist")
	}
	if revoked {
		return nil, models.ErrTokenRevoked
	}

	claims, err := s.tokens.verify(token, s.now())
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, errors.Wrap(models.ErrUnauthorized, "user not found")
		}
		return nil, errors.Wrap(err, "find user")
	}
	return user, nil
}

func (s *Service) UpdateCity(ctx context.Context, userID, city string) (*models.User, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, errors.Wrap(models.ErrInvalidInput, "city is required")
	}

	user, err := s.users.UpdateUserCity(ctx, userID, city)
	if err != nil {
		return nil, errors.Wrap(err, "update city")
	}

	s.l.Info("user city updated", map[string]any{"user_id": userID, "city": city})
	return user, nil
}

// PurgeRevoked drops blacklist entries whose tokens have expired.
func (s *Service) PurgeRevoked(ctx context.Context) (int, error) {
	return s.blacklist.PurgeExpired(ctx, s.now())
}

func (s *Service) newSession(user *models.User) (*Session, error) {
	token, exp, err := s.tokens.issue(user.ID, s.now())
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}
