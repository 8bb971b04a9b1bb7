package auth

import (
	"crypto/sha256"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"weather-widget/internal/models"
)

// tokenIssuer signs and verifies HS256 JWTs. The HMAC key is the SHA-256 of
// the configured secret so any secret length yields a 256-bit key.
type tokenIssuer struct {
	key    []byte
	signer jose.Signer
	ttl    time.Duration
}

func newTokenIssuer(secret string, ttl time.Duration) (*tokenIssuer, error) {
	sum := sha256.Sum256([]byte(secret))
	key := sum[:]

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: key},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create jwt signer")
	}
	return &tokenIssuer{key: key, signer: signer, ttl: ttl}, nil
}

func (ti *tokenIssuer) issue(userID string, now time.Time) (string, time.Time, error) {
	exp := now.Add(ti.ttl)
	claims := jwt.Claims{
		Subject:  userID,
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(exp),
	}
	raw, err := jwt.Signed(ti.signer).Claims(claims).Serialize()
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign jwt")
	}
	return raw, exp, nil
}

// verify checks signature and expiry and returns the claims.
func (ti *tokenIssuer) verify(raw string, now time.Time) (*jwt.Claims, error) {
	tok, err := jwt.ParseSigned(raw, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return nil, errors.Wrapf(models.ErrUnauthorized, "parse token: %v", err)
	}

	var claims jwt.Claims
	if err := tok.Claims(ti.key, &claims); err != nil {
		return nil, errors.Wrapf(models.ErrUnauthorized, "verify token: %v", err)
	}
	if err := claims.ValidateWithLeeway(jwt.Expected{Time: now}, 0); err != nil {
		return nil, errors.Wrapf(models.ErrUnauthorized, "validate token: %v", err)
	}
	if claims.Subject == "" || claims.Expiry == nil {
		return nil, errors.Wrap(models.ErrUnauthorized, "token without subject or expiry")
	}
	return &claims, nil
}
