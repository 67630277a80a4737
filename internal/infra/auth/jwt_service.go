// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"account/config"
	"account/internal/domain/entity"
	domainerrors "account/internal/domain/errors"
	"account/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const defaultTokenTTL = 30 * 24 * time.Hour

// ErrMissingSecret is returned at construction when no signing key is configured.
var ErrMissingSecret = errors.New("token signing secret must be provided")

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret []byte           // HMAC key shared by Issue and Verify.
	ttl    time.Duration    // Lifetime of issued tokens.
	now    func() time.Time // Clock, replaceable in tests.
}

// NewJWTService is the constructor for jwtService.
// A missing secret is a startup failure, never a per-request one.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Token == "" {
		return nil, errors.WithStack(ErrMissingSecret)
	}

	ttl := defaultTokenTTL
	if cfg.Auth != nil && cfg.Auth.TokenTTL > 0 {
		ttl = cfg.Auth.TokenTTL
	}

	return &jwtService{
		secret: []byte(cfg.SecretKey.Token),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates an HS256 token carrying the identity, issued now and expiring after the TTL.
func (s *jwtService) Issue(identity entity.Identity) (string, error) {
	issuedAt := s.now()
	claims := &service.Claims{
		AccountID: identity.AccountID,
		Name:      identity.Name,
		Email:     identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.AccountID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify parses the token, checking the HMAC signature and the expiry.
// Any failure is reported as ErrUnauthorized.
func (s *jwtService) Verify(tokenString string) (*service.Claims, error) {
	if tokenString == "" {
		return nil, domainerrors.ErrUnauthorized.WithDetails("token is missing")
	}

	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrUnauthorized.WithDetails(err.Error()), "failed to verify token")
	}
	if !token.Valid || claims.AccountID == "" {
		return nil, domainerrors.ErrUnauthorized.WithDetails("token carries no account")
	}

	return claims, nil
}

// TokenTTL returns the configured lifetime for issued tokens.
func (s *jwtService) TokenTTL() time.Duration {
	return s.ttl
}
