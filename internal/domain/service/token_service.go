package service

import (
	"time"

	"account/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims for issued tokens.
type Claims struct {
	AccountID string `json:"accountId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// Identity returns the account identity asserted by the claims.
func (c *Claims) Identity() entity.Identity {
	return entity.Identity{
		AccountID: c.AccountID,
		Name:      c.Name,
		Email:     c.Email,
	}
}

// TokenService defines the interface for issuing and verifying identity tokens.
type TokenService interface {
	// Issue creates a signed token asserting the given identity.
	Issue(identity entity.Identity) (string, error)

	// Verify checks signature and expiry and returns the asserted claims.
	Verify(tokenString string) (*Claims, error)

	// TokenTTL returns how long an issued token stays valid.
	TokenTTL() time.Duration
}
