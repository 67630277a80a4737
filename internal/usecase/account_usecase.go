// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"account/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateInput replaces every mutable field of the caller's account.
type UpdateInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

// --- Output DTOs ---

// AccountView is the public projection of an account. It never carries the password hash.
type AccountView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewAccountView projects an account onto its public view.
func NewAccountView(account *entity.Account) *AccountView {
	return &AccountView{
		ID:        account.ID,
		Name:      account.Name,
		Email:     account.Email,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

// LoginOutput returns the issued token after a successful login.
// The delivery layer hands the token to the client as a cookie.
type LoginOutput struct {
	Token     string
	ExpiresIn time.Duration
	Account   *AccountView
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*AccountView, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	Find(ctx context.Context, accountID string) (*AccountView, error)
	Update(ctx context.Context, accountID string, input *UpdateInput) (*AccountView, error)
	Terminate(ctx context.Context, accountID string) error
}
