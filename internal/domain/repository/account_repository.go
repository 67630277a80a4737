// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"account/internal/domain/entity"
)

// ErrAccountNotFound is returned by finders when no account matches.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the persistence operations for accounts.
// Every operation is atomic for the single record it touches.
type AccountRepository interface {
	// FindByID retrieves a single account by its identifier.
	FindByID(ctx context.Context, id string) (*entity.Account, error)

	// FindByEmail retrieves a single account by its email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// Create persists a new account and fills in its ID and timestamps.
	// It fails with ErrAccountAlreadyExists when the email is taken.
	Create(ctx context.Context, account *entity.Account) error

	// Replace overwrites name, email and password hash of an existing account.
	Replace(ctx context.Context, account *entity.Account) error

	// Delete removes the account with the given identifier.
	Delete(ctx context.Context, id string) error
}
