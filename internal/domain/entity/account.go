// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// Account is a registered user's persisted identity record.
// The email is the login key and is unique across all accounts.
type Account struct {
	ID           string    // Opaque identifier assigned by the store at creation; never changes.
	Name         string    // Display name.
	Email        string    // Login key.
	PasswordHash string    // bcrypt hash of the password; plaintext is never stored.
	CreatedAt    time.Time // Timestamp of registration.
	UpdatedAt    time.Time // Timestamp of the last replace.
}

// Identity is the subset of an Account carried inside an issued token.
type Identity struct {
	AccountID string
	Name      string
	Email     string
}

// Identity returns the token-facing identity of the account.
func (a *Account) Identity() Identity {
	return Identity{
		AccountID: a.ID,
		Name:      a.Name,
		Email:     a.Email,
	}
}
