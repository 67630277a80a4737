package model

import (
	"time"

	"account/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountModel mirrors a document of the accounts collection.
// Field names match the documents written by the previous deployment,
// including "password" for the hash.
type AccountModel struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// ToDomain maps the persistence model back to a pure domain entity.
func (m *AccountModel) ToDomain() *entity.Account {
	return &entity.Account{
		ID:           m.ID.Hex(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromAccount maps a domain entity to its document form.
// An empty or malformed ID leaves the model ID zero, so the store assigns one.
func FromAccount(account *entity.Account) *AccountModel {
	m := &AccountModel{
		Name:         account.Name,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
	if oid, err := primitive.ObjectIDFromHex(account.ID); err == nil {
		m.ID = oid
	}

	return m
}
