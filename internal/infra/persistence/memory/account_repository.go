// Package memory keeps accounts in process memory. It backs local runs
// without a database and the end-to-end HTTP tests.
package memory

import (
	"context"
	"sync"
	"time"

	"account/internal/domain/entity"
	domainerrors "account/internal/domain/errors"
	"account/internal/domain/repository"

	"github.com/google/uuid"
)

type accountRepository struct {
	mu       sync.RWMutex
	accounts map[string]entity.Account // keyed by ID
	byEmail  map[string]string         // email -> ID
	now      func() time.Time
}

// NewAccountRepository returns an empty in-memory account store.
func NewAccountRepository() repository.AccountRepository {
	return &accountRepository{
		accounts: make(map[string]entity.Account),
		byEmail:  make(map[string]string),
		now:      time.Now,
	}
}

func (repo *accountRepository) FindByID(_ context.Context, id string) (*entity.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	account, ok := repo.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return &account, nil
}

func (repo *accountRepository) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	id, ok := repo.byEmail[email]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	account := repo.accounts[id]

	return &account, nil
}

func (repo *accountRepository) Create(_ context.Context, account *entity.Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, taken := repo.byEmail[account.Email]; taken {
		return domainerrors.ErrAccountAlreadyExists.WrapMessage("email already exists")
	}

	now := repo.now().UTC()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now

	repo.accounts[account.ID] = *account
	repo.byEmail[account.Email] = account.ID

	return nil
}

func (repo *accountRepository) Replace(_ context.Context, account *entity.Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.accounts[account.ID]
	if !ok {
		return repository.ErrAccountNotFound
	}
	if ownerID, taken := repo.byEmail[account.Email]; taken && ownerID != account.ID {
		return domainerrors.ErrAccountAlreadyExists.WrapMessage("email already exists")
	}

	delete(repo.byEmail, stored.Email)

	stored.Name = account.Name
	stored.Email = account.Email
	stored.PasswordHash = account.PasswordHash
	stored.UpdatedAt = repo.now().UTC()

	repo.accounts[stored.ID] = stored
	repo.byEmail[stored.Email] = stored.ID
	account.UpdatedAt = stored.UpdatedAt

	return nil
}

func (repo *accountRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}

	delete(repo.accounts, id)
	delete(repo.byEmail, stored.Email)

	return nil
}
