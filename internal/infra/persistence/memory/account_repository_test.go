package memory

import (
	"context"
	"testing"

	"account/internal/domain/entity"
	"account/internal/domain/repository"
	"account/internal/infra/persistence/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_Contract(t *testing.T) {
	repotest.RunAccountRepositoryContract(t, func(*testing.T) repository.AccountRepository {
		return NewAccountRepository()
	})
}

func TestAccountRepository_ReturnsCopies(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	account := &entity.Account{Name: "Alice", Email: "a@x.com", PasswordHash: "h1"}
	require.NoError(t, repo.Create(ctx, account))

	found, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	found.Name = "mutated"

	again, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.Name)
}
