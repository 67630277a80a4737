// Package repotest holds behaviour checks shared by every AccountRepository implementation.
package repotest

import (
	"context"
	"testing"

	"account/internal/domain/entity"
	domainerrors "account/internal/domain/errors"
	"account/internal/domain/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunAccountRepositoryContract exercises repo through the full account lifecycle.
// newRepo must return an empty store on every call.
func RunAccountRepositoryContract(t *testing.T, newRepo func(t *testing.T) repository.AccountRepository) {
	t.Helper()

	t.Run("CreateThenFind", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		account := &entity.Account{Name: "Alice", Email: "a@x.com", PasswordHash: "hash"}
		require.NoError(t, repo.Create(ctx, account))
		assert.NotEmpty(t, account.ID)
		assert.False(t, account.CreatedAt.IsZero())

		byEmail, err := repo.FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, account.ID, byEmail.ID)
		assert.Equal(t, "Alice", byEmail.Name)
		assert.Equal(t, "hash", byEmail.PasswordHash)

		byID, err := repo.FindByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", byID.Email)
		assert.True(t, account.CreatedAt.Equal(byID.CreatedAt))
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Create(ctx, &entity.Account{Name: "Alice", Email: "a@x.com", PasswordHash: "h1"}))

		err := repo.Create(ctx, &entity.Account{Name: "Other", Email: "a@x.com", PasswordHash: "h2"})
		assert.True(t, errors.Is(err, domainerrors.ErrAccountAlreadyExists))
	})

	t.Run("FindMissing", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.FindByEmail(ctx, "nobody@x.com")
		assert.True(t, errors.Is(err, repository.ErrAccountNotFound))

		_, err = repo.FindByID(ctx, "65f1c0ffee0000000000beef")
		assert.True(t, errors.Is(err, repository.ErrAccountNotFound))

		_, err = repo.FindByID(ctx, "not-an-id")
		assert.True(t, errors.Is(err, repository.ErrAccountNotFound))
	})

	t.Run("Replace", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		account := &entity.Account{Name: "Alice", Email: "a@x.com", PasswordHash: "h1"}
		require.NoError(t, repo.Create(ctx, account))

		account.Name = "Alicia"
		account.Email = "alicia@x.com"
		account.PasswordHash = "h2"
		require.NoError(t, repo.Replace(ctx, account))

		stored, err := repo.FindByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alicia", stored.Name)
		assert.Equal(t, "alicia@x.com", stored.Email)
		assert.Equal(t, "h2", stored.PasswordHash)

		// The old email is free again, the new one resolves.
		_, err = repo.FindByEmail(ctx, "a@x.com")
		assert.True(t, errors.Is(err, repository.ErrAccountNotFound))
		_, err = repo.FindByEmail(ctx, "alicia@x.com")
		assert.NoError(t, err)
	})

	t.Run("ReplaceOntoTakenEmail", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Create(ctx, &entity.Account{Name: "Alice", Email: "a@x.com", PasswordHash: "h1"}))
		bob := &entity.Account{Name: "Bob", Email: "b@x.com", PasswordHash: "h2"}
		require.NoError(t, repo.Create(ctx, bob))

		bob.Email = "a@x.com"
		err := repo.Replace(ctx, bob)
		assert.True(t, errors.Is(err, domainerrors.ErrAccountAlreadyExists))
	})

	t.Run("ReplaceMissing", func(t *testing.T) {
		repo := newRepo(t)

		err := repo.Replace(context.Background(), &entity.Account{ID: "65f1c0ffee0000000000beef", Email: "x@x.com"})
		assert.True(t, errors.Is(err, repository.ErrAccountNotFound))
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		account := &entity.Account{Name: "Alice", Email: "a@x.com", PasswordHash: "h1"}
		require.NoError(t, repo.Create(ctx, account))
		require.NoError(t, repo.Delete(ctx, account.ID))

		_, err := repo.FindByID(ctx, account.ID)
		assert.True(t, errors.Is(err, repository.ErrAccountNotFound))

		err = repo.Delete(ctx, account.ID)
		assert.True(t, errors.Is(err, repository.ErrAccountNotFound))

		// Email can be registered again after termination.
		assert.NoError(t, repo.Create(ctx, &entity.Account{Name: "Alice", Email: "a@x.com", PasswordHash: "h3"}))
	})
}
