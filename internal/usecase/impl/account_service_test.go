package impl

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"account/internal/domain/entity"
	domainerrors "account/internal/domain/errors"
	"account/internal/domain/repository"
	"account/internal/infra/metrics"
	mockRepo "account/internal/mocks/repository"
	mockSvc "account/internal/mocks/service"
	"account/internal/usecase"
	"account/internal/validator"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service      usecase.AccountUsecase
	accountRepo  *mockRepo.MockAccountRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
	metrics      *metrics.Metrics
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	accountRepo := mockRepo.NewMockAccountRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	m := metrics.New()

	service := NewAccountService(AccountServiceParams{
		AccountRepo:  accountRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Validator:    validator.New(),
		Metrics:      m,
		Logger:       newDiscardLogger(),
	})

	return accountServiceFixtures{
		service:      service,
		accountRepo:  accountRepo,
		hasher:       hasher,
		tokenService: tokenService,
		metrics:      m,
	}
}

func storedAccount() *entity.Account {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	return &entity.Account{
		ID:           "65f1c0ffee0000000000beef",
		Name:         "Alice",
		Email:        "a@x.com",
		PasswordHash: "hashed_password",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func assertAppError(t *testing.T, err error, target *domainerrors.BaseError, httpCode int) {
	t.Helper()

	require.Error(t, err)
	assert.True(t, errors.Is(err, target), "expected %s, got %v", target.ErrorCode(), err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, httpCode, appErr.HTTPCode())
}

func assertAccountOperation(t *testing.T, m *metrics.Metrics, operation, outcome string) {
	t.Helper()

	expected := fmt.Sprintf(`
# HELP account_operations_total Account operations by name and outcome
# TYPE account_operations_total counter
account_operations_total{operation=%q,outcome=%q} 1
`, operation, outcome)

	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "account_operations_total"))
}

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Alice",
		Email:    "a@x.com",
		Password: "secret1",
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrAccountNotFound)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.accountRepo.EXPECT().
		Create(ctx, mock.MatchedBy(func(account *entity.Account) bool {
			return account.Name == "Alice" && account.Email == "a@x.com" && account.PasswordHash == "hashed_password"
		})).
		Run(func(ctx context.Context, account *entity.Account) {
			account.ID = "65f1c0ffee0000000000beef"
			account.CreatedAt = time.Now()
			account.UpdatedAt = account.CreatedAt
		}).
		Return(nil)

	view, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "65f1c0ffee0000000000beef", view.ID)
	assert.Equal(t, "Alice", view.Name)
	assert.Equal(t, "a@x.com", view.Email)
	assert.False(t, view.CreatedAt.IsZero())
	assertAccountOperation(t, fx.metrics, "register", metrics.OutcomeSuccess)
}

func TestAccountService_Register_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		input *usecase.RegisterInput
	}{
		{name: "missing name", input: &usecase.RegisterInput{Email: "a@x.com", Password: "secret1"}},
		{name: "missing email", input: &usecase.RegisterInput{Name: "Alice", Password: "secret1"}},
		{name: "missing password", input: &usecase.RegisterInput{Name: "Alice", Email: "a@x.com"}},
		{name: "nil input", input: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAccountService(t)

			_, err := fx.service.Register(context.Background(), tt.input)

			assertAppError(t, err, domainerrors.ErrValidationFailed, 400)
		})
	}
}

func TestAccountService_Register_ShortPassword(t *testing.T) {
	fx := createTestAccountService(t)

	_, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Alice",
		Email:    "a@x.com",
		Password: "abc",
	})

	assertAppError(t, err, domainerrors.ErrValidationFailed, 400)
	assert.Contains(t, err.Error(), "password must be at least 6 characters")
}

func TestAccountService_Register_PasswordOverSeventyTwoBytes(t *testing.T) {
	fx := createTestAccountService(t)

	// 40 runes, 80 bytes: within a rune limit but beyond what bcrypt accepts.
	_, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Alice",
		Email:    "a@x.com",
		Password: strings.Repeat("é", 40),
	})

	assertAppError(t, err, domainerrors.ErrValidationFailed, 400)
	assert.Contains(t, err.Error(), "password must be at most 72 bytes long")
	assertAccountOperation(t, fx.metrics, "register", metrics.OutcomeFailure)
}

func TestAccountService_Register_PasswordOfSixCharactersAccepted(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{Name: "Alice", Email: "a@x.com", Password: "abcdef"}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrAccountNotFound)
	fx.hasher.EXPECT().Hash("abcdef").Return("hashed_password", nil)
	fx.accountRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.Account")).Return(nil)

	_, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
}

func TestAccountService_Register_EmailTaken(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{Name: "Other", Email: "a@x.com", Password: "secret2"}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(storedAccount(), nil)

	_, err := fx.service.Register(ctx, input)

	assertAppError(t, err, domainerrors.ErrAccountAlreadyExists, 400)
}

func TestAccountService_Register_ConcurrentDuplicateRejectedByStore(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{Name: "Alice", Email: "a@x.com", Password: "secret1"}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrAccountNotFound)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.accountRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Account")).
		Return(domainerrors.ErrAccountAlreadyExists.WrapMessage("email already exists"))

	_, err := fx.service.Register(ctx, input)

	assertAppError(t, err, domainerrors.ErrAccountAlreadyExists, 400)
}

func TestAccountService_Register_LookupFailure(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{Name: "Alice", Email: "a@x.com", Password: "secret1"}
	storeErr := domainerrors.NewDatabaseExecuteError(errors.New("connection reset"), "find by email")

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, storeErr)

	_, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, storeErr))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 500, appErr.HTTPCode())
}

func TestAccountService_Register_HashFailure(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{Name: "Alice", Email: "a@x.com", Password: "secret1"}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrAccountNotFound)
	fx.hasher.EXPECT().Hash(input.Password).Return("", errors.New("bcrypt failure"))

	_, err := fx.service.Register(ctx, input)

	assertAppError(t, err, domainerrors.ErrPasswordHashFailed, 500)
	assertAccountOperation(t, fx.metrics, "register", metrics.OutcomeFailure)
}

func TestAccountService_Login_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	account := storedAccount()
	input := &usecase.LoginInput{Email: "a@x.com", Password: "secret1"}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(account, nil)
	fx.hasher.EXPECT().Check(input.Password, account.PasswordHash).Return(true)
	fx.tokenService.EXPECT().Issue(account.Identity()).Return("signed.jwt.token", nil)
	fx.tokenService.EXPECT().TokenTTL().Return(30 * 24 * time.Hour)

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", output.Token)
	assert.Equal(t, 30*24*time.Hour, output.ExpiresIn)
	assert.Equal(t, account.ID, output.Account.ID)
	assert.Equal(t, "Alice", output.Account.Name)
}

func TestAccountService_Login_UnknownEmail(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{Email: "nobody@x.com", Password: "secret1"}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrAccountNotFound)

	output, err := fx.service.Login(ctx, input)

	assert.Nil(t, output)
	assertAppError(t, err, domainerrors.ErrInvalidCredentials, 400)
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	account := storedAccount()
	input := &usecase.LoginInput{Email: "a@x.com", Password: "wrong-password"}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(account, nil)
	fx.hasher.EXPECT().Check(input.Password, account.PasswordHash).Return(false)

	output, err := fx.service.Login(ctx, input)

	assert.Nil(t, output)
	assertAppError(t, err, domainerrors.ErrInvalidCredentials, 400)
}

func TestAccountService_Login_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	account := storedAccount()

	fx.accountRepo.EXPECT().FindByEmail(ctx, "nobody@x.com").Return(nil, repository.ErrAccountNotFound)
	fx.accountRepo.EXPECT().FindByEmail(ctx, "a@x.com").Return(account, nil)
	fx.hasher.EXPECT().Check("wrong-password", account.PasswordHash).Return(false)

	_, unknownErr := fx.service.Login(ctx, &usecase.LoginInput{Email: "nobody@x.com", Password: "wrong-password"})
	_, mismatchErr := fx.service.Login(ctx, &usecase.LoginInput{Email: "a@x.com", Password: "wrong-password"})

	var unknownApp, mismatchApp domainerrors.AppError
	require.True(t, errors.As(unknownErr, &unknownApp))
	require.True(t, errors.As(mismatchErr, &mismatchApp))
	assert.Equal(t, unknownApp.ErrorCode(), mismatchApp.ErrorCode())
	assert.Equal(t, unknownApp.Message(), mismatchApp.Message())
}

func TestAccountService_Login_MissingFields(t *testing.T) {
	fx := createTestAccountService(t)

	_, err := fx.service.Login(context.Background(), &usecase.LoginInput{Email: "a@x.com"})

	assertAppError(t, err, domainerrors.ErrValidationFailed, 400)
}

func TestAccountService_Login_TokenIssueFailure(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	account := storedAccount()
	input := &usecase.LoginInput{Email: "a@x.com", Password: "secret1"}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(account, nil)
	fx.hasher.EXPECT().Check(input.Password, account.PasswordHash).Return(true)
	fx.tokenService.EXPECT().Issue(account.Identity()).Return("", errors.New("signing failed"))

	_, err := fx.service.Login(ctx, input)

	assertAppError(t, err, domainerrors.ErrTokenIssueFailed, 500)
}

func TestAccountService_Find(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fx := createTestAccountService(t)
		ctx := context.Background()
		account := storedAccount()

		fx.accountRepo.EXPECT().FindByID(ctx, account.ID).Return(account, nil)

		view, err := fx.service.Find(ctx, account.ID)

		require.NoError(t, err)
		assert.Equal(t, &usecase.AccountView{
			ID:        account.ID,
			Name:      account.Name,
			Email:     account.Email,
			CreatedAt: account.CreatedAt,
			UpdatedAt: account.UpdatedAt,
		}, view)
	})

	t.Run("account gone", func(t *testing.T) {
		fx := createTestAccountService(t)
		ctx := context.Background()

		fx.accountRepo.EXPECT().FindByID(ctx, "65f1c0ffee0000000000beef").Return(nil, repository.ErrAccountNotFound)

		view, err := fx.service.Find(ctx, "65f1c0ffee0000000000beef")

		assert.Nil(t, view)
		assertAppError(t, err, domainerrors.ErrAccountNotFound, 400)
	})
}

func TestAccountService_Update_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	account := storedAccount()
	input := &usecase.UpdateInput{Name: "Alice B", Email: "ab@x.com", Password: "newpass1"}

	fx.accountRepo.EXPECT().FindByID(ctx, account.ID).Return(account, nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("new_hash", nil)
	fx.accountRepo.EXPECT().
		Replace(ctx, mock.MatchedBy(func(a *entity.Account) bool {
			return a.ID == account.ID && a.Name == "Alice B" && a.Email == "ab@x.com" && a.PasswordHash == "new_hash"
		})).
		Return(nil)

	view, err := fx.service.Update(ctx, account.ID, input)

	require.NoError(t, err)
	assert.Equal(t, account.ID, view.ID)
	assert.Equal(t, "Alice B", view.Name)
	assert.Equal(t, "ab@x.com", view.Email)
	assert.Equal(t, account.CreatedAt, view.CreatedAt)
}

func TestAccountService_Update_MissingFields(t *testing.T) {
	fx := createTestAccountService(t)

	_, err := fx.service.Update(context.Background(), "65f1c0ffee0000000000beef", &usecase.UpdateInput{Name: "Alice"})

	assertAppError(t, err, domainerrors.ErrValidationFailed, 400)
}

func TestAccountService_Update_PasswordOverSeventyTwoBytes(t *testing.T) {
	fx := createTestAccountService(t)

	_, err := fx.service.Update(context.Background(), "65f1c0ffee0000000000beef", &usecase.UpdateInput{
		Name:     "Alice",
		Email:    "a@x.com",
		Password: strings.Repeat("é", 40),
	})

	assertAppError(t, err, domainerrors.ErrValidationFailed, 400)
	assert.Contains(t, err.Error(), "password must be at most 72 bytes long")
}

func TestAccountService_Update_AccountGone(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.UpdateInput{Name: "Alice", Email: "a@x.com", Password: "secret1"}

	fx.accountRepo.EXPECT().FindByID(ctx, "65f1c0ffee0000000000beef").Return(nil, repository.ErrAccountNotFound)

	_, err := fx.service.Update(ctx, "65f1c0ffee0000000000beef", input)

	assertAppError(t, err, domainerrors.ErrAccountNotFound, 400)
}

func TestAccountService_Update_EmailOwnedByAnotherAccount(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	account := storedAccount()
	input := &usecase.UpdateInput{Name: "Alice", Email: "bob@x.com", Password: "secret1"}

	fx.accountRepo.EXPECT().FindByID(ctx, account.ID).Return(account, nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("new_hash", nil)
	fx.accountRepo.EXPECT().
		Replace(ctx, mock.AnythingOfType("*entity.Account")).
		Return(domainerrors.ErrAccountAlreadyExists.WrapMessage("email already exists"))

	_, err := fx.service.Update(ctx, account.ID, input)

	assertAppError(t, err, domainerrors.ErrAccountAlreadyExists, 400)
}

func TestAccountService_Terminate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fx := createTestAccountService(t)
		ctx := context.Background()

		fx.accountRepo.EXPECT().Delete(ctx, "65f1c0ffee0000000000beef").Return(nil)

		require.NoError(t, fx.service.Terminate(ctx, "65f1c0ffee0000000000beef"))
	})

	t.Run("account gone", func(t *testing.T) {
		fx := createTestAccountService(t)
		ctx := context.Background()

		fx.accountRepo.EXPECT().Delete(ctx, "65f1c0ffee0000000000beef").Return(repository.ErrAccountNotFound)

		err := fx.service.Terminate(ctx, "65f1c0ffee0000000000beef")

		assertAppError(t, err, domainerrors.ErrAccountNotFound, 400)
	})
}
