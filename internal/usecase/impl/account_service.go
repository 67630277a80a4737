// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "account/internal/delivery/context"
	"account/internal/domain/entity"
	domainerrors "account/internal/domain/errors"
	"account/internal/domain/repository"
	"account/internal/domain/service"
	"account/internal/infra/metrics"
	"account/internal/usecase"
	"account/internal/validator"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	opRegister  = "register"
	opLogin     = "login"
	opFind      = "find"
	opUpdate    = "update"
	opTerminate = "terminate"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	validator    *validator.Validator
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Validator    *validator.Validator
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		validator:    params.Validator,
		metrics:      params.Metrics,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.Logger(ctx, srv.logger)
}

func (srv *accountService) observe(operation string, err error) {
	if srv.metrics != nil {
		srv.metrics.AccountOperation(operation, err)
	}
}

// Register creates a new account after checking the email is still free.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (view *usecase.AccountView, err error) {
	defer func() { srv.observe(opRegister, err) }()

	if err := srv.validate(input); err != nil {
		srv.log(ctx).Warn("Registration input rejected", slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	_, err = srv.accountRepo.FindByEmail(ctx, input.Email)
	if err == nil {
		srv.log(ctx).Warn("Email already registered", slog.String("email", input.Email))

		return nil, domainerrors.ErrAccountAlreadyExists.WrapMessage("registration failed")
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, errors.Wrap(err, "failed to look up account by email")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed.WithDetails(err.Error()), "failed to hash password during registration")
	}

	account := &entity.Account{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	// The store's unique index still rejects a concurrent registration of the same email.
	if err = srv.accountRepo.Create(ctx, account); err != nil {
		return nil, errors.Wrap(err, "failed to create account during registration")
	}

	srv.log(ctx).Debug("Registration completed", slog.String("accountID", account.ID))

	return usecase.NewAccountView(account), nil
}

// Login verifies the credentials and issues a token for the account.
// Unknown emails and wrong passwords fail identically.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (output *usecase.LoginOutput, err error) {
	defer func() { srv.observe(opLogin, err) }()

	if err := srv.validate(input); err != nil {
		return nil, err
	}

	account, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		srv.log(ctx).Warn("Login attempt for unknown email", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up account by email")
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Password mismatch on login", slog.String("accountID", account.ID))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	token, err := srv.tokenService.Issue(account.Identity())
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.String("accountID", account.ID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed.WithDetails(err.Error()), "failed to issue token")
	}

	srv.log(ctx).Info("Login succeeded", slog.String("accountID", account.ID))

	return &usecase.LoginOutput{
		Token:     token,
		ExpiresIn: srv.tokenService.TokenTTL(),
		Account:   usecase.NewAccountView(account),
	}, nil
}

// Find returns the caller's own account.
func (srv *accountService) Find(ctx context.Context, accountID string) (view *usecase.AccountView, err error) {
	defer func() { srv.observe(opFind, err) }()

	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, accountLookupError(err, "failed to find account")
	}

	return usecase.NewAccountView(account), nil
}

// Update replaces name, email and password of the caller's account.
func (srv *accountService) Update(ctx context.Context, accountID string, input *usecase.UpdateInput) (view *usecase.AccountView, err error) {
	defer func() { srv.observe(opUpdate, err) }()

	if err := srv.validate(input); err != nil {
		return nil, err
	}

	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, accountLookupError(err, "failed to load account for update")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during update", slog.String("accountID", accountID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed.WithDetails(err.Error()), "failed to hash password during update")
	}

	account.Name = input.Name
	account.Email = input.Email
	account.PasswordHash = hashedPassword

	if err = srv.accountRepo.Replace(ctx, account); err != nil {
		return nil, accountLookupError(err, "failed to replace account")
	}

	srv.log(ctx).Info("Account updated", slog.String("accountID", accountID))

	return usecase.NewAccountView(account), nil
}

// Terminate deletes the caller's account. Tokens already issued stay valid until they expire.
func (srv *accountService) Terminate(ctx context.Context, accountID string) (err error) {
	defer func() { srv.observe(opTerminate, err) }()

	if err = srv.accountRepo.Delete(ctx, accountID); err != nil {
		return accountLookupError(err, "failed to delete account")
	}

	srv.log(ctx).Info("Account terminated", slog.String("accountID", accountID))

	return nil
}

func (srv *accountService) validate(input any) error {
	if err := srv.validator.Validate(input); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}

// accountLookupError turns the store's not-found sentinel into the public error.
func accountLookupError(err error, message string) error {
	if errors.Is(err, repository.ErrAccountNotFound) {
		return domainerrors.ErrAccountNotFound.WrapMessage(message)
	}

	return errors.Wrap(err, message)
}
