// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"account/config"
	deliverycontext "account/internal/delivery/context"
	"account/internal/delivery/http/response"
	domainerrors "account/internal/domain/errors"
	"account/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	cookie config.CookieConfig
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, cfg *config.Config, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		cookie: cfg.Auth.Cookie,
		logger: logger,
	}
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return bindError(err)
	}

	view, err := h.uc.Register(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, view, "User created successfully")
}

// Login checks the credentials and hands the issued token to the client as an
// http-only cookie. The token never appears in the body.
func (h *AccountHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return bindError(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(h.tokenCookie(output.Token, output.ExpiresIn))

	return response.Success(c, http.StatusOK, output.Account, "Login successful")
}

// Find returns the caller's own account.
func (h *AccountHandler) Find(c echo.Context) error {
	identity, ok := deliverycontext.Identity(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	view, err := h.uc.Find(c.Request().Context(), identity.AccountID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "User found")
}

// Update replaces name, email and password of the caller's account.
func (h *AccountHandler) Update(c echo.Context) error {
	identity, ok := deliverycontext.Identity(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	var input usecase.UpdateInput
	if err := c.Bind(&input); err != nil {
		return bindError(err)
	}

	view, err := h.uc.Update(c.Request().Context(), identity.AccountID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "User updated successfully")
}

// Terminate deletes the caller's account and clears the token cookie.
func (h *AccountHandler) Terminate(c echo.Context) error {
	identity, ok := deliverycontext.Identity(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	if err := h.uc.Terminate(c.Request().Context(), identity.AccountID); err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(h.expiredCookie())

	return response.Success(c, http.StatusOK, nil, "User deleted successfully")
}

func (h *AccountHandler) tokenCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     h.cookie.Path,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (h *AccountHandler) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     h.cookie.Path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func bindError(err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return domainerrors.ErrInvalidInput.WithDetails(msg)
		}
	}

	return domainerrors.ErrInvalidInput.WithDetails(err.Error())
}
