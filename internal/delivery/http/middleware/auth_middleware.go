package middleware

import (
	"log/slog"
	"strings"

	"account/config"
	deliverycontext "account/internal/delivery/context"
	domainerrors "account/internal/domain/errors"
	"account/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const bearerPrefix = "Bearer "

// AuthMiddleware guards routes that require a valid identity token.
type AuthMiddleware struct {
	tokenSvc   service.TokenService
	cookieName string
	logger     *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, cfg *config.Config, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc:   tokenSvc,
		cookieName: cfg.Auth.Cookie.Name,
		logger:     logger,
	}
}

// Authenticate verifies the token from the cookie, or from an Authorization
// Bearer header when no cookie is sent, and stores the asserted identity for
// the handlers behind it. Any failure answers 401 without reaching the handler.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := m.extractToken(c)
		if tokenString == "" {
			return domainerrors.ErrUnauthorized.WithDetails("token is missing")
		}

		claims, err := m.tokenSvc.Verify(tokenString)
		if err != nil {
			deliverycontext.Logger(c.Request().Context(), m.logger).
				Debug("Token rejected", slog.Any("error", err))

			if !errors.Is(err, domainerrors.ErrUnauthorized) {
				err = domainerrors.ErrUnauthorized.WithDetails(err.Error())
			}

			return errors.Wrap(err, "authentication failed")
		}

		deliverycontext.SetIdentity(c, claims.Identity())

		return next(c)
	}
}

func (m *AuthMiddleware) extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
}
