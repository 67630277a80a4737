// Package context carries the request ID, the request-scoped logger and the
// verified caller identity from the HTTP layer to the services behind it.
package context

import (
	"context"
	"log/slog"

	"account/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

type key string

const (
	keyRequestID key = "request_id"
	keyLogger    key = "logger"
	keyIdentity  key = "identity"

	// HeaderXRequestID carries the request ID in both directions.
	HeaderXRequestID = "X-Request-Id"
)

// StartRequest records the request ID and puts a logger tagged with it on
// the request context, where the services pick it up.
func StartRequest(c echo.Context, requestID string, logger *slog.Logger) {
	c.Set(string(keyRequestID), requestID)

	reqLogger := logger.With(slog.String("request_id", requestID))
	c.SetRequest(c.Request().WithContext(WithLogger(c.Request().Context(), reqLogger)))
}

// RequestID returns the ID recorded by StartRequest, or "" before it ran.
func RequestID(c echo.Context) string {
	id, _ := c.Get(string(keyRequestID)).(string)

	return id
}

// WithLogger returns a new context with the logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, keyLogger, logger)
}

// Logger returns the request-scoped logger, or fallback outside a request.
func Logger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(keyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

// SetIdentity stores the verified identity for the handlers. A request logger
// already in place is tagged with the account ID from here on.
func SetIdentity(c echo.Context, identity entity.Identity) {
	c.Set(string(keyIdentity), identity)

	ctx := c.Request().Context()
	if logger := Logger(ctx, nil); logger != nil {
		logger = logger.With(slog.String("accountID", identity.AccountID))
		c.SetRequest(c.Request().WithContext(WithLogger(ctx, logger)))
	}
}

// Identity returns the identity stored by SetIdentity.
func Identity(c echo.Context) (entity.Identity, bool) {
	identity, ok := c.Get(string(keyIdentity)).(entity.Identity)

	return identity, ok && identity.AccountID != ""
}
