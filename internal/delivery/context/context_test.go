package context

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"account/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newContext() echo.Context {
	e := echo.New()

	return e.NewContext(httptest.NewRequest(http.MethodGet, "/users/find", nil), httptest.NewRecorder())
}

func TestStartRequest(t *testing.T) {
	var buf bytes.Buffer
	c := newContext()

	assert.Empty(t, RequestID(c))

	StartRequest(c, "req-1", slog.New(slog.NewJSONHandler(&buf, nil)))
	Logger(c.Request().Context(), nil).Info("inside handler")

	assert.Equal(t, "req-1", RequestID(c))
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}

func TestIdentity_TagsRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	c := newContext()
	StartRequest(c, "req-1", slog.New(slog.NewJSONHandler(&buf, nil)))

	_, ok := Identity(c)
	assert.False(t, ok)

	identity := entity.Identity{AccountID: "acc-1", Name: "Alice", Email: "a@x.com"}
	SetIdentity(c, identity)

	got, ok := Identity(c)
	assert.True(t, ok)
	assert.Equal(t, identity, got)

	Logger(c.Request().Context(), nil).Info("account loaded")
	assert.Contains(t, buf.String(), `"accountID":"acc-1"`)
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}

func TestIdentity_WithoutRequestLogger(t *testing.T) {
	c := newContext()

	SetIdentity(c, entity.Identity{AccountID: "acc-1"})

	_, ok := Identity(c)
	assert.True(t, ok)
	assert.Nil(t, Logger(c.Request().Context(), nil))
}

func TestIdentity_EmptyAccountIDIsNotAnIdentity(t *testing.T) {
	c := newContext()
	SetIdentity(c, entity.Identity{Name: "Alice"})

	_, ok := Identity(c)
	assert.False(t, ok)
}

func TestLogger_Fallback(t *testing.T) {
	fallback := slog.Default()
	scoped := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Same(t, fallback, Logger(context.Background(), fallback))
	assert.Same(t, scoped, Logger(WithLogger(context.Background(), scoped), fallback))
}
