package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"account/config"
	deliverycontext "account/internal/delivery/context"
	"account/internal/domain/entity"
	domainerrors "account/internal/domain/errors"
	mockUsecase "account/internal/mocks/usecase"
	"account/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*AccountHandler, *mockUsecase.MockAccountUsecase) {
	uc := mockUsecase.NewMockAccountUsecase(t)
	cfg := &config.Config{Auth: &config.AuthConfig{Cookie: config.CookieConfig{Name: "token", Path: "/"}}}

	return NewAccountHandler(uc, cfg, slog.New(slog.NewTextHandler(io.Discard, nil))), uc
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func aliceView() *usecase.AccountView {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	return &usecase.AccountView{ID: "acc-1", Name: "Alice", Email: "a@x.com", CreatedAt: at, UpdatedAt: at}
}

func authenticated(c echo.Context) {
	deliverycontext.SetIdentity(c, entity.Identity{AccountID: "acc-1", Name: "Alice", Email: "a@x.com"})
}

func TestAccountHandler_Register(t *testing.T) {
	h, uc := newTestHandler(t)
	c, rec := newJSONContext(http.MethodPost, "/users/register", `{"name":"Alice","email":"a@x.com","password":"secret1"}`)

	uc.EXPECT().
		Register(mock.Anything, &usecase.RegisterInput{Name: "Alice", Email: "a@x.com", Password: "secret1"}).
		Return(aliceView(), nil)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	assert.Equal(t, "acc-1", data["id"])
	assert.NotContains(t, data, "passwordHash")
	assert.NotContains(t, data, "password")
}

func TestAccountHandler_Register_MalformedBody(t *testing.T) {
	h, _ := newTestHandler(t)
	c, _ := newJSONContext(http.MethodPost, "/users/register", `{"name":`)

	err := h.Register(c)

	assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))
}

func TestAccountHandler_Register_UsecaseError(t *testing.T) {
	h, uc := newTestHandler(t)
	c, _ := newJSONContext(http.MethodPost, "/users/register", `{"name":"Alice","email":"a@x.com","password":"secret1"}`)

	uc.EXPECT().Register(mock.Anything, mock.Anything).Return(nil, domainerrors.ErrAccountAlreadyExists)

	err := h.Register(c)

	assert.True(t, errors.Is(err, domainerrors.ErrAccountAlreadyExists))
}

func TestAccountHandler_Login_SetsCookie(t *testing.T) {
	h, uc := newTestHandler(t)
	c, rec := newJSONContext(http.MethodPost, "/users/auth/login", `{"email":"a@x.com","password":"secret1"}`)

	uc.EXPECT().
		Login(mock.Anything, &usecase.LoginInput{Email: "a@x.com", Password: "secret1"}).
		Return(&usecase.LoginOutput{Token: "signed.jwt.token", ExpiresIn: 30 * 24 * time.Hour, Account: aliceView()}, nil)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "signed.jwt.token")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "token", cookie.Name)
	assert.Equal(t, "signed.jwt.token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, 30*24*60*60, cookie.MaxAge)
	assert.Equal(t, "/", cookie.Path)
}

func TestAccountHandler_Login_Failure(t *testing.T) {
	h, uc := newTestHandler(t)
	c, rec := newJSONContext(http.MethodPost, "/users/auth/login", `{"email":"a@x.com","password":"nope"}`)

	uc.EXPECT().Login(mock.Anything, mock.Anything).Return(nil, domainerrors.ErrInvalidCredentials)

	err := h.Login(c)

	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	assert.Empty(t, rec.Result().Cookies())
}

func TestAccountHandler_Find(t *testing.T) {
	h, uc := newTestHandler(t)
	c, rec := newJSONContext(http.MethodGet, "/users/find", "")
	authenticated(c)

	uc.EXPECT().Find(mock.Anything, "acc-1").Return(aliceView(), nil)

	require.NoError(t, h.Find(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"a@x.com"`)
}

func TestAccountHandler_RequiresIdentity(t *testing.T) {
	h, _ := newTestHandler(t)

	for name, call := range map[string]func(echo.Context) error{
		"find":      h.Find,
		"update":    h.Update,
		"terminate": h.Terminate,
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newJSONContext(http.MethodGet, "/users/"+name, "")

			err := call(c)

			assert.True(t, errors.Is(err, domainerrors.ErrUnauthorized))
		})
	}
}

func TestAccountHandler_Update(t *testing.T) {
	h, uc := newTestHandler(t)
	c, rec := newJSONContext(http.MethodPut, "/users/update", `{"name":"Alice B","email":"a@x.com","password":"newpass1"}`)
	authenticated(c)

	updated := aliceView()
	updated.Name = "Alice B"
	uc.EXPECT().
		Update(mock.Anything, "acc-1", &usecase.UpdateInput{Name: "Alice B", Email: "a@x.com", Password: "newpass1"}).
		Return(updated, nil)

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Alice B"`)
}

func TestAccountHandler_Terminate_ClearsCookie(t *testing.T) {
	h, uc := newTestHandler(t)
	c, rec := newJSONContext(http.MethodDelete, "/users/terminate", "")
	authenticated(c)

	uc.EXPECT().Terminate(mock.Anything, "acc-1").Return(nil)

	require.NoError(t, h.Terminate(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User deleted successfully")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestAccountHandler_Terminate_AccountGone(t *testing.T) {
	h, uc := newTestHandler(t)
	c, rec := newJSONContext(http.MethodDelete, "/users/terminate", "")
	authenticated(c)

	uc.EXPECT().Terminate(mock.Anything, "acc-1").Return(domainerrors.ErrAccountNotFound)

	err := h.Terminate(c)

	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
	assert.Empty(t, rec.Result().Cookies())
}
