package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/C4st3ll4n/recipe-api/internal/middleware"
	"github.com/C4st3ll4n/recipe-api/internal/model"
	"github.com/C4st3ll4n/recipe-api/internal/repository/memory"
)

func setupAuth(t *testing.T) (*echo.Echo, string) {
	t.Helper()
	st := memory.New()
	ctx := context.Background()

	u := &model.User{Email: "cook@example.com", IsActive: true}
	require.NoError(t, st.Users().Create(ctx, u))
	tok := &model.AuthToken{UserID: u.ID, Key: "0123456789abcdef0123456789abcdef01234567"}
	require.NoError(t, st.Tokens().Create(ctx, tok))

	e := echo.New()
	e.GET("/whoami", func(c echo.Context) error {
		id, ok := middleware.UserID(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, echo.Map{"id": id})
	}, middleware.TokenAuth(st.Tokens(), st.Users()))
	return e, tok.Key
}

func get(e *echo.Echo, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTokenAuth(t *testing.T) {
	e, key := setupAuth(t)

	assert.Equal(t, http.StatusOK, get(e, "Token "+key).Code)
	assert.Equal(t, http.StatusUnauthorized, get(e, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(e, "Token ").Code)
	assert.Equal(t, http.StatusUnauthorized, get(e, "Token wrong-key").Code)
	// wrong scheme is refused even with a valid key
	assert.Equal(t, http.StatusUnauthorized, get(e, "Bearer "+key).Code)
}

func TestTokenAuthInactiveUser(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	u := &model.User{Email: "gone@example.com", IsActive: false}
	require.NoError(t, st.Users().Create(ctx, u))
	tok := &model.AuthToken{UserID: u.ID, Key: "ffffffffffffffffffffffffffffffffffffffff"}
	require.NoError(t, st.Tokens().Create(ctx, tok))

	e := echo.New()
	e.GET("/whoami", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, middleware.TokenAuth(st.Tokens(), st.Users()))

	assert.Equal(t, http.StatusUnauthorized, get(e, "Token "+tok.Key).Code)
}
