package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powertune/garage/internal/utils"
)

const testSecret = "test-secret"

func newContext(t *testing.T, cookie string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/vehicles", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSessionAuth(t *testing.T) {
	t.Run("valid session", func(t *testing.T) {
		tok, err := utils.NewSessionToken(testSecret, 42, "jane", "user", 30)
		require.NoError(t, err)
		c, rec := newContext(t, tok.Token)

		called := false
		h := SessionAuth(testSecret)(func(c echo.Context) error {
			called = true
			assert.Equal(t, uint64(42), c.Get("user_id"))
			assert.Equal(t, "jane", c.Get("username"))
			assert.Equal(t, "user", c.Get("role"))
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, h(c))
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing cookie redirects to login", func(t *testing.T) {
		c, rec := newContext(t, "")
		called := false
		h := SessionAuth(testSecret)(func(c echo.Context) error {
			called = true
			return nil
		})
		require.NoError(t, h(c))
		assert.False(t, called)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("tampered token redirects to login", func(t *testing.T) {
		tok, err := utils.NewSessionToken("other-secret", 1, "admin", "admin", 30)
		require.NoError(t, err)
		c, rec := newContext(t, tok.Token)
		called := false
		h := SessionAuth(testSecret)(func(c echo.Context) error {
			called = true
			return nil
		})
		require.NoError(t, h(c))
		assert.False(t, called)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("expired token redirects to login", func(t *testing.T) {
		tok, err := utils.NewSessionToken(testSecret, 1, "jane", "user", -1)
		require.NoError(t, err)
		c, rec := newContext(t, tok.Token)
		called := false
		h := SessionAuth(testSecret)(func(c echo.Context) error {
			called = true
			return nil
		})
		require.NoError(t, h(c))
		assert.False(t, called)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("admin passes", func(t *testing.T) {
		c, rec := newContext(t, "")
		c.Set("role", "admin")
		called := false
		h := RequireAdmin()(func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, h(c))
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("plain user is redirected without mutation", func(t *testing.T) {
		c, rec := newContext(t, "")
		c.Set("role", "user")
		called := false
		h := RequireAdmin()(func(c echo.Context) error {
			called = true
			return nil
		})
		require.NoError(t, h(c))
		assert.False(t, called)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})

	t.Run("missing role is treated as non-admin", func(t *testing.T) {
		c, rec := newContext(t, "")
		called := false
		h := RequireAdmin()(func(c echo.Context) error {
			called = true
			return nil
		})
		require.NoError(t, h(c))
		assert.False(t, called)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}
