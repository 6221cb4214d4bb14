package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lyzr/sequences/cmd/sequences/auth"
	"github.com/lyzr/sequences/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guardedEcho(tokens *auth.TokenManager) *echo.Echo {
	e := echo.New()
	g := e.Group("")
	g.Use(BearerGuard(tokens))
	g.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return e
}

func newTokens(expiry time.Duration) *auth.TokenManager {
	return auth.NewTokenManager(config.AuthConfig{
		JWTSecret:    "test-secret",
		JWTExpiry:    expiry,
		TokenSubject: "api-client",
	})
}

func TestBearerGuard_ValidToken(t *testing.T) {
	tokens := newTokens(10 * time.Minute)
	e := guardedEcho(tokens)

	token, err := tokens.Issue()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerGuard_MissingHeader(t *testing.T) {
	e := guardedEcho(newTokens(10 * time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "bearer token required")
}

func TestBearerGuard_MalformedHeader(t *testing.T) {
	tokens := newTokens(10 * time.Minute)
	e := guardedEcho(tokens)

	token, err := tokens.Issue()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Token "+token) // wrong scheme
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerGuard_ExpiredToken(t *testing.T) {
	expired := newTokens(-1 * time.Minute)
	e := guardedEcho(expired)

	token, err := expired.Issue()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired")
}

func TestBearerGuard_InvalidToken(t *testing.T) {
	e := guardedEcho(newTokens(10 * time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer garbage")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}
