package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"munch/config"
	"munch/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthMiddleware(t *testing.T) *AuthMiddleware {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return NewAuthMiddleware(tokenSvc)
}

func newAccessToken(t *testing.T, roles []string) (string, uuid.UUID) {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	userID := uuid.New()
	accessToken, _, err := tokenSvc.GenerateTokens(userID, roles)
	require.NoError(t, err)

	return accessToken, userID
}

func invokeAuthenticated(t *testing.T, m *AuthMiddleware, authHeader string) (echo.Context, *httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	err := m.Authenticate(next)(c)

	return c, rec, err
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	m := newTestAuthMiddleware(t)
	token, userID := newAccessToken(t, []string{"user", "admin"})

	c, rec, err := invokeAuthenticated(t, m, "Bearer "+token)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	gotID, ok := UserID(c)
	require.True(t, ok)
	assert.Equal(t, userID, gotID)
	assert.True(t, HasRole(c, "admin"))
	assert.False(t, HasRole(c, "merchant"))
}

func TestAuthMiddleware_Authenticate_MissingHeader(t *testing.T) {
	m := newTestAuthMiddleware(t)

	_, rec, err := invokeAuthenticated(t, m, "")

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_Authenticate_NotBearer(t *testing.T) {
	m := newTestAuthMiddleware(t)

	_, rec, err := invokeAuthenticated(t, m, "Basic dXNlcjpwYXNz")

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_Authenticate_GarbageToken(t *testing.T) {
	m := newTestAuthMiddleware(t)

	_, rec, err := invokeAuthenticated(t, m, "Bearer not.a.token")

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	m := newTestAuthMiddleware(t)

	e := echo.New()
	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	// With the role present the request passes through.
	req := httptest.NewRequest(http.MethodGet, "/admin/statistics", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyRoles, []string{"user", "admin"})

	require.NoError(t, m.RequireRole("admin")(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Without the role the request is rejected.
	req = httptest.NewRequest(http.MethodGet, "/admin/statistics", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set(ContextKeyRoles, []string{"user"})

	require.NoError(t, m.RequireRole("admin")(next)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
