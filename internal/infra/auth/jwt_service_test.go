package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munch/config"
	"munch/internal/domain/entity"
)

func newTestTokenService(t *testing.T) *jwtService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "access-secret-for-tests"
	cfg.SecretKey.Refresh = "refresh-secret-for-tests"

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	return svc.(*jwtService)
}

func TestNewJWTService_RequiresSecrets(t *testing.T) {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "only-access"

	_, err := NewJWTService(cfg)
	assert.Error(t, err)
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	svc := newTestTokenService(t)
	userID := uuid.New()
	roles := []string{entity.RoleUser.String()}

	accessToken, refreshToken, err := svc.GenerateTokens(userID, roles)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	claims, err := svc.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, roles, claims.Roles)
	assert.Equal(t, tokenTypeAccess, claims.Type)

	refreshClaims, err := svc.ValidateRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, refreshClaims.UserID)
	assert.Empty(t, refreshClaims.Roles)
}

func TestJWTService_RejectsCrossTypeTokens(t *testing.T) {
	svc := newTestTokenService(t)

	accessToken, refreshToken, err := svc.GenerateTokens(uuid.New(), nil)
	require.NoError(t, err)

	// An access token must not pass refresh validation and vice versa.
	_, err = svc.ValidateRefreshToken(accessToken)
	assert.Error(t, err)

	_, err = svc.ValidateAccessToken(refreshToken)
	assert.Error(t, err)
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	svc := newTestTokenService(t)

	accessToken, _, err := svc.GenerateTokens(uuid.New(), nil)
	require.NoError(t, err)

	tampered := accessToken + "x"
	_, err = svc.ValidateAccessToken(tampered)
	assert.Error(t, err)
}

func TestJWTService_RejectsTokenSignedWithOtherSecret(t *testing.T) {
	svc := newTestTokenService(t)

	otherCfg := &config.Config{}
	otherCfg.SecretKey.Access = "different-access-secret"
	otherCfg.SecretKey.Refresh = "different-refresh-secret"
	other, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	accessToken, _, err := other.GenerateTokens(uuid.New(), nil)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(accessToken)
	assert.Error(t, err)
}

func TestJWTService_HashToken(t *testing.T) {
	svc := newTestTokenService(t)

	hash := svc.HashToken("raw-refresh-token")
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, svc.HashToken("raw-refresh-token"))
	assert.NotEqual(t, hash, svc.HashToken("other-token"))
}
