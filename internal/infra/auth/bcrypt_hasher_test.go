package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munch/config"
	domainerrors "munch/internal/domain/errors"
)

func newTestHasher(strength *config.PasswordStrengthConfig) *bcryptHasher {
	cfg := &config.Config{
		Auth:             &config.AuthConfig{BcryptCost: 4},
		PasswordStrength: strength,
	}

	return NewBcryptHasher(cfg).(*bcryptHasher)
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := newTestHasher(nil)

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, hasher.Check("correct horse battery staple", hash))
	assert.False(t, hasher.Check("wrong password", hash))
}

func TestBcryptHasher_HashesAreSalted(t *testing.T) {
	hasher := newTestHasher(nil)

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_ValidatePasswordStrength_DefaultPolicy(t *testing.T) {
	hasher := newTestHasher(nil)

	assert.NoError(t, hasher.ValidatePasswordStrength("longenough"))

	err := hasher.ValidatePasswordStrength("short")
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PASSWORD_STRENGTH", appErr.ErrorCode())
}

func TestBcryptHasher_ValidatePasswordStrength_ConfiguredPolicy(t *testing.T) {
	hasher := newTestHasher(&config.PasswordStrengthConfig{
		MinLength:        10,
		MaxLength:        64,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumbers:   true,
		RequireSpecial:   true,
	})

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "meets all requirements", password: "Str0ng!Password", wantErr: false},
		{name: "too short", password: "Aa1!x", wantErr: true},
		{name: "missing uppercase", password: "weak1!password", wantErr: true},
		{name: "missing lowercase", password: "WEAK1!PASSWORD", wantErr: true},
		{name: "missing number", password: "Weak!Password", wantErr: true},
		{name: "missing special", password: "Weak1Password", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hasher.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
