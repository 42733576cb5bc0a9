package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hurdl/internal/cache"
	"hurdl/internal/config"
)

func newTestAuth(t *testing.T) *AuthService {
	_, client := newRedis(t)
	cfg := &config.Config{
		AdminUsername:    "admin",
		AdminPassword:    "hurdl2023",
		JWTSecret:        "secret",
		TokenTTL:         time.Hour,
		MaxLoginAttempts: 5,
		LockoutWindow:    15 * time.Minute,
	}
	svc, err := NewAuthService(cfg, cache.NewAttemptCache(client), zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	svc := newTestAuth(t)

	resp, err := svc.Login(context.Background(), "admin", "hurdl2023")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateAdminToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestAuthService_UsesConfiguredHash(t *testing.T) {
	_, client := newRedis(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := &config.Config{AdminUsername: "hr", AdminPasswordHash: string(hash), AdminPassword: "hurdl2023",
		JWTSecret: "secret", TokenTTL: time.Hour, MaxLoginAttempts: 5, LockoutWindow: time.Minute}
	svc, err := NewAuthService(cfg, cache.NewAttemptCache(client), zap.NewNop())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "hr", "hurdl2023")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "hr", "s3cret")
	assert.NoError(t, err)
}

func TestAuthService_FailedAttemptsThenLockout(t *testing.T) {
	svc := newTestAuth(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		_, err := svc.Login(ctx, "admin", "wrong")
		var attemptErr *AttemptError
		require.True(t, errors.As(err, &attemptErr))
		assert.Equal(t, i, attemptErr.Attempt)
		assert.Equal(t, 5, attemptErr.Max)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := svc.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// The count starts over after a lockout.
	_, err = svc.Login(ctx, "admin", "wrong")
	var attemptErr *AttemptError
	require.True(t, errors.As(err, &attemptErr))
	assert.Equal(t, 1, attemptErr.Attempt)
}

func TestAuthService_SuccessResetsAttempts(t *testing.T) {
	svc := newTestAuth(t)
	ctx := context.Background()

	_, _ = svc.Login(ctx, "admin", "wrong")
	_, _ = svc.Login(ctx, "admin", "wrong")
	_, err := svc.Login(ctx, "admin", "hurdl2023")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "admin", "wrong")
	var attemptErr *AttemptError
	require.True(t, errors.As(err, &attemptErr))
	assert.Equal(t, 1, attemptErr.Attempt)
}

func TestAuthService_ExpiredToken(t *testing.T) {
	svc := newTestAuth(t)
	resp, err := svc.Login(context.Background(), "admin", "hurdl2023")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateAdminToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RejectsForeignTokens(t *testing.T) {
	svc := newTestAuth(t)

	_, err := svc.ValidateAdminToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "admin",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := other.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateAdminToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
