package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hurdl/internal/cache"
	"hurdl/internal/config"
	"hurdl/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTooManyAttempts    = errors.New("too many failed attempts, please try again later")
)

// AttemptError is a failed login that has not yet reached the lockout
type AttemptError struct {
	Attempt int
	Max     int
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("invalid credentials, attempt %d of %d", e.Attempt, e.Max)
}

func (e *AttemptError) Unwrap() error {
	return ErrInvalidCredentials
}

// AuthService handles admin authentication for the HR dashboard
type AuthService struct {
	username     string
	passwordHash []byte
	jwtSecret    []byte
	tokenTTL     time.Duration
	maxAttempts  int
	window       time.Duration
	attempts     cache.AttemptCache
	logger       *zap.Logger
	now          func() time.Time
}

// NewAuthService creates a new auth service. When no password hash is
// configured the plain admin password is hashed once here.
func NewAuthService(cfg *config.Config, attempts cache.AttemptCache, logger *zap.Logger) (*AuthService, error) {
	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	}
	return &AuthService{
		username:     cfg.AdminUsername,
		passwordHash: hash,
		jwtSecret:    []byte(cfg.JWTSecret),
		tokenTTL:     cfg.TokenTTL,
		maxAttempts:  cfg.MaxLoginAttempts,
		window:       cfg.LockoutWindow,
		attempts:     attempts,
		logger:       logger,
		now:          time.Now,
	}, nil
}

// Login validates credentials and returns a signed admin token. Failures are
// counted per username; the failure that reaches the limit returns
// ErrTooManyAttempts and starts the count over.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	if username == s.username && bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil {
		if err := s.attempts.Reset(ctx, username); err != nil {
			s.logger.Warn("failed to reset login attempts", zap.Error(err))
		}
		return s.issueToken(username)
	}

	n, err := s.attempts.Fail(ctx, username, s.window)
	if err != nil {
		s.logger.Warn("failed to record login attempt", zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if int(n) >= s.maxAttempts {
		if err := s.attempts.Reset(ctx, username); err != nil {
			s.logger.Warn("failed to reset login attempts", zap.Error(err))
		}
		s.logger.Warn("admin login locked out", zap.String("username", username))
		return nil, ErrTooManyAttempts
	}
	return nil, &AttemptError{Attempt: int(n), Max: s.maxAttempts}
}

func (s *AuthService) issueToken(username string) (*model.LoginResponse, error) {
	now := s.now()
	expires := now.Add(s.tokenTTL)
	claims := &model.AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:     tokenString,
		ExpiresAt: expires,
	}, nil
}

// ValidateAdminToken validates an admin JWT and returns claims
func (s *AuthService) ValidateAdminToken(tokenString string) (*model.AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.AdminClaims)
	if !ok || !token.Valid || claims.Username != s.username {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
