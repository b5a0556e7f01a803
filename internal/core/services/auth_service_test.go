package services

import (
	"context"
	"testing"
	"time"

	"bankhub/internal/adapters/persistence/models"
	"bankhub/internal/config"
	"bankhub/internal/core/domain"
	"bankhub/internal/pkg/jwt"
	"bankhub/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func gormNotFound() error { return gorm.ErrRecordNotFound }

func newAuthService(t *testing.T) (*AuthService, *mockUserRepo, *mockRefreshTokenRepo) {
	userRepo := new(mockUserRepo)
	refreshTokenRepo := new(mockRefreshTokenRepo)

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:           "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}

	return NewAuthService(userRepo, refreshTokenRepo, cfg), userRepo, refreshTokenRepo
}

func activeUser(t *testing.T) *models.User {
	t.Helper()
	hashed, err := password.Hash("right-password")
	require.NoError(t, err)
	return &models.User{
		ID:       3,
		Username: "alice",
		Email:    "alice@example.com",
		Password: hashed,
		Role:     domain.RoleCustomer,
		IsActive: true,
	}
}

func TestLogin(t *testing.T) {
	t.Run("issues a token pair and stores the refresh hash", func(t *testing.T) {
		svc, userRepo, refreshTokenRepo := newAuthService(t)

		userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeUser(t), nil)
		refreshTokenRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.RefreshToken) bool {
			return r.UserID == 3 && r.TokenHash != "" && r.ExpiresAt.After(time.Now())
		})).Return(nil)

		result, err := svc.Login(context.Background(), &LoginInput{
			Email:    "alice@example.com",
			Password: "right-password",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "alice", result.User.Username)

		claims, err := jwt.ValidateAccessToken(result.AccessToken, "access-secret")
		require.NoError(t, err)
		assert.Equal(t, "customer", claims.Role)
		refreshTokenRepo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, userRepo, _ := newAuthService(t)

		userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeUser(t), nil)

		_, err := svc.Login(context.Background(), &LoginInput{
			Email:    "alice@example.com",
			Password: "wrong-password",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email reads as invalid credentials", func(t *testing.T) {
		svc, userRepo, _ := newAuthService(t)

		userRepo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, gormNotFound())

		_, err := svc.Login(context.Background(), &LoginInput{
			Email:    "nobody@example.com",
			Password: "whatever-pass",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive user cannot login", func(t *testing.T) {
		svc, userRepo, _ := newAuthService(t)

		user := activeUser(t)
		user.IsActive = false
		userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil)

		_, err := svc.Login(context.Background(), &LoginInput{
			Email:    "alice@example.com",
			Password: "right-password",
		})
		assert.ErrorIs(t, err, ErrUserInactive)
	})
}

func TestRefreshRotation(t *testing.T) {
	t.Run("revokes the presented token and issues a new pair", func(t *testing.T) {
		svc, userRepo, refreshTokenRepo := newAuthService(t)

		refreshToken, err := jwt.GenerateRefreshToken(3, "token-id", "refresh-secret", 7)
		require.NoError(t, err)
		hash := password.HashToken(refreshToken)

		refreshTokenRepo.On("GetByTokenHash", mock.Anything, hash).Return(&models.RefreshToken{
			UserID:    3,
			TokenHash: hash,
			ExpiresAt: time.Now().Add(24 * time.Hour),
		}, nil)
		userRepo.On("GetByID", mock.Anything, uint(3)).Return(activeUser(t), nil)
		refreshTokenRepo.On("RevokeByTokenHash", mock.Anything, hash).Return(nil)
		refreshTokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)

		result, err := svc.Refresh(context.Background(), refreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, refreshToken, result.RefreshToken)
		refreshTokenRepo.AssertCalled(t, "RevokeByTokenHash", mock.Anything, hash)
	})

	t.Run("unknown hash reads as revoked", func(t *testing.T) {
		svc, _, refreshTokenRepo := newAuthService(t)

		refreshToken, err := jwt.GenerateRefreshToken(3, "token-id", "refresh-secret", 7)
		require.NoError(t, err)

		refreshTokenRepo.On("GetByTokenHash", mock.Anything, password.HashToken(refreshToken)).
			Return(nil, gormNotFound())

		_, err = svc.Refresh(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrTokenRevoked)
	})

	t.Run("garbage token is invalid", func(t *testing.T) {
		svc, _, _ := newAuthService(t)

		_, err := svc.Refresh(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
