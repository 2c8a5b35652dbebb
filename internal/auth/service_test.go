package auth

import (
	"context"
	"testing"

	"bitebase/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordIsHashedBeforeSaving(t *testing.T) {
	repo := NewInMemoryUserRepository()
	service := NewService(repo)

	password := "Password@123"

	_, err := service.Register(context.Background(), "Test User", "test@example.com", password, "")
	require.NoError(t, err)

	user := repo.users["test@example.com"]
	require.NotNil(t, user, "user not found")

	assert.NotEqual(t, password, user.Password, "password was stored in plain text")
	assert.Equal(t, RoleAnalyst, user.Role)
}

func TestRegister_Validation(t *testing.T) {
	service := NewService(NewInMemoryUserRepository())
	ctx := context.Background()

	_, err := service.Register(ctx, "", "a@example.com", "Password@123", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = service.Register(ctx, "A", "not-an-email", "Password@123", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = service.Register(ctx, "A", "a@example.com", "short", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = service.Register(ctx, "A", "a@example.com", "Password@123", RoleAdmin)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	service := NewService(NewInMemoryUserRepository())
	ctx := context.Background()

	_, err := service.Register(ctx, "A", "dup@example.com", "Password@123", RoleRestaurant)
	require.NoError(t, err)

	_, err = service.Register(ctx, "B", "DUP@example.com", "Password@123", "")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	service := NewService(NewInMemoryUserRepository())
	ctx := context.Background()

	registered, err := service.Register(ctx, "A", "a@example.com", "Password@123", RoleRestaurant)
	require.NoError(t, err)

	user, token, err := service.Login(ctx, "a@example.com", "Password@123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, RoleRestaurant, claims.Role)

	_, _, err = service.Login(ctx, "a@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = service.Login(ctx, "nobody@example.com", "Password@123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
