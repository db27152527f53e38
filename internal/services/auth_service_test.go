package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrail/bootcamp-service/internal/events"
	"github.com/devtrail/bootcamp-service/internal/mailer"
	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/utils"
)

func newAuthFixture(t *testing.T) (*fakeRepository, *mailer.MockMailer, AuthService) {
	t.Helper()
	repo := newFakeRepository()
	mock := mailer.NewMockMailer()
	svc := NewAuthService(repo, mock, events.NewMockEventPublisher(testLogger()), testLogger(), testValidator())
	return repo, mock, svc
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "password123",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to the user role and hashes the password", func(t *testing.T) {
		_, _, svc := newAuthFixture(t)

		user, err := svc.Register(ctx, registerRequest())
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.NotEqual(t, "password123", user.Password)
		assert.True(t, utils.VerifyPassword(user.Password, "password123"))
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, _, svc := newAuthFixture(t)
		_, err := svc.Register(ctx, registerRequest())
		require.NoError(t, err)
		_, err = svc.Register(ctx, registerRequest())
		assert.ErrorIs(t, err, ErrDuplicateValue)
	})

	t.Run("admin role cannot be self-assigned", func(t *testing.T) {
		_, _, svc := newAuthFixture(t)
		req := registerRequest()
		req.Role = "admin"
		_, err := svc.Register(ctx, req)
		assert.Error(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newAuthFixture(t)

	registered, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(ctx, &LoginRequest{Email: "john@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Email: "john@example.com", Password: "nope123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email maps to the same error", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Email: "ghost@example.com", Password: "password123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newAuthFixture(t)

	user, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		_, err := svc.UpdatePassword(ctx, user.ID, &UpdatePasswordRequest{
			CurrentPassword: "wrong", NewPassword: "fresh12345",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("changes the stored hash", func(t *testing.T) {
		_, err := svc.UpdatePassword(ctx, user.ID, &UpdatePasswordRequest{
			CurrentPassword: "password123", NewPassword: "fresh12345",
		})
		require.NoError(t, err)

		_, err = svc.Login(ctx, &LoginRequest{Email: "john@example.com", Password: "fresh12345"})
		assert.NoError(t, err)
	})
}

func TestAuthService_ForgotPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a hash and mails the raw token", func(t *testing.T) {
		repo, mock, svc := newAuthFixture(t)
		user, err := svc.Register(ctx, registerRequest())
		require.NoError(t, err)

		err = svc.ForgotPassword(ctx, &ForgotPasswordRequest{Email: "john@example.com"}, "https://api.example.com/api/v1/auth/resetpassword")
		require.NoError(t, err)

		stored := repo.users.items[user.ID]
		require.NotNil(t, stored.ResetPasswordToken)
		require.NotNil(t, stored.ResetPasswordExpire)

		msg, ok := mock.Last()
		require.True(t, ok)
		assert.Equal(t, "john@example.com", msg.To)
		// The mailed link must carry the raw token, never the stored hash.
		assert.NotContains(t, msg.Body, *stored.ResetPasswordToken)
		assert.Contains(t, msg.Body, "https://api.example.com/api/v1/auth/resetpassword/")
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, svc := newAuthFixture(t)
		err := svc.ForgotPassword(ctx, &ForgotPasswordRequest{Email: "ghost@example.com"}, "base")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("delivery failure clears the pending token", func(t *testing.T) {
		repo, mock, svc := newAuthFixture(t)
		user, err := svc.Register(ctx, registerRequest())
		require.NoError(t, err)

		mock.Err = errors.New("smtp down")
		err = svc.ForgotPassword(ctx, &ForgotPasswordRequest{Email: "john@example.com"}, "base")
		assert.ErrorIs(t, err, ErrEmailNotSent)

		stored := repo.users.items[user.ID]
		assert.Nil(t, stored.ResetPasswordToken)
		assert.Nil(t, stored.ResetPasswordExpire)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	repo, mock, svc := newAuthFixture(t)

	user, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	err = svc.ForgotPassword(ctx, &ForgotPasswordRequest{Email: "john@example.com"}, "https://x/resetpassword")
	require.NoError(t, err)

	msg, ok := mock.Last()
	require.True(t, ok)
	// The raw token is the last path segment of the mailed link.
	link := msg.Body[len(msg.Body)-40:]

	t.Run("valid token resets the password once", func(t *testing.T) {
		reset, err := svc.ResetPassword(ctx, link, &ResetPasswordRequest{Password: "brandnew1"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, reset.ID)

		stored := repo.users.items[user.ID]
		assert.Nil(t, stored.ResetPasswordToken)
		assert.Nil(t, stored.ResetPasswordExpire)

		_, err = svc.Login(ctx, &LoginRequest{Email: "john@example.com", Password: "brandnew1"})
		assert.NoError(t, err)
	})

	t.Run("token is single use", func(t *testing.T) {
		_, err := svc.ResetPassword(ctx, link, &ResetPasswordRequest{Password: "again123"})
		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ResetPassword(ctx, "nothex", &ResetPasswordRequest{Password: "again123"})
		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})
}
