package services

import (
	"context"
	"testing"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/email"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmailProvider struct {
	verifications []string
	resets        []string
}

func (p *recordingEmailProvider) Send(e *email.Email) error { return nil }

func (p *recordingEmailProvider) SendVerification(to string, token string) error {
	p.verifications = append(p.verifications, to)
	return nil
}

func (p *recordingEmailProvider) SendPasswordReset(to string, token string) error {
	p.resets = append(p.resets, to)
	return nil
}

func (p *recordingEmailProvider) Close() error { return nil }

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:    "Jane@Example.com",
		Password: "hunter22",
		Role:     models.UserRoleCandidate,
		Name:     "Jane Doe",
	}
}

func TestRegister(t *testing.T) {
	users := newStubUserRepo()
	mail := &recordingEmailProvider{}
	service := NewAuthService(users, mail)

	resp, err := service.Register(context.Background(), nil, registerRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	// Email is normalized to lowercase.
	assert.Equal(t, "jane@example.com", resp.User.Email)
	assert.Equal(t, []string{"jane@example.com"}, mail.verifications)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newStubUserRepo()
	service := NewAuthService(users, &recordingEmailProvider{})

	_, err := service.Register(context.Background(), nil, registerRequest())
	require.NoError(t, err)

	_, err = service.Register(context.Background(), nil, registerRequest())
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	service := NewAuthService(newStubUserRepo(), &recordingEmailProvider{})

	req := registerRequest()
	req.Role = models.UserRoleAdmin
	_, err := service.Register(context.Background(), nil, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidUserRole)
}

func TestLogin(t *testing.T) {
	users := newStubUserRepo()
	service := NewAuthService(users, &recordingEmailProvider{})
	_, err := service.Register(context.Background(), nil, registerRequest())
	require.NoError(t, err)

	resp, err := service.Login(context.Background(), nil, &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = service.Login(context.Background(), nil, &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Unknown accounts get the same error as wrong passwords.
	_, err = service.Login(context.Background(), nil, &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter22",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	users := newStubUserRepo()
	service := NewAuthService(users, &recordingEmailProvider{})
	registered, err := service.Register(context.Background(), nil, registerRequest())
	require.NoError(t, err)

	refreshed, err := service.Refresh(nil, &dto.RefreshRequest{RefreshToken: registered.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// The old token is dead after rotation.
	_, err = service.Refresh(nil, &dto.RefreshRequest{RefreshToken: registered.RefreshToken})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	users := newStubUserRepo()
	service := NewAuthService(users, &recordingEmailProvider{})
	registered, err := service.Register(context.Background(), nil, registerRequest())
	require.NoError(t, err)
	userID := registered.User.ID

	err = service.ChangePassword(nil, userID, &dto.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpassword",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	err = service.ChangePassword(nil, userID, &dto.ChangePasswordRequest{
		CurrentPassword: "hunter22",
		NewPassword:     "newpassword",
	})
	require.NoError(t, err)

	user := users.users[userID]
	assert.True(t, auth.CheckPasswordHash("newpassword", user.PasswordHash))
}

func TestPasswordResetDoesNotLeakAccounts(t *testing.T) {
	users := newStubUserRepo()
	mail := &recordingEmailProvider{}
	service := NewAuthService(users, mail)
	_, err := service.Register(context.Background(), nil, registerRequest())
	require.NoError(t, err)

	// Unknown email reports success and sends nothing.
	require.NoError(t, service.RequestPasswordReset(context.Background(), nil, "nobody@example.com"))
	assert.Empty(t, mail.resets)

	require.NoError(t, service.RequestPasswordReset(context.Background(), nil, "jane@example.com"))
	assert.Equal(t, []string{"jane@example.com"}, mail.resets)
}

func TestVerifyEmail(t *testing.T) {
	users := newStubUserRepo()
	service := NewAuthService(users, &recordingEmailProvider{})
	registered, err := service.Register(context.Background(), nil, registerRequest())
	require.NoError(t, err)

	user := users.users[registered.User.ID]
	require.NotEmpty(t, user.VerificationToken)

	require.NoError(t, service.VerifyEmail(nil, user.VerificationToken))
	assert.True(t, user.IsVerified)

	err = service.VerifyEmail(nil, "bogus-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
