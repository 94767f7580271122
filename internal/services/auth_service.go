package services

import (
	"context"
	"strings"
	"time"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/email"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	refreshTokenTTL = 30 * 24 * time.Hour
	resetTokenTTL   = 1 * time.Hour
)

type AuthService struct {
	userRepo      repositories.UserRepository
	emailProvider email.Provider
}

func NewAuthService(userRepo repositories.UserRepository, emailProvider email.Provider) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		emailProvider: emailProvider,
	}
}

// Register creates an account and sends the verification mail. The mail
// is best effort; registration succeeds without it.
func (s *AuthService) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.LoginResponse, error) {
	if req.Role != models.UserRoleCandidate && req.Role != models.UserRoleInstitute {
		return nil, apperrors.ErrInvalidUserRole
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:             strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:      hash,
		Role:              req.Role,
		Status:            models.UserStatusActive,
		Name:              strings.TrimSpace(req.Name),
		Phone:             req.Phone,
		Location:          req.Location,
		VerificationToken: auth.GenerateRandomToken(),
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.emailProvider.SendVerification(user.Email, user.VerificationToken); err != nil {
		logger.CtxWithError(ctx, "failed to send verification email", err, "user_id", user.ID)
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return s.issueTokens(db, user)
}

func (s *AuthService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.CtxWarn(ctx, "login rejected", "user_id", user.ID, "security", true)
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.NewForbiddenError("Account suspended")
	}

	return s.issueTokens(db, user)
}

// Refresh rotates the refresh token and issues a fresh access token.
func (s *AuthService) Refresh(db *gorm.DB, req *dto.RefreshRequest) (*dto.LoginResponse, error) {
	stored, err := s.userRepo.FindRefreshToken(db, req.RefreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(db, stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if err := s.userRepo.DeleteRefreshToken(db, req.RefreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(db, user)
}

// Logout invalidates all refresh tokens for the user.
func (s *AuthService) Logout(db *gorm.DB, userID string) error {
	if err := s.userRepo.DeleteUserRefreshTokens(db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthService) VerifyEmail(db *gorm.DB, token string) error {
	user, err := s.userRepo.FindByVerificationToken(db, token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	return s.updateOrInternal(db, user.ID, map[string]interface{}{
		"is_verified":        true,
		"verification_token": "",
	})
}

// RequestPasswordReset always reports success so the endpoint does not
// leak which emails are registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, db *gorm.DB, reqEmail string) error {
	user, err := s.userRepo.FindByEmail(db, reqEmail)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	token := auth.GenerateRandomToken()
	exp := time.Now().Add(resetTokenTTL)
	if err := s.updateOrInternal(db, user.ID, map[string]interface{}{
		"reset_token":     token,
		"reset_token_exp": exp,
	}); err != nil {
		return err
	}

	if err := s.emailProvider.SendPasswordReset(user.Email, token); err != nil {
		logger.CtxWithError(ctx, "failed to send reset email", err, "user_id", user.ID)
	}
	return nil
}

func (s *AuthService) ResetPassword(db *gorm.DB, req *dto.ResetPasswordRequest) error {
	user, err := s.userRepo.FindByResetToken(db, req.Token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	if user.ResetTokenExp == nil || user.ResetTokenExp.Before(time.Now()) {
		return apperrors.ErrInvalidToken
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.updateOrInternal(db, user.ID, map[string]interface{}{
		"password_hash":   hash,
		"reset_token":     "",
		"reset_token_exp": nil,
	}); err != nil {
		return err
	}

	// A reset invalidates every open session.
	return s.Logout(db, user.ID)
}

func (s *AuthService) ChangePassword(db *gorm.DB, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	return s.updateOrInternal(db, userID, map[string]interface{}{"password_hash": hash})
}

func (s *AuthService) issueTokens(db *gorm.DB, user *models.User) (*dto.LoginResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken := &models.RefreshToken{
		UserID:    user.ID,
		Token:     auth.GenerateRandomToken(),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.userRepo.CreateRefreshToken(db, refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		User:         buildUserResponse(user),
	}, nil
}

func (s *AuthService) updateOrInternal(db *gorm.DB, userID string, fields map[string]interface{}) error {
	if err := s.userRepo.Updates(db, userID, fields); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
