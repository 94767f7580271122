package services

import (
	"context"
	"encoding/json"
	"strings"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo         repositories.UserRepository
	resumeRepo       repositories.ResumeRepository
	jobRepo          repositories.JobRepository
	applicationRepo  repositories.ApplicationRepository
	notificationRepo repositories.NotificationRepository
	paymentRepo      repositories.PaymentRepository
}

func NewUserService(
	userRepo repositories.UserRepository,
	resumeRepo repositories.ResumeRepository,
	jobRepo repositories.JobRepository,
	applicationRepo repositories.ApplicationRepository,
	notificationRepo repositories.NotificationRepository,
	paymentRepo repositories.PaymentRepository,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		resumeRepo:       resumeRepo,
		jobRepo:          jobRepo,
		applicationRepo:  applicationRepo,
		notificationRepo: notificationRepo,
		paymentRepo:      paymentRepo,
	}
}

func (s *UserService) GetProfile(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return buildUserResponse(user), nil
}

func (s *UserService) UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.Education != nil {
		fields["education"] = *req.Education
	}
	if req.Experience != nil {
		fields["experience"] = *req.Experience
	}
	if req.Skills != nil {
		data, _ := json.Marshal(req.Skills)
		fields["skills"] = datatypes.JSON(data)
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Website != nil {
		fields["website"] = *req.Website
	}

	if len(fields) > 0 {
		if err := s.userRepo.Updates(db, userID, fields); err != nil {
			if apperrors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, apperrors.InternalError(err)
		}
	}

	return s.GetProfile(db, userID)
}

// DeleteAccount removes the user and everything hanging off it. For an
// institute that includes its jobs and their applications; for a
// candidate, the applications it submitted.
func (s *UserService) DeleteAccount(ctx context.Context, db *gorm.DB, userID string) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if user.Role == models.UserRoleInstitute {
		jobs, err := s.jobRepo.FindByInstitute(db, userID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		for _, job := range jobs {
			if err := s.applicationRepo.DeleteByJob(db, job.ID); err != nil {
				return apperrors.InternalError(err)
			}
			if err := s.jobRepo.Delete(db, job.ID); err != nil {
				return apperrors.InternalError(err)
			}
		}
	} else {
		if err := s.applicationRepo.DeleteByCandidate(db, userID); err != nil {
			return apperrors.InternalError(err)
		}
	}

	if err := s.resumeRepo.DeleteByUser(db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.notificationRepo.DeleteUserNotifications(db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.paymentRepo.DeleteByUser(db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.DeleteUserRefreshTokens(db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.Delete(db, userID); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "account deleted", "user_id", userID, "role", user.Role)
	return nil
}

func buildUserResponse(user *models.User) *dto.UserResponse {
	var skills []string
	if len(user.Skills) > 0 {
		_ = json.Unmarshal(user.Skills, &skills)
	}

	resp := &dto.UserResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Role:               user.Role,
		Name:               user.Name,
		Phone:              user.Phone,
		Location:           user.Location,
		Education:          user.Education,
		Experience:         user.Experience,
		Skills:             skills,
		Bio:                user.Bio,
		Website:            user.Website,
		HasPaid:            user.HasPaid,
		SubscriptionActive: user.SubscriptionActive,
		SubscriptionPlan:   user.SubscriptionPlan,
		SubscriptionExpiry: user.SubscriptionExpiry,
		PaymentStatus:      user.PaymentStatus,
		CreatedAt:          user.CreatedAt,
	}
	if user.Resume != nil {
		resp.ResumeURL = user.Resume.URL
	}
	return resp
}
