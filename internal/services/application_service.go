package services

import (
	"context"
	"mime/multipart"
	"strings"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	coverLetterMinLen = 50
	coverLetterMaxLen = 5000
)

// ResumeUploader stores a one-off resume file for a single application
// without touching the candidate's profile resume.
type ResumeUploader interface {
	StoreApplicationResume(ctx context.Context, userID string, file *multipart.FileHeader) (string, error)
}

type ApplicationService struct {
	applicationRepo  repositories.ApplicationRepository
	jobRepo          repositories.JobRepository
	userRepo         repositories.UserRepository
	resumeRepo       repositories.ResumeRepository
	notificationRepo repositories.NotificationRepository
	uploader         ResumeUploader
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	resumeRepo repositories.ResumeRepository,
	notificationRepo repositories.NotificationRepository,
	uploader ResumeUploader,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo:  applicationRepo,
		jobRepo:          jobRepo,
		userRepo:         userRepo,
		resumeRepo:       resumeRepo,
		notificationRepo: notificationRepo,
		uploader:         uploader,
	}
}

// Submit creates an application for (job, candidate). The steps run
// strictly in order: duplicate check, resume resolution, cover letter
// validation, application write, then the best-effort counter increment.
// The application write alone decides the reported outcome; a failed
// increment leaves an under-counted job, which is acceptable because the
// true count is always recoverable by re-querying applications by job.
func (s *ApplicationService) Submit(ctx context.Context, db *gorm.DB, req *dto.SubmitApplicationRequest) (*models.Application, error) {
	job, err := s.jobRepo.FindByID(db, req.JobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if job.Status != models.JobStatusActive {
		return nil, apperrors.ErrJobNotActive
	}

	// Step 1: duplicate check. Not a destructive failure; the caller
	// redirects to the "already applied" view.
	if _, err := s.applicationRepo.FindByJobAndCandidate(db, req.JobID, req.CandidateID); err == nil {
		return nil, apperrors.ErrAlreadyApplied
	} else if !apperrors.Is(err, repositories.ErrApplicationNotFound) {
		return nil, apperrors.InternalError(err)
	}

	candidate, err := s.userRepo.FindByID(db, req.CandidateID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	// Step 2: resume resolution. Fatal when neither an override file nor
	// a profile resume exists; no partial application is created.
	resumeURL, err := s.resolveResumeURL(ctx, db, candidate, req.ResumeOverride)
	if err != nil {
		return nil, err
	}

	// Step 3: cover letter validation.
	coverLetter := strings.TrimSpace(req.CoverLetter)
	if len(coverLetter) < coverLetterMinLen || len(coverLetter) > coverLetterMaxLen {
		return nil, apperrors.NewBadRequestError("Cover letter must be between 50 and 5000 characters")
	}

	// Step 4: persist with snapshot fields. The deterministic ID makes a
	// concurrent duplicate collide at the storage layer.
	application := &models.Application{
		ID:             models.ApplicationID(req.JobID, req.CandidateID),
		JobID:          job.ID,
		JobTitle:       job.Title,
		CandidateID:    candidate.ID,
		CandidateName:  candidate.Name,
		CandidateEmail: candidate.Email,
		CandidatePhone: candidate.Phone,
		InstituteID:    job.InstituteID,
		ResumeURL:      resumeURL,
		CoverLetter:    coverLetter,
		Status:         models.ApplicationStatusPending,
		Viewed:         false,
	}

	if err := s.applicationRepo.Create(db, application); err != nil {
		if apperrors.Is(err, repositories.ErrApplicationAlreadyExists) {
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, apperrors.InternalError(err)
	}

	// Step 5: advisory counter, best effort.
	if err := s.jobRepo.IncrementApplicationsCount(db, job.ID); err != nil {
		logger.CtxWithError(ctx, "failed to increment applications count", err, "job_id", job.ID)
	}

	if err := s.notificationRepo.CreateNewApplicationNotification(db, job.InstituteID, job.ID, job.Title, candidate.Name); err != nil {
		logger.CtxWithError(ctx, "failed to create application notification", err, "job_id", job.ID)
	}

	return application, nil
}

func (s *ApplicationService) resolveResumeURL(ctx context.Context, db *gorm.DB, candidate *models.User, override *multipart.FileHeader) (string, error) {
	if override != nil {
		url, err := s.uploader.StoreApplicationResume(ctx, candidate.ID, override)
		if err != nil {
			return "", apperrors.ExternalServiceError(err)
		}
		return url, nil
	}

	if candidate.Resume != nil && candidate.Resume.URL != "" {
		return candidate.Resume.URL, nil
	}

	resume, err := s.resumeRepo.FindByUser(db, candidate.ID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrResumeNotFound) {
			return "", apperrors.ErrResumeRequired
		}
		return "", apperrors.InternalError(err)
	}
	return resume.URL, nil
}

// UpdateStatus moves an application to any of the five statuses. No
// transition graph is enforced; the owning institute may move an
// application from any status to any other. Authorization checks the
// denormalized institute ID on the application itself.
func (s *ApplicationService) UpdateStatus(ctx context.Context, db *gorm.DB, applicationID string, newStatus models.ApplicationStatus, actorID string) error {
	if !models.ValidApplicationStatus(newStatus) {
		return apperrors.ErrInvalidStatus
	}

	application, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return apperrors.ErrApplicationNotFound
		}
		return apperrors.InternalError(err)
	}

	if application.InstituteID != actorID {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.applicationRepo.UpdateStatus(db, applicationID, newStatus); err != nil {
		return apperrors.InternalError(err)
	}

	if application.Status != newStatus {
		if err := s.notificationRepo.CreateApplicationStatusNotification(db, application.CandidateID, application.JobTitle, newStatus); err != nil {
			logger.CtxWithError(ctx, "failed to create status notification", err, "application_id", applicationID)
		}
	}

	return nil
}

// MarkViewed flags the application as seen by its institute.
func (s *ApplicationService) MarkViewed(db *gorm.DB, applicationID, actorID string) error {
	application, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return apperrors.ErrApplicationNotFound
		}
		return apperrors.InternalError(err)
	}

	if application.InstituteID != actorID {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.applicationRepo.MarkViewed(db, applicationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *ApplicationService) ListForCandidate(db *gorm.DB, candidateID, requesterID string) ([]dto.ApplicationResponse, error) {
	if candidateID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	applications, err := s.applicationRepo.FindByCandidate(db, candidateID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildApplicationResponses(applications), nil
}

func (s *ApplicationService) ListForInstitute(db *gorm.DB, instituteID, requesterID string) ([]dto.ApplicationResponse, error) {
	if instituteID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	applications, err := s.applicationRepo.FindByInstitute(db, instituteID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildApplicationResponses(applications), nil
}

func (s *ApplicationService) ListForJob(db *gorm.DB, jobID, requesterID string) ([]dto.ApplicationResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if job.InstituteID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	applications, err := s.applicationRepo.FindByJob(db, jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildApplicationResponses(applications), nil
}

func buildApplicationResponses(applications []models.Application) []dto.ApplicationResponse {
	responses := make([]dto.ApplicationResponse, 0, len(applications))
	for _, a := range applications {
		responses = append(responses, dto.ApplicationResponse{
			ID:             a.ID,
			JobID:          a.JobID,
			JobTitle:       a.JobTitle,
			CandidateID:    a.CandidateID,
			CandidateName:  a.CandidateName,
			CandidateEmail: a.CandidateEmail,
			CandidatePhone: a.CandidatePhone,
			InstituteID:    a.InstituteID,
			ResumeURL:      a.ResumeURL,
			CoverLetter:    a.CoverLetter,
			Status:         a.Status,
			Viewed:         a.Viewed,
			AppliedAt:      a.AppliedAt,
			UpdatedAt:      a.UpdatedAt,
		})
	}
	return responses
}
