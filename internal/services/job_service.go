package services

import (
	"context"
	"encoding/json"
	"strings"

	"jobportal_backend/internal/cache"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AccessGate decides whether a user may use paid features.
type AccessGate interface {
	RequireActive(ctx context.Context, db *gorm.DB, userID string) error
}

type JobService struct {
	jobRepo          repositories.JobRepository
	userRepo         repositories.UserRepository
	applicationRepo  repositories.ApplicationRepository
	notificationRepo repositories.NotificationRepository
	gate             AccessGate
	viewTracker      *cache.ViewTracker
}

func NewJobService(
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	applicationRepo repositories.ApplicationRepository,
	notificationRepo repositories.NotificationRepository,
	gate AccessGate,
	viewTracker *cache.ViewTracker,
) *JobService {
	return &JobService{
		jobRepo:          jobRepo,
		userRepo:         userRepo,
		applicationRepo:  applicationRepo,
		notificationRepo: notificationRepo,
		gate:             gate,
		viewTracker:      viewTracker,
	}
}

// Create posts a new job for the institute. Posting is a paid feature:
// the subscription gate runs before anything is written.
func (s *JobService) Create(ctx context.Context, db *gorm.DB, instituteID string, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	institute, err := s.userRepo.FindByID(db, instituteID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if institute.Role != models.UserRoleInstitute {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if err := s.gate.RequireActive(ctx, db, instituteID); err != nil {
		return nil, err
	}

	vacancies := req.Vacancies
	if vacancies < 1 {
		vacancies = 1
	}

	job := &models.Job{
		InstituteID:     institute.ID,
		InstituteName:   institute.Name,
		InstituteEmail:  institute.Email,
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		Location:        strings.TrimSpace(req.Location),
		Salary:          req.Salary,
		JobType:         req.JobType,
		ExperienceLevel: req.ExperienceLevel,
		EducationLevel:  req.EducationLevel,
		Vacancies:       vacancies,
		Deadline:        req.Deadline,
		ContactEmail:    strings.TrimSpace(req.ContactEmail),
		ContactPhone:    req.ContactPhone,
		Tags:            marshalTags(req.Tags),
		Status:          models.JobStatusActive,
	}

	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.userRepo.IncrementJobsPosted(db, instituteID); err != nil {
		logger.CtxWithError(ctx, "failed to increment jobs posted", err, "user_id", instituteID)
	}

	logger.CtxInfo(ctx, "job created", "job_id", job.ID, "institute_id", instituteID)
	return buildJobResponse(job), nil
}

// Get returns a job and, for viewers other than the owner, bumps the
// advisory view counter at most once per viewer per day.
func (s *JobService) Get(ctx context.Context, db *gorm.DB, jobID, viewerID string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if viewerID != job.InstituteID && s.viewTracker.ShouldCount(ctx, jobID, viewerID) {
		if err := s.jobRepo.IncrementViews(db, jobID); err != nil {
			logger.CtxWithError(ctx, "failed to increment views", err, "job_id", jobID)
		} else {
			job.Views++
		}
	}

	return buildJobResponse(job), nil
}

func (s *JobService) Update(db *gorm.DB, jobID, actorID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := s.findOwned(db, jobID, actorID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		job.Description = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		job.Location = strings.TrimSpace(*req.Location)
	}
	if req.Salary != nil {
		job.Salary = *req.Salary
	}
	if req.JobType != nil {
		job.JobType = *req.JobType
	}
	if req.ExperienceLevel != nil {
		job.ExperienceLevel = *req.ExperienceLevel
	}
	if req.EducationLevel != nil {
		job.EducationLevel = *req.EducationLevel
	}
	if req.Vacancies != nil {
		job.Vacancies = *req.Vacancies
	}
	if req.Deadline != nil {
		job.Deadline = req.Deadline
	}
	if req.ContactEmail != nil {
		job.ContactEmail = strings.TrimSpace(*req.ContactEmail)
	}
	if req.ContactPhone != nil {
		job.ContactPhone = *req.ContactPhone
	}
	if req.Tags != nil {
		job.Tags = marshalTags(req.Tags)
	}

	if err := s.jobRepo.Update(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildJobResponse(job), nil
}

// SetStatus opens or closes a job. Closing notifies every applicant,
// best effort.
func (s *JobService) SetStatus(ctx context.Context, db *gorm.DB, jobID, actorID string, status models.JobStatus) error {
	job, err := s.findOwned(db, jobID, actorID)
	if err != nil {
		return err
	}

	if err := s.jobRepo.UpdateStatus(db, jobID, status); err != nil {
		return apperrors.InternalError(err)
	}

	if status == models.JobStatusClosed && job.Status != models.JobStatusClosed {
		s.notifyJobClosed(ctx, db, job)
	}
	return nil
}

func (s *JobService) notifyJobClosed(ctx context.Context, db *gorm.DB, job *models.Job) {
	applications, err := s.applicationRepo.FindByJob(db, job.ID)
	if err != nil {
		logger.CtxWithError(ctx, "failed to load applicants for close notification", err, "job_id", job.ID)
		return
	}
	for _, a := range applications {
		data, _ := json.Marshal(map[string]string{"job_id": job.ID, "job_title": job.Title})
		err := s.notificationRepo.CreateNotification(db, &models.Notification{
			UserID:  a.CandidateID,
			Type:    repositories.NotificationTypeJobClosed,
			Title:   "Job closed",
			Message: "The job " + job.Title + " is no longer accepting applications",
			Data:    datatypes.JSON(data),
		})
		if err != nil {
			logger.CtxWithError(ctx, "failed to create job closed notification", err, "job_id", job.ID)
		}
	}
}

// Delete removes a job together with its applications.
func (s *JobService) Delete(ctx context.Context, db *gorm.DB, jobID, actorID string) error {
	if _, err := s.findOwned(db, jobID, actorID); err != nil {
		return err
	}

	if err := s.applicationRepo.DeleteByJob(db, jobID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.jobRepo.Delete(db, jobID); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job deleted", "job_id", jobID, "institute_id", actorID)
	return nil
}

// ListForInstitute is the owner's dashboard listing. The applicant count
// is recomputed per job instead of trusting the advisory counter.
func (s *JobService) ListForInstitute(db *gorm.DB, instituteID string) ([]dto.InstituteJobResponse, error) {
	jobs, err := s.jobRepo.FindByInstitute(db, instituteID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.InstituteJobResponse, 0, len(jobs))
	for i := range jobs {
		count, err := s.applicationRepo.CountByJob(db, jobs[i].ID)
		if err != nil {
			count = int64(jobs[i].ApplicationsCount)
		}
		responses = append(responses, dto.InstituteJobResponse{
			JobResponse:    *buildJobResponse(&jobs[i]),
			ApplicantCount: count,
		})
	}
	return responses, nil
}

// Search is the public listing. Only active jobs are returned unless the
// criteria asks otherwise.
func (s *JobService) Search(db *gorm.DB, criteria repositories.JobSearchCriteria) ([]dto.JobResponse, int64, error) {
	jobs, total, err := s.jobRepo.Search(db, criteria)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	responses := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, *buildJobResponse(&jobs[i]))
	}
	return responses, total, nil
}

func (s *JobService) findOwned(db *gorm.DB, jobID, actorID string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if job.InstituteID != actorID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return job, nil
}

func marshalTags(tags []string) datatypes.JSON {
	if len(tags) == 0 {
		return nil
	}
	data, _ := json.Marshal(tags)
	return datatypes.JSON(data)
}

func unmarshalTags(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var tags []string
	_ = json.Unmarshal(data, &tags)
	return tags
}

func buildJobResponse(job *models.Job) *dto.JobResponse {
	return &dto.JobResponse{
		ID:                job.ID,
		InstituteID:       job.InstituteID,
		InstituteName:     job.InstituteName,
		InstituteEmail:    job.InstituteEmail,
		Title:             job.Title,
		Description:       job.Description,
		Location:          job.Location,
		Salary:            job.Salary,
		JobType:           job.JobType,
		ExperienceLevel:   job.ExperienceLevel,
		EducationLevel:    job.EducationLevel,
		Vacancies:         job.Vacancies,
		Deadline:          job.Deadline,
		ContactEmail:      job.ContactEmail,
		ContactPhone:      job.ContactPhone,
		Tags:              unmarshalTags(job.Tags),
		ApplicationsCount: job.ApplicationsCount,
		Views:             job.Views,
		Status:            job.Status,
		CreatedAt:         job.CreatedAt,
		UpdatedAt:         job.UpdatedAt,
	}
}
