package repositories

import (
	"errors"
	"sort"
	"time"

	"jobportal_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound      = errors.New("application not found")
	ErrApplicationAlreadyExists = errors.New("application already exists for this job and candidate")
)

type ApplicationRepository interface {
	Create(db *gorm.DB, application *models.Application) error
	FindByID(db *gorm.DB, id string) (*models.Application, error)
	FindByJobAndCandidate(db *gorm.DB, jobID, candidateID string) (*models.Application, error)
	FindByCandidate(db *gorm.DB, candidateID string) ([]models.Application, error)
	FindByInstitute(db *gorm.DB, instituteID string) ([]models.Application, error)
	FindByJob(db *gorm.DB, jobID string) ([]models.Application, error)
	UpdateStatus(db *gorm.DB, applicationID string, status models.ApplicationStatus) error
	MarkViewed(db *gorm.DB, applicationID string) error
	CountByJob(db *gorm.DB, jobID string) (int64, error)
	DeleteByJob(db *gorm.DB, jobID string) error
	DeleteByCandidate(db *gorm.DB, candidateID string) error
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, application *models.Application) error {
	if err := db.Create(application).Error; err != nil {
		// The deterministic (jobID, candidateID) primary key turns a
		// concurrent duplicate apply into a key collision here.
		if isDuplicateKey(err) {
			return ErrApplicationAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	var application models.Application
	err := db.First(&application, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindByJobAndCandidate(db *gorm.DB, jobID, candidateID string) (*models.Application, error) {
	var application models.Application
	err := db.First(&application, "job_id = ? AND candidate_id = ?", jobID, candidateID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindByCandidate(db *gorm.DB, candidateID string) ([]models.Application, error) {
	return r.findOrdered(db, "candidate_id = ?", candidateID)
}

func (r *ApplicationRepositoryImpl) FindByInstitute(db *gorm.DB, instituteID string) ([]models.Application, error) {
	return r.findOrdered(db, "institute_id = ?", instituteID)
}

func (r *ApplicationRepositoryImpl) FindByJob(db *gorm.DB, jobID string) ([]models.Application, error) {
	return r.findOrdered(db, "job_id = ?", jobID)
}

// findOrdered fetches applications matching the filter, newest first. The
// store may reject the compound filter+order query at runtime (missing
// index), so a failed ordered query is retried unordered and sorted here.
func (r *ApplicationRepositoryImpl) findOrdered(db *gorm.DB, cond string, arg interface{}) ([]models.Application, error) {
	var applications []models.Application
	err := db.Where(cond, arg).Order("applied_at DESC").Find(&applications).Error
	if err == nil {
		return applications, nil
	}

	applications = nil
	if err := db.Where(cond, arg).Find(&applications).Error; err != nil {
		return nil, err
	}
	sortApplicationsByAppliedAt(applications)
	return applications, nil
}

func sortApplicationsByAppliedAt(applications []models.Application) {
	sort.Slice(applications, func(i, j int) bool {
		return applications[i].AppliedAt.After(applications[j].AppliedAt)
	})
}

func (r *ApplicationRepositoryImpl) UpdateStatus(db *gorm.DB, applicationID string, status models.ApplicationStatus) error {
	result := db.Model(&models.Application{}).Where("id = ?", applicationID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) MarkViewed(db *gorm.DB, applicationID string) error {
	result := db.Model(&models.Application{}).Where("id = ?", applicationID).
		UpdateColumn("viewed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// CountByJob recomputes the true application count for a job. Callers
// prefer this over the advisory Job.ApplicationsCount when precision
// matters.
func (r *ApplicationRepositoryImpl) CountByJob(db *gorm.DB, jobID string) (int64, error) {
	var count int64
	err := db.Model(&models.Application{}).Where("job_id = ?", jobID).Count(&count).Error
	return count, err
}

func (r *ApplicationRepositoryImpl) DeleteByJob(db *gorm.DB, jobID string) error {
	return db.Delete(&models.Application{}, "job_id = ?", jobID).Error
}

func (r *ApplicationRepositoryImpl) DeleteByCandidate(db *gorm.DB, candidateID string) error {
	return db.Delete(&models.Application{}, "candidate_id = ?", candidateID).Error
}
