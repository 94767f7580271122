package repositories

import (
	"errors"
	"time"

	"jobportal_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

type JobSearchCriteria struct {
	Query       string `form:"q"`
	Location    string `form:"location"`
	JobType     string `form:"job_type"`
	InstituteID string `form:"institute_id"`
	Status      string `form:"status"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id string) (*models.Job, error)
	Update(db *gorm.DB, job *models.Job) error
	UpdateStatus(db *gorm.DB, jobID string, status models.JobStatus) error
	Delete(db *gorm.DB, jobID string) error
	FindByInstitute(db *gorm.DB, instituteID string) ([]models.Job, error)
	FindActive(db *gorm.DB, limit int) ([]models.Job, error)
	Search(db *gorm.DB, criteria JobSearchCriteria) ([]models.Job, int64, error)
	IncrementViews(db *gorm.DB, jobID string) error
	IncrementApplicationsCount(db *gorm.DB, jobID string) error
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	err := db.First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) Update(db *gorm.DB, job *models.Job) error {
	return db.Save(job).Error
}

func (r *JobRepositoryImpl) UpdateStatus(db *gorm.DB, jobID string, status models.JobStatus) error {
	result := db.Model(&models.Job{}).Where("id = ?", jobID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) Delete(db *gorm.DB, jobID string) error {
	result := db.Delete(&models.Job{}, "id = ?", jobID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) FindByInstitute(db *gorm.DB, instituteID string) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Where("institute_id = ?", instituteID).
		Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) FindActive(db *gorm.DB, limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Where("status = ?", models.JobStatusActive).
		Order("created_at DESC").Limit(limit).Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) Search(db *gorm.DB, criteria JobSearchCriteria) ([]models.Job, int64, error) {
	query := db.Model(&models.Job{})

	if criteria.Query != "" {
		like := "%" + criteria.Query + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if criteria.Location != "" {
		query = query.Where("location ILIKE ?", "%"+criteria.Location+"%")
	}
	if criteria.JobType != "" {
		query = query.Where("job_type = ?", criteria.JobType)
	}
	if criteria.InstituteID != "" {
		query = query.Where("institute_id = ?", criteria.InstituteID)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	} else {
		// Public search lists open jobs whose deadline has not passed.
		query = query.Where("status = ?", models.JobStatusActive).
			Where("(deadline IS NULL OR deadline >= ?)", time.Now())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	var jobs []models.Job
	err := query.Order("created_at DESC").
		Limit(criteria.PageSize).
		Offset((criteria.Page - 1) * criteria.PageSize).
		Find(&jobs).Error

	return jobs, total, err
}

func (r *JobRepositoryImpl) IncrementViews(db *gorm.DB, jobID string) error {
	return db.Model(&models.Job{}).Where("id = ?", jobID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *JobRepositoryImpl) IncrementApplicationsCount(db *gorm.DB, jobID string) error {
	return db.Model(&models.Job{}).Where("id = ?", jobID).
		UpdateColumn("applications_count", gorm.Expr("applications_count + 1")).Error
}
