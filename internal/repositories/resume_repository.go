package repositories

import (
	"errors"

	"jobportal_backend/internal/models"

	"gorm.io/gorm"
)

var ErrResumeNotFound = errors.New("resume not found")

type ResumeRepository interface {
	Upsert(db *gorm.DB, resume *models.Resume) error
	FindByUser(db *gorm.DB, userID string) (*models.Resume, error)
	DeleteByUser(db *gorm.DB, userID string) error
}

type ResumeRepositoryImpl struct{}

func NewResumeRepository() ResumeRepository {
	return &ResumeRepositoryImpl{}
}

// Upsert creates the resume row or overwrites the existing one: a
// candidate owns at most one profile resume.
func (r *ResumeRepositoryImpl) Upsert(db *gorm.DB, resume *models.Resume) error {
	var existing models.Resume
	err := db.First(&existing, "user_id = ?", resume.UserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.Create(resume).Error
		}
		return err
	}

	resume.ID = existing.ID
	resume.CreatedAt = existing.CreatedAt
	return db.Save(resume).Error
}

func (r *ResumeRepositoryImpl) FindByUser(db *gorm.DB, userID string) (*models.Resume, error) {
	var resume models.Resume
	err := db.First(&resume, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, err
	}
	return &resume, nil
}

func (r *ResumeRepositoryImpl) DeleteByUser(db *gorm.DB, userID string) error {
	return db.Delete(&models.Resume{}, "user_id = ?", userID).Error
}
