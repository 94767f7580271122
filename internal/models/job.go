package models

import (
	"time"

	"gorm.io/datatypes"
)

type Job struct {
	ID          string `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	InstituteID string `gorm:"not null;index" json:"institute_id"`

	// Denormalized owner fields captured at creation.
	InstituteName  string `json:"institute_name"`
	InstituteEmail string `json:"institute_email"`

	Title           string         `gorm:"not null" json:"title"`
	Description     string         `gorm:"not null" json:"description"`
	Location        string         `gorm:"not null" json:"location"`
	Salary          string         `json:"salary"`
	JobType         string         `json:"job_type"`
	ExperienceLevel string         `json:"experience_level"`
	EducationLevel  string         `json:"education_level"`
	Vacancies       int            `gorm:"default:1" json:"vacancies"`
	Deadline        *time.Time     `json:"deadline"`
	ContactEmail    string         `json:"contact_email"`
	ContactPhone    string         `json:"contact_phone"`
	Tags            datatypes.JSON `gorm:"type:jsonb" json:"tags"`

	// Advisory counters. Increment-only; the institute listing recomputes
	// the real application count by query.
	ApplicationsCount int `gorm:"default:0" json:"applications_count"`
	Views             int `gorm:"default:0" json:"views"`

	Status    JobStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
