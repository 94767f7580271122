package dto

import (
	"time"

	"jobportal_backend/internal/models"
)

type CreateJobRequest struct {
	Title           string     `json:"title" validate:"required"`
	Description     string     `json:"description" validate:"required"`
	Location        string     `json:"location" validate:"required"`
	Salary          string     `json:"salary"`
	JobType         string     `json:"job_type"`
	ExperienceLevel string     `json:"experience_level"`
	EducationLevel  string     `json:"education_level"`
	Vacancies       int        `json:"vacancies" validate:"omitempty,min=1"`
	Deadline        *time.Time `json:"deadline"`
	ContactEmail    string     `json:"contact_email" validate:"required,email"`
	ContactPhone    string     `json:"contact_phone"`
	Tags            []string   `json:"tags"`
}

type UpdateJobRequest struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Location        *string    `json:"location,omitempty"`
	Salary          *string    `json:"salary,omitempty"`
	JobType         *string    `json:"job_type,omitempty"`
	ExperienceLevel *string    `json:"experience_level,omitempty"`
	EducationLevel  *string    `json:"education_level,omitempty"`
	Vacancies       *int       `json:"vacancies,omitempty" validate:"omitempty,min=1"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	ContactEmail    *string    `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone    *string    `json:"contact_phone,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
}

type SetJobStatusRequest struct {
	Status models.JobStatus `json:"status" validate:"required,oneof=active closed"`
}

type JobResponse struct {
	ID                string           `json:"id"`
	InstituteID       string           `json:"institute_id"`
	InstituteName     string           `json:"institute_name"`
	InstituteEmail    string           `json:"institute_email"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Location          string           `json:"location"`
	Salary            string           `json:"salary,omitempty"`
	JobType           string           `json:"job_type,omitempty"`
	ExperienceLevel   string           `json:"experience_level,omitempty"`
	EducationLevel    string           `json:"education_level,omitempty"`
	Vacancies         int              `json:"vacancies"`
	Deadline          *time.Time       `json:"deadline,omitempty"`
	ContactEmail      string           `json:"contact_email"`
	ContactPhone      string           `json:"contact_phone,omitempty"`
	Tags              []string         `json:"tags,omitempty"`
	ApplicationsCount int              `json:"applications_count"`
	Views             int              `json:"views"`
	Status            models.JobStatus `json:"status"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// InstituteJobResponse is the owner's view: ApplicantCount is recomputed
// by query, not read from the advisory counter.
type InstituteJobResponse struct {
	JobResponse
	ApplicantCount int64 `json:"applicant_count"`
}
