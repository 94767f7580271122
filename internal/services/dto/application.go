package dto

import (
	"mime/multipart"
	"time"

	"jobportal_backend/internal/models"
)

type SubmitApplicationRequest struct {
	JobID       string `json:"job_id" validate:"required"`
	CandidateID string `json:"-"`
	CoverLetter string `json:"cover_letter"`

	// Optional one-off resume used only for this application instead of
	// the profile resume.
	ResumeOverride *multipart.FileHeader `json:"-"`
}

type UpdateApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required,oneof=pending shortlisted interview approved rejected"`
}

type ApplicationResponse struct {
	ID             string                   `json:"id"`
	JobID          string                   `json:"job_id"`
	JobTitle       string                   `json:"job_title"`
	CandidateID    string                   `json:"candidate_id"`
	CandidateName  string                   `json:"candidate_name"`
	CandidateEmail string                   `json:"candidate_email"`
	CandidatePhone string                   `json:"candidate_phone,omitempty"`
	InstituteID    string                   `json:"institute_id"`
	ResumeURL      string                   `json:"resume_url"`
	CoverLetter    string                   `json:"cover_letter,omitempty"`
	Status         models.ApplicationStatus `json:"status"`
	Viewed         bool                     `json:"viewed"`
	AppliedAt      time.Time                `json:"applied_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}
