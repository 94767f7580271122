package models

import (
	"time"

	"github.com/google/uuid"
)

// applicationNamespace seeds the deterministic application IDs. Deriving
// the primary key from (jobID, candidateID) makes a concurrent duplicate
// apply collide at the storage layer instead of relying on the prior
// read-then-write check.
var applicationNamespace = uuid.MustParse("9f2c1d4e-5b3a-4c6d-8e7f-0a1b2c3d4e5f")

// ApplicationID returns the deterministic ID for the (jobID, candidateID)
// pair.
func ApplicationID(jobID, candidateID string) string {
	return uuid.NewSHA1(applicationNamespace, []byte(jobID+":"+candidateID)).String()
}

type Application struct {
	ID    string `gorm:"type:uuid;primaryKey" json:"id"`
	JobID string `gorm:"not null;index" json:"job_id"`

	// Snapshot fields captured at submission time. They intentionally do
	// not update if the job or the candidate profile later changes.
	JobTitle       string `json:"job_title"`
	CandidateID    string `gorm:"not null;index" json:"candidate_id"`
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email"`
	CandidatePhone string `json:"candidate_phone"`
	InstituteID    string `gorm:"not null;index" json:"institute_id"`

	ResumeURL   string            `gorm:"not null" json:"resume_url"`
	CoverLetter string            `json:"cover_letter"`
	Status      ApplicationStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Viewed      bool              `gorm:"default:false" json:"viewed"`

	AppliedAt time.Time `gorm:"autoCreateTime" json:"applied_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
