package models

type UserRole string
type UserStatus string
type JobStatus string
type ApplicationStatus string
type PaymentStatus string
type SubscriptionStatus string

const (
	UserRoleCandidate UserRole = "candidate"
	UserRoleInstitute UserRole = "institute"
	UserRoleAdmin     UserRole = "admin"

	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"

	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusInterview   ApplicationStatus = "interview"
	ApplicationStatusApproved    ApplicationStatus = "approved"
	ApplicationStatusRejected    ApplicationStatus = "rejected"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"

	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusExpired SubscriptionStatus = "expired"
)

// ValidApplicationStatus reports whether s is one of the five allowed
// application statuses. Transitions between them are deliberately
// unrestricted: an institute may move an application from any status to
// any other.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusShortlisted,
		ApplicationStatusInterview, ApplicationStatusApproved,
		ApplicationStatusRejected:
		return true
	}
	return false
}
