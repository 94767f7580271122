package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// CreateUser inserts a user directly into the transaction. A raw password
// in PasswordHash is bcrypt-hashed on the way in; the account is created
// active and verified so it can log in immediately.
func CreateUser(t *testing.T, tx *gorm.DB, user *models.User) {
	t.Helper()

	if user.PasswordHash != "" && !strings.HasPrefix(user.PasswordHash, "$2a$") {
		hash, err := auth.HashPassword(user.PasswordHash)
		require.NoError(t, err, "failed to hash test password")
		user.PasswordHash = hash
	}
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	user.IsVerified = true

	require.NoError(t, tx.Create(user).Error, "failed to create user %s", user.Email)
}

// CreateAndLoginUser creates the user in the transaction and logs in
// through the API, returning the access token.
func CreateAndLoginUser(t *testing.T, ts *TestServer, tx *gorm.DB, name, email, password string, role models.UserRole) (string, *models.User) {
	t.Helper()

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: password,
		Role:         role,
	}
	CreateUser(t, tx, user)

	loginBody := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	res, body := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	require.Equal(t, http.StatusOK, res.StatusCode, "login should succeed, got: %s", body)

	var loginResponse struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &loginResponse))
	require.NotEmpty(t, loginResponse.AccessToken)

	return loginResponse.AccessToken, user
}

// CreateAndLoginInstitute creates an institute account with a unique email.
func CreateAndLoginInstitute(t *testing.T, ts *TestServer, tx *gorm.DB) (string, *models.User) {
	t.Helper()
	email := fmt.Sprintf("institute_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, tx, "Test Institute", email, "password123", models.UserRoleInstitute)
}

// CreateAndLoginCandidate creates a candidate account with a unique email.
func CreateAndLoginCandidate(t *testing.T, ts *TestServer, tx *gorm.DB) (string, *models.User) {
	t.Helper()
	email := fmt.Sprintf("candidate_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, tx, "Test Candidate", email, "password123", models.UserRoleCandidate)
}

// SeedResume gives the candidate a profile resume so applies succeed
// without uploading a file.
func SeedResume(t *testing.T, tx *gorm.DB, userID string) *models.Resume {
	t.Helper()

	resume := &models.Resume{
		UserID:      userID,
		URL:         "/api/v1/files/resumes/" + userID + ".pdf",
		FileName:    "resume.pdf",
		Size:        1024,
		ContentType: "application/pdf",
	}
	require.NoError(t, tx.Create(resume).Error, "failed to seed resume")
	return resume
}

// ActivateSubscription marks the institute as paid-up directly, bypassing
// the payment flow for tests that only need an active subscription.
func ActivateSubscription(t *testing.T, tx *gorm.DB, userID string) {
	t.Helper()

	expiry := time.Now().Add(30 * 24 * time.Hour)
	err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"has_paid":            true,
		"subscription_active": true,
		"subscription_plan":   "monthly",
		"subscription_status": models.SubscriptionStatusActive,
		"subscription_expiry": expiry,
		"payment_status":      models.PaymentStatusCompleted,
	}).Error
	require.NoError(t, err, "failed to activate subscription")
}

// CreateTestJob inserts an active job owned by the institute.
func CreateTestJob(t *testing.T, tx *gorm.DB, institute *models.User, title string) *models.Job {
	t.Helper()

	job := &models.Job{
		InstituteID:    institute.ID,
		InstituteName:  institute.Name,
		InstituteEmail: institute.Email,
		Title:          title,
		Description:    "Test description for " + title,
		Location:       "Bengaluru",
		Vacancies:      1,
		ContactEmail:   institute.Email,
		Status:         models.JobStatusActive,
	}
	require.NoError(t, tx.Create(job).Error, "failed to create test job")
	return job
}
