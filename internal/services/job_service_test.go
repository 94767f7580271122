package services

import (
	"context"
	"testing"

	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jobFixture struct {
	service   *JobService
	users     *stubUserRepo
	jobs      *stubJobRepo
	apps      *stubApplicationRepo
	notifs    *stubNotificationRepo
	gate      *stubGate
	institute *models.User
}

func newJobFixture() *jobFixture {
	institute := &models.User{
		BaseModel: models.BaseModel{ID: "inst-1"},
		Email:     "school@example.com",
		Name:      "Springfield High",
		Role:      models.UserRoleInstitute,
	}
	users := newStubUserRepo(institute)
	jobs := newStubJobRepo()
	apps := newStubApplicationRepo()
	notifs := &stubNotificationRepo{}
	gate := &stubGate{}

	return &jobFixture{
		service:   NewJobService(jobs, users, apps, notifs, gate, nil),
		users:     users,
		jobs:      jobs,
		apps:      apps,
		notifs:    notifs,
		gate:      gate,
		institute: institute,
	}
}

func createJobRequest() *dto.CreateJobRequest {
	return &dto.CreateJobRequest{
		Title:        "  Math Teacher  ",
		Description:  "Teach mathematics to grades 9-12.",
		Location:     "Springfield",
		ContactEmail: "hr@example.com",
		Tags:         []string{"math", "full-time"},
	}
}

func TestCreateJob(t *testing.T) {
	f := newJobFixture()

	resp, err := f.service.Create(context.Background(), nil, "inst-1", createJobRequest())
	require.NoError(t, err)

	assert.Equal(t, "Math Teacher", resp.Title)
	assert.Equal(t, models.JobStatusActive, resp.Status)
	assert.Zero(t, resp.ApplicationsCount)
	assert.Zero(t, resp.Views)
	assert.Equal(t, 1, resp.Vacancies)

	// Owner fields are denormalized onto the job.
	assert.Equal(t, "inst-1", resp.InstituteID)
	assert.Equal(t, "Springfield High", resp.InstituteName)
	assert.Equal(t, "school@example.com", resp.InstituteEmail)

	assert.Equal(t, []string{"math", "full-time"}, resp.Tags)
	assert.Equal(t, 1, f.institute.JobsPosted)
}

func TestCreateJobRequiresSubscription(t *testing.T) {
	f := newJobFixture()
	f.gate.err = apperrors.ErrPaymentRequired

	_, err := f.service.Create(context.Background(), nil, "inst-1", createJobRequest())
	assert.ErrorIs(t, err, apperrors.ErrPaymentRequired)

	assert.Empty(t, f.jobs.jobs)
	assert.Zero(t, f.institute.JobsPosted)
}

func TestCreateJobRejectsCandidates(t *testing.T) {
	f := newJobFixture()
	candidate := &models.User{BaseModel: models.BaseModel{ID: "cand-1"}, Role: models.UserRoleCandidate}
	f.users.users["cand-1"] = candidate

	_, err := f.service.Create(context.Background(), nil, "cand-1", createJobRequest())
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}

func TestGetJobCountsViews(t *testing.T) {
	f := newJobFixture()
	created, err := f.service.Create(context.Background(), nil, "inst-1", createJobRequest())
	require.NoError(t, err)

	// A stranger's view counts.
	resp, err := f.service.Get(context.Background(), nil, created.ID, "cand-1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Views)

	// The owner's view does not.
	resp, err = f.service.Get(context.Background(), nil, created.ID, "inst-1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Views)
}

func TestUpdateJobOwnership(t *testing.T) {
	f := newJobFixture()
	created, err := f.service.Create(context.Background(), nil, "inst-1", createJobRequest())
	require.NoError(t, err)

	newTitle := "Physics Teacher"
	_, err = f.service.Update(nil, created.ID, "inst-other", &dto.UpdateJobRequest{Title: &newTitle})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	resp, err := f.service.Update(nil, created.ID, "inst-1", &dto.UpdateJobRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Physics Teacher", resp.Title)
}

func TestCloseJobNotifiesApplicants(t *testing.T) {
	f := newJobFixture()
	created, err := f.service.Create(context.Background(), nil, "inst-1", createJobRequest())
	require.NoError(t, err)

	for _, candidateID := range []string{"cand-1", "cand-2"} {
		require.NoError(t, f.apps.Create(nil, &models.Application{
			ID:          models.ApplicationID(created.ID, candidateID),
			JobID:       created.ID,
			CandidateID: candidateID,
			InstituteID: "inst-1",
		}))
	}

	require.NoError(t, f.service.SetStatus(context.Background(), nil, created.ID, "inst-1", models.JobStatusClosed))

	var closedNotifs int
	for _, n := range f.notifs.created {
		if n.Type == repositories.NotificationTypeJobClosed {
			closedNotifs++
		}
	}
	assert.Equal(t, 2, closedNotifs)
}

func TestDeleteJobCascades(t *testing.T) {
	f := newJobFixture()
	created, err := f.service.Create(context.Background(), nil, "inst-1", createJobRequest())
	require.NoError(t, err)

	require.NoError(t, f.apps.Create(nil, &models.Application{
		ID:          models.ApplicationID(created.ID, "cand-1"),
		JobID:       created.ID,
		CandidateID: "cand-1",
		InstituteID: "inst-1",
	}))

	require.NoError(t, f.service.Delete(context.Background(), nil, created.ID, "inst-1"))

	assert.Empty(t, f.jobs.jobs)
	assert.Empty(t, f.apps.applications)
}

func TestListForInstituteRecountsApplicants(t *testing.T) {
	f := newJobFixture()
	created, err := f.service.Create(context.Background(), nil, "inst-1", createJobRequest())
	require.NoError(t, err)

	// Two stored applications but a stale advisory counter of zero.
	for _, candidateID := range []string{"cand-1", "cand-2"} {
		require.NoError(t, f.apps.Create(nil, &models.Application{
			ID:          models.ApplicationID(created.ID, candidateID),
			JobID:       created.ID,
			CandidateID: candidateID,
			InstituteID: "inst-1",
		}))
	}

	listed, err := f.service.ListForInstitute(nil, "inst-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(2), listed[0].ApplicantCount)
}
