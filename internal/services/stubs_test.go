package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sort"
	"time"

	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"

	"gorm.io/gorm"
)

// In-memory repository stubs. The db argument is ignored everywhere, so
// the services are exercised without a database.

type stubUserRepo struct {
	users         map[string]*models.User
	refreshTokens map[string]*models.RefreshToken
	updateCalls   []map[string]interface{}
	jobsPosted    int
	failUpdates   bool
}

func newStubUserRepo(users ...*models.User) *stubUserRepo {
	r := &stubUserRepo{
		users:         map[string]*models.User{},
		refreshTokens: map[string]*models.RefreshToken{},
	}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ *gorm.DB, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ *gorm.DB, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) Update(_ *gorm.DB, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) Updates(_ *gorm.DB, userID string, fields map[string]interface{}) error {
	if r.failUpdates {
		return fmt.Errorf("stub update failure")
	}
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	r.updateCalls = append(r.updateCalls, fields)
	for key, val := range fields {
		switch key {
		case "has_paid":
			u.HasPaid = val.(bool)
		case "subscription_active":
			u.SubscriptionActive = val.(bool)
		case "subscription_plan":
			u.SubscriptionPlan = val.(string)
		case "subscription_status":
			u.SubscriptionStatus = val.(models.SubscriptionStatus)
		case "subscription_expiry":
			switch t := val.(type) {
			case time.Time:
				u.SubscriptionExpiry = &t
			case *time.Time:
				u.SubscriptionExpiry = t
			}
		case "payment_status":
			u.PaymentStatus = val.(models.PaymentStatus)
		case "password_hash":
			u.PasswordHash = val.(string)
		case "is_verified":
			u.IsVerified = val.(bool)
		case "verification_token":
			u.VerificationToken = val.(string)
		case "reset_token":
			u.ResetToken = val.(string)
		}
	}
	return nil
}

func (r *stubUserRepo) Delete(_ *gorm.DB, userID string) error {
	if _, ok := r.users[userID]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

func (r *stubUserRepo) IncrementJobsPosted(_ *gorm.DB, userID string) error {
	r.jobsPosted++
	if u, ok := r.users[userID]; ok {
		u.JobsPosted++
	}
	return nil
}

func (r *stubUserRepo) FindByVerificationToken(_ *gorm.DB, token string) (*models.User, error) {
	for _, u := range r.users {
		if u.VerificationToken == token && token != "" {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *stubUserRepo) FindByResetToken(_ *gorm.DB, token string) (*models.User, error) {
	for _, u := range r.users {
		if u.ResetToken == token && token != "" {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *stubUserRepo) CreateRefreshToken(_ *gorm.DB, token *models.RefreshToken) error {
	r.refreshTokens[token.Token] = token
	return nil
}

func (r *stubUserRepo) FindRefreshToken(_ *gorm.DB, token string) (*models.RefreshToken, error) {
	rt, ok := r.refreshTokens[token]
	if !ok || rt.ExpiresAt.Before(time.Now()) {
		return nil, gorm.ErrRecordNotFound
	}
	return rt, nil
}

func (r *stubUserRepo) DeleteRefreshToken(_ *gorm.DB, token string) error {
	delete(r.refreshTokens, token)
	return nil
}

func (r *stubUserRepo) DeleteUserRefreshTokens(_ *gorm.DB, userID string) error {
	for k, rt := range r.refreshTokens {
		if rt.UserID == userID {
			delete(r.refreshTokens, k)
		}
	}
	return nil
}

type stubJobRepo struct {
	jobs map[string]*models.Job
}

func newStubJobRepo(jobs ...*models.Job) *stubJobRepo {
	r := &stubJobRepo{jobs: map[string]*models.Job{}}
	for _, j := range jobs {
		r.jobs[j.ID] = j
	}
	return r
}

func (r *stubJobRepo) Create(_ *gorm.DB, job *models.Job) error {
	if job.ID == "" {
		job.ID = fmt.Sprintf("job-%d", len(r.jobs)+1)
	}
	job.CreatedAt = time.Now()
	r.jobs[job.ID] = job
	return nil
}

// FindByID returns a detached copy, like a real row scan would.
func (r *stubJobRepo) FindByID(_ *gorm.DB, id string) (*models.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	clone := *j
	return &clone, nil
}

func (r *stubJobRepo) Update(_ *gorm.DB, job *models.Job) error {
	r.jobs[job.ID] = job
	return nil
}

func (r *stubJobRepo) UpdateStatus(_ *gorm.DB, jobID string, status models.JobStatus) error {
	j, ok := r.jobs[jobID]
	if !ok {
		return repositories.ErrJobNotFound
	}
	j.Status = status
	return nil
}

func (r *stubJobRepo) Delete(_ *gorm.DB, jobID string) error {
	if _, ok := r.jobs[jobID]; !ok {
		return repositories.ErrJobNotFound
	}
	delete(r.jobs, jobID)
	return nil
}

func (r *stubJobRepo) FindByInstitute(_ *gorm.DB, instituteID string) ([]models.Job, error) {
	var out []models.Job
	for _, j := range r.jobs {
		if j.InstituteID == instituteID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *stubJobRepo) FindActive(_ *gorm.DB, limit int) ([]models.Job, error) {
	var out []models.Job
	for _, j := range r.jobs {
		if j.Status == models.JobStatusActive {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *stubJobRepo) Search(_ *gorm.DB, criteria repositories.JobSearchCriteria) ([]models.Job, int64, error) {
	status := models.JobStatus(criteria.Status)
	if criteria.Status == "" {
		status = models.JobStatusActive
	}
	var out []models.Job
	for _, j := range r.jobs {
		if j.Status == status {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *stubJobRepo) IncrementViews(_ *gorm.DB, jobID string) error {
	j, ok := r.jobs[jobID]
	if !ok {
		return repositories.ErrJobNotFound
	}
	j.Views++
	return nil
}

func (r *stubJobRepo) IncrementApplicationsCount(_ *gorm.DB, jobID string) error {
	j, ok := r.jobs[jobID]
	if !ok {
		return repositories.ErrJobNotFound
	}
	j.ApplicationsCount++
	return nil
}

type stubApplicationRepo struct {
	applications map[string]*models.Application
}

func newStubApplicationRepo(applications ...*models.Application) *stubApplicationRepo {
	r := &stubApplicationRepo{applications: map[string]*models.Application{}}
	for _, a := range applications {
		r.applications[a.ID] = a
	}
	return r
}

func (r *stubApplicationRepo) Create(_ *gorm.DB, application *models.Application) error {
	if _, ok := r.applications[application.ID]; ok {
		return repositories.ErrApplicationAlreadyExists
	}
	application.AppliedAt = time.Now()
	r.applications[application.ID] = application
	return nil
}

// FindByID returns a detached copy, like a real row scan would.
func (r *stubApplicationRepo) FindByID(_ *gorm.DB, id string) (*models.Application, error) {
	a, ok := r.applications[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubApplicationRepo) FindByJobAndCandidate(_ *gorm.DB, jobID, candidateID string) (*models.Application, error) {
	for _, a := range r.applications {
		if a.JobID == jobID && a.CandidateID == candidateID {
			return a, nil
		}
	}
	return nil, repositories.ErrApplicationNotFound
}

func (r *stubApplicationRepo) FindByCandidate(_ *gorm.DB, candidateID string) ([]models.Application, error) {
	return r.filter(func(a *models.Application) bool { return a.CandidateID == candidateID }), nil
}

func (r *stubApplicationRepo) FindByInstitute(_ *gorm.DB, instituteID string) ([]models.Application, error) {
	return r.filter(func(a *models.Application) bool { return a.InstituteID == instituteID }), nil
}

func (r *stubApplicationRepo) FindByJob(_ *gorm.DB, jobID string) ([]models.Application, error) {
	return r.filter(func(a *models.Application) bool { return a.JobID == jobID }), nil
}

func (r *stubApplicationRepo) filter(keep func(*models.Application) bool) []models.Application {
	var out []models.Application
	for _, a := range r.applications {
		if keep(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out
}

func (r *stubApplicationRepo) UpdateStatus(_ *gorm.DB, applicationID string, status models.ApplicationStatus) error {
	a, ok := r.applications[applicationID]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	a.Status = status
	return nil
}

func (r *stubApplicationRepo) MarkViewed(_ *gorm.DB, applicationID string) error {
	a, ok := r.applications[applicationID]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	a.Viewed = true
	return nil
}

func (r *stubApplicationRepo) CountByJob(_ *gorm.DB, jobID string) (int64, error) {
	var count int64
	for _, a := range r.applications {
		if a.JobID == jobID {
			count++
		}
	}
	return count, nil
}

func (r *stubApplicationRepo) DeleteByJob(_ *gorm.DB, jobID string) error {
	for id, a := range r.applications {
		if a.JobID == jobID {
			delete(r.applications, id)
		}
	}
	return nil
}

func (r *stubApplicationRepo) DeleteByCandidate(_ *gorm.DB, candidateID string) error {
	for id, a := range r.applications {
		if a.CandidateID == candidateID {
			delete(r.applications, id)
		}
	}
	return nil
}

type stubResumeRepo struct {
	resumes map[string]*models.Resume
}

func newStubResumeRepo(resumes ...*models.Resume) *stubResumeRepo {
	r := &stubResumeRepo{resumes: map[string]*models.Resume{}}
	for _, res := range resumes {
		r.resumes[res.UserID] = res
	}
	return r
}

func (r *stubResumeRepo) Upsert(_ *gorm.DB, resume *models.Resume) error {
	r.resumes[resume.UserID] = resume
	return nil
}

func (r *stubResumeRepo) FindByUser(_ *gorm.DB, userID string) (*models.Resume, error) {
	res, ok := r.resumes[userID]
	if !ok {
		return nil, repositories.ErrResumeNotFound
	}
	return res, nil
}

func (r *stubResumeRepo) DeleteByUser(_ *gorm.DB, userID string) error {
	delete(r.resumes, userID)
	return nil
}

type stubNotificationRepo struct {
	created []*models.Notification
}

func (r *stubNotificationRepo) CreateNotification(_ *gorm.DB, n *models.Notification) error {
	if n.ID == "" {
		n.ID = fmt.Sprintf("notif-%d", len(r.created)+1)
	}
	r.created = append(r.created, n)
	return nil
}

func (r *stubNotificationRepo) FindNotificationByID(_ *gorm.DB, id string) (*models.Notification, error) {
	for _, n := range r.created {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (r *stubNotificationRepo) FindUserNotifications(_ *gorm.DB, userID string, _ repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range r.created {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubNotificationRepo) MarkAsRead(_ *gorm.DB, notificationID string) error {
	for _, n := range r.created {
		if n.ID == notificationID {
			n.IsRead = true
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *stubNotificationRepo) MarkAllAsRead(_ *gorm.DB, userID string) error {
	for _, n := range r.created {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *stubNotificationRepo) DeleteNotification(_ *gorm.DB, id string) error {
	for i, n := range r.created {
		if n.ID == id {
			r.created = append(r.created[:i], r.created[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *stubNotificationRepo) DeleteUserNotifications(_ *gorm.DB, userID string) error {
	var kept []*models.Notification
	for _, n := range r.created {
		if n.UserID != userID {
			kept = append(kept, n)
		}
	}
	r.created = kept
	return nil
}

func (r *stubNotificationRepo) GetUnreadCount(_ *gorm.DB, userID string) (int64, error) {
	var count int64
	for _, n := range r.created {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *stubNotificationRepo) CreateNewApplicationNotification(db *gorm.DB, instituteID, jobID, jobTitle, candidateName string) error {
	return r.CreateNotification(db, &models.Notification{
		UserID: instituteID,
		Type:   repositories.NotificationTypeNewApplication,
		Title:  "New application received",
	})
}

func (r *stubNotificationRepo) CreateApplicationStatusNotification(db *gorm.DB, candidateID, jobTitle string, status models.ApplicationStatus) error {
	return r.CreateNotification(db, &models.Notification{
		UserID: candidateID,
		Type:   repositories.NotificationTypeApplicationStatus,
		Title:  "Application status updated",
	})
}

func (r *stubNotificationRepo) CreatePaymentCompletedNotification(db *gorm.DB, userID, planName string) error {
	return r.CreateNotification(db, &models.Notification{
		UserID: userID,
		Type:   repositories.NotificationTypePaymentCompleted,
		Title:  "Payment successful",
	})
}

type stubPaymentRepo struct {
	orders map[string]*models.PaymentOrder
}

func newStubPaymentRepo(orders ...*models.PaymentOrder) *stubPaymentRepo {
	r := &stubPaymentRepo{orders: map[string]*models.PaymentOrder{}}
	for _, o := range orders {
		r.orders[o.GatewayOrderID] = o
	}
	return r
}

func (r *stubPaymentRepo) Create(_ *gorm.DB, order *models.PaymentOrder) error {
	if order.ID == "" {
		order.ID = fmt.Sprintf("order-%d", len(r.orders)+1)
	}
	r.orders[order.GatewayOrderID] = order
	return nil
}

func (r *stubPaymentRepo) FindByGatewayOrderID(_ *gorm.DB, gatewayOrderID string) (*models.PaymentOrder, error) {
	o, ok := r.orders[gatewayOrderID]
	if !ok {
		return nil, repositories.ErrOrderNotFound
	}
	return o, nil
}

func (r *stubPaymentRepo) MarkCompleted(_ *gorm.DB, orderID, gatewayPaymentID, signature string) error {
	for _, o := range r.orders {
		if o.ID == orderID {
			now := time.Now()
			o.Status = models.PaymentStatusCompleted
			o.GatewayPaymentID = gatewayPaymentID
			o.Signature = signature
			o.PaidAt = &now
			return nil
		}
	}
	return repositories.ErrOrderNotFound
}

func (r *stubPaymentRepo) MarkFailed(_ *gorm.DB, orderID string) error {
	for _, o := range r.orders {
		if o.ID == orderID {
			o.Status = models.PaymentStatusFailed
			return nil
		}
	}
	return repositories.ErrOrderNotFound
}

func (r *stubPaymentRepo) FindByUser(_ *gorm.DB, userID string) ([]models.PaymentOrder, error) {
	var out []models.PaymentOrder
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) DeleteByUser(_ *gorm.DB, userID string) error {
	for k, o := range r.orders {
		if o.UserID == userID {
			delete(r.orders, k)
		}
	}
	return nil
}

// stubGateway fakes the payment provider.
type stubGateway struct {
	orderID      string
	createErr    error
	verifyResult bool
	verifyCalls  int
}

func (g *stubGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error) {
	if g.createErr != nil {
		return "", g.createErr
	}
	if g.orderID == "" {
		return "gw_order_1", nil
	}
	return g.orderID, nil
}

func (g *stubGateway) VerifySignature(orderID, paymentID, signature string) bool {
	g.verifyCalls++
	return g.verifyResult
}

// stubGate fakes the subscription gate in front of paid features.
type stubGate struct {
	err error
}

func (g *stubGate) RequireActive(_ context.Context, _ *gorm.DB, _ string) error {
	return g.err
}

// stubUploader fakes one-off resume storage.
type stubUploader struct {
	url   string
	err   error
	calls int
}

func (u *stubUploader) StoreApplicationResume(_ context.Context, userID string, _ *multipart.FileHeader) (string, error) {
	u.calls++
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

func fakeFileHeader() *multipart.FileHeader {
	return &multipart.FileHeader{Filename: "override.pdf", Size: 1024}
}
