package services

import (
	"jobportal_backend/internal/cache"
	"jobportal_backend/internal/config"
	"jobportal_backend/internal/email"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/payment"
	"jobportal_backend/internal/storage"
)

// ServiceContainer wires repositories and providers into services. The
// repositories are stateless; every call receives the request-scoped
// *gorm.DB from the handler.
type ServiceContainer struct {
	Auth          *AuthService
	Users         *UserService
	Jobs          *JobService
	Applications  *ApplicationService
	Subscriptions *SubscriptionService
	Notifications *NotificationService
	Uploads       *UploadService
}

type ContainerDeps struct {
	Config        *config.Config
	Storage       storage.Storage
	EmailProvider email.Provider
	Gateway       PaymentGateway
	ViewTracker   *cache.ViewTracker
}

func NewServiceContainer(deps ContainerDeps) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	jobRepo := repositories.NewJobRepository()
	applicationRepo := repositories.NewApplicationRepository()
	resumeRepo := repositories.NewResumeRepository()
	notificationRepo := repositories.NewNotificationRepository()
	paymentRepo := repositories.NewPaymentRepository()

	gateway := deps.Gateway
	if gateway == nil {
		gateway = payment.NewRazorpayService(
			deps.Config.Razorpay.KeyID,
			deps.Config.Razorpay.KeySecret,
			deps.Config.Razorpay.BaseURL,
		)
	}

	uploads := NewUploadService(deps.Storage, resumeRepo, deps.Config)
	subscriptions := NewSubscriptionService(userRepo, paymentRepo, notificationRepo, gateway, deps.Config)

	return &ServiceContainer{
		Auth:          NewAuthService(userRepo, deps.EmailProvider),
		Users:         NewUserService(userRepo, resumeRepo, jobRepo, applicationRepo, notificationRepo, paymentRepo),
		Jobs:          NewJobService(jobRepo, userRepo, applicationRepo, notificationRepo, subscriptions, deps.ViewTracker),
		Applications:  NewApplicationService(applicationRepo, jobRepo, userRepo, resumeRepo, notificationRepo, uploads),
		Subscriptions: subscriptions,
		Notifications: NewNotificationService(notificationRepo),
		Uploads:       uploads,
	}
}
