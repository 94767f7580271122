package handlers

import (
	"jobportal_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// AppHandlers bundles every HTTP handler group.
type AppHandlers struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Jobs          *JobHandler
	Applications  *ApplicationHandler
	Subscriptions *SubscriptionHandler
	Notifications *NotificationHandler
	Uploads       *UploadHandler
}

func NewAppHandlers(container *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler()

	return &AppHandlers{
		Auth:          NewAuthHandler(base, container.Auth),
		Users:         NewUserHandler(base, container.Users),
		Jobs:          NewJobHandler(base, container.Jobs),
		Applications:  NewApplicationHandler(base, container.Applications),
		Subscriptions: NewSubscriptionHandler(base, container.Subscriptions),
		Notifications: NewNotificationHandler(base, container.Notifications),
		Uploads:       NewUploadHandler(base, container.Uploads),
	}
}

// RegisterAll mounts every handler group on the API router group.
func (h *AppHandlers) RegisterAll(api *gin.RouterGroup) {
	h.Auth.RegisterRoutes(api)
	h.Users.RegisterRoutes(api)
	h.Jobs.RegisterRoutes(api)
	h.Applications.RegisterRoutes(api)
	h.Subscriptions.RegisterRoutes(api)
	h.Notifications.RegisterRoutes(api)
	h.Uploads.RegisterRoutes(api)
}
