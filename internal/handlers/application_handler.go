package handlers

import (
	"net/http"

	"jobportal_backend/internal/middleware"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/services"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService *services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{BaseHandler: base, applicationService: applicationService}
}

func (h *ApplicationHandler) RegisterRoutes(r *gin.RouterGroup) {
	candidate := r.Group("",
		middleware.AuthMiddleware(),
		middleware.RequireRoles(models.UserRoleCandidate))
	{
		candidate.POST("/jobs/:id/apply", h.Apply)
		candidate.GET("/applications/my", h.ListMine)
	}

	institute := r.Group("",
		middleware.AuthMiddleware(),
		middleware.RequireRoles(models.UserRoleInstitute))
	{
		institute.GET("/institute/applications", h.ListForInstitute)
		institute.GET("/jobs/:id/applications", h.ListForJob)
		institute.PUT("/applications/:id/status", h.UpdateStatus)
		institute.PUT("/applications/:id/viewed", h.MarkViewed)
	}
}

// Apply accepts a multipart form: cover_letter plus an optional resume
// file that overrides the profile resume for this application only.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	req := dto.SubmitApplicationRequest{
		JobID:       c.Param("id"),
		CandidateID: middleware.GetUserID(c),
		CoverLetter: c.PostForm("cover_letter"),
	}

	if file, err := c.FormFile("resume"); err == nil {
		req.ResumeOverride = file
	}

	application, err := h.applicationService.Submit(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		// Duplicate applies are reported with the existing application ID
		// so the client can link to it.
		var appErr *apperrors.AppError
		if apperrors.As(err, &appErr) && appErr.Code == apperrors.CodeAlreadyApplied {
			apperrors.HandleError(c, appErr.WithDetails(gin.H{
				"application_id": models.ApplicationID(req.JobID, req.CandidateID),
			}))
			return
		}
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, application)
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	applications, err := h.applicationService.ListForCandidate(h.GetDB(c), userID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": applications})
}

func (h *ApplicationHandler) ListForInstitute(c *gin.Context) {
	userID := middleware.GetUserID(c)
	applications, err := h.applicationService.ListForInstitute(h.GetDB(c), userID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": applications})
}

func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	applications, err := h.applicationService.ListForJob(h.GetDB(c), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": applications})
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateApplicationStatusRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	err := h.applicationService.UpdateStatus(c.Request.Context(), h.GetDB(c),
		c.Param("id"), req.Status, middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

func (h *ApplicationHandler) MarkViewed(c *gin.Context) {
	err := h.applicationService.MarkViewed(h.GetDB(c), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marked as viewed"})
}
