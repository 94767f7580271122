package handlers

import (
	"net/http"

	"jobportal_backend/internal/middleware"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	uploadService *services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{BaseHandler: base, uploadService: uploadService}
}

func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup) {
	resume := r.Group("/resume",
		middleware.AuthMiddleware(),
		middleware.RequireRoles(models.UserRoleCandidate))
	{
		resume.POST("", h.UploadResume)
		resume.DELETE("", h.DeleteResume)
	}
}

func (h *UploadHandler) UploadResume(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	resp, err := h.uploadService.UploadProfileResume(c.Request.Context(), h.GetDB(c), middleware.GetUserID(c), file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UploadHandler) DeleteResume(c *gin.Context) {
	if err := h.uploadService.DeleteProfileResume(c.Request.Context(), h.GetDB(c), middleware.GetUserID(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Resume deleted"})
}
