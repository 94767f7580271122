package handlers

import (
	"net/http"

	"jobportal_backend/internal/middleware"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services"
	"jobportal_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService *services.JobService
}

func NewJobHandler(base *BaseHandler, jobService *services.JobService) *JobHandler {
	return &JobHandler{BaseHandler: base, jobService: jobService}
}

func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/jobs")
	{
		jobs.GET("", h.Search)
		jobs.GET("/:id", h.Get)
	}

	instituteOnly := r.Group("/jobs",
		middleware.AuthMiddleware(),
		middleware.RequireRoles(models.UserRoleInstitute))
	{
		instituteOnly.POST("", h.Create)
		instituteOnly.PATCH("/:id", h.Update)
		instituteOnly.PUT("/:id/status", h.SetStatus)
		instituteOnly.DELETE("/:id", h.Delete)
	}

	mine := r.Group("/institute",
		middleware.AuthMiddleware(),
		middleware.RequireRoles(models.UserRoleInstitute))
	{
		mine.GET("/jobs", h.ListMine)
	}
}

func (h *JobHandler) Search(c *gin.Context) {
	var criteria repositories.JobSearchCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	jobs, total, err := h.jobService.Search(h.GetDB(c), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "total": total})
}

// Get is public; an authenticated viewer who is not the owner bumps the
// advisory view counter.
func (h *JobHandler) Get(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	resp, err := h.jobService.Get(c.Request.Context(), h.GetDB(c), c.Param("id"), viewerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) Create(c *gin.Context) {
	var req dto.CreateJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.jobService.Create(c.Request.Context(), h.GetDB(c), middleware.GetUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *JobHandler) Update(c *gin.Context) {
	var req dto.UpdateJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.jobService.Update(h.GetDB(c), c.Param("id"), middleware.GetUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) SetStatus(c *gin.Context) {
	var req dto.SetJobStatusRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	err := h.jobService.SetStatus(c.Request.Context(), h.GetDB(c), c.Param("id"), middleware.GetUserID(c), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

func (h *JobHandler) Delete(c *gin.Context) {
	err := h.jobService.Delete(c.Request.Context(), h.GetDB(c), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job deleted"})
}

func (h *JobHandler) ListMine(c *gin.Context) {
	jobs, err := h.jobService.ListForInstitute(h.GetDB(c), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}
