package handlers

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vrjob-ai/jobagent/internal/apperr"
	"github.com/vrjob-ai/jobagent/internal/dtos"
	"github.com/vrjob-ai/jobagent/internal/services"
)

// UserHandler exposes intake, profile, stats and the pipeline trigger.
// Dependency injection via constructor, services are shared singletons.
type UserHandler struct {
	UserService     *services.UserService
	PipelineService *services.PipelineService
	StatsService    *services.StatsService
}

func NewUserHandler(users *services.UserService, pipeline *services.PipelineService, stats *services.StatsService) *UserHandler {
	return &UserHandler{
		UserService:     users,
		PipelineService: pipeline,
		StatsService:    stats,
	}
}

// Intake is the POST /users/intake endpoint: a multipart form carrying a
// "profile" JSON part and a "resume_file" part.
func (h *UserHandler) Intake(c *gin.Context) {
	profileRaw := c.PostForm("profile")
	if profileRaw == "" {
		writeError(c, apperr.Validation("profile part is required"))
		return
	}

	var req dtos.UserIntakeRequest
	if err := json.Unmarshal([]byte(profileRaw), &req); err != nil {
		writeError(c, apperr.Validation("invalid profile JSON: "+err.Error()))
		return
	}
	if req.FullName == "" || req.Email == "" || len(req.Skills) == 0 || len(req.DesiredRoles) == 0 {
		writeError(c, apperr.Validation("full_name, email, skills and desired_roles are required"))
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(c, apperr.Validation("invalid email address"))
		return
	}

	resumeFile, err := c.FormFile("resume_file")
	if err != nil {
		writeError(c, apperr.Validation("resume_file is required"))
		return
	}

	user, err := h.UserService.Intake(&req, resumeFile)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetUser is the GET /users/:id endpoint
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.UserService.GetUser(paramID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetStats is the GET /users/:id/stats endpoint
func (h *UserHandler) GetStats(c *gin.Context) {
	user, err := h.UserService.GetUser(paramID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	stats, err := h.StatsService.StatsForUser(user)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SearchJobs is the POST /users/:id/search-jobs endpoint: it runs the full
// search → tailor → apply pipeline for the user within the request.
func (h *UserHandler) SearchJobs(c *gin.Context) {
	user, err := h.UserService.GetUser(paramID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	applications, err := h.PipelineService.ProcessJobsForUser(c.Request.Context(), user)
	if err != nil {
		writeError(c, err)
		return
	}

	titles := make([]string, 0, len(applications))
	for _, app := range applications {
		titles = append(titles, app.Job.Title)
	}

	c.JSON(http.StatusOK, dtos.SearchJobsResponse{
		Processed: len(applications),
		AppliedTo: titles,
	})
}

// ListApplications is the GET /users/:id/applications endpoint
func (h *UserHandler) ListApplications(c *gin.Context) {
	user, err := h.UserService.GetUser(paramID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	applications, err := h.UserService.ListApplications(user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, applications)
}

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func paramID(c *gin.Context) uint {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id)
}

// writeError maps the error taxonomy onto the structured error envelope.
// Internal details stay in the server log.
func writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	c.JSON(status, dtos.ErrorBody{Error: dtos.ErrorDetail{
		Kind:    string(kind),
		Message: message,
	}})
}
