package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrjob-ai/jobagent/internal/database"
	"github.com/vrjob-ai/jobagent/internal/models"
	"github.com/vrjob-ai/jobagent/internal/resume"
	"github.com/vrjob-ai/jobagent/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	storage := resume.NewStorage(t.TempDir())
	userService := services.NewUserService(db, storage)
	statsService := services.NewStatsService(db)
	handler := NewUserHandler(userService, nil, statsService)

	r := gin.New()
	r.GET("/health", HealthCheck)
	users := r.Group("/users")
	{
		users.POST("/intake", handler.Intake)
		users.GET("/:id", handler.GetUser)
		users.GET("/:id/stats", handler.GetStats)
		users.GET("/:id/applications", handler.ListApplications)
	}
	return r, db
}

func intakeRequest(t *testing.T, profile map[string]interface{}, withFile bool) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	profileJSON, err := json.Marshal(profile)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("profile", string(profileJSON)))

	if withFile {
		part, err := writer.CreateFormFile("resume_file", "resume.txt")
		require.NoError(t, err)
		_, err = part.Write([]byte("experienced go engineer"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/users/intake", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func validProfile() map[string]interface{} {
	return map[string]interface{}{
		"full_name":           "Ada Lovelace",
		"email":               "ada@example.com",
		"location_preference": "remote",
		"years_experience":    7,
		"skills":              []string{"go", "sql"},
		"desired_roles":       []string{"Backend Engineer"},
	}
}

func TestIntakeCreatesUserAndBaseResume(t *testing.T) {
	r, db := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, intakeRequest(t, validProfile(), true))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, db.Where("email = ?", "ada@example.com").First(&user).Error)

	var base models.BaseResume
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&base).Error)
	assert.Equal(t, "experienced go engineer", base.Content)
	assert.Contains(t, base.FilePath, "base_resume.txt")
}

func TestIntakeDuplicateEmailConflicts(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, intakeRequest(t, validProfile(), true))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, intakeRequest(t, validProfile(), true))
	assert.Equal(t, http.StatusConflict, w.Code)

	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "conflict", body["error"]["kind"])
}

func TestIntakeRejectsMalformedInput(t *testing.T) {
	r, _ := newTestRouter(t)

	// Missing résumé file
	w := httptest.NewRecorder()
	r.ServeHTTP(w, intakeRequest(t, validProfile(), false))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Invalid location enum
	bad := validProfile()
	bad["location_preference"] = "on-the-moon"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, intakeRequest(t, bad, true))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing required fields
	w = httptest.NewRecorder()
	r.ServeHTTP(w, intakeRequest(t, map[string]interface{}{"email": "x@example.com"}, true))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/999/stats", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStatsOmitsUndefinedFields(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, intakeRequest(t, validProfile(), true))
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%d/stats", created.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.EqualValues(t, 0, raw["total_applications"])
	assert.NotContains(t, raw, "success_rate")
	assert.NotContains(t, raw, "average_response_time")
	assert.NotContains(t, raw, "most_common_rejection")
}

func TestListApplications(t *testing.T) {
	r, db := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, intakeRequest(t, validProfile(), true))
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, db.Where("email = ?", "ada@example.com").First(&user).Error)

	job := models.Job{Title: "Backend Engineer", Company: "Acme", Source: "dummy", URL: "https://example.com/1"}
	require.NoError(t, db.Create(&job).Error)
	version := models.ResumeVersion{UserID: user.ID, BaseResumeID: 1, JobID: job.ID, Content: "v"}
	require.NoError(t, db.Create(&version).Error)
	now := time.Now()
	app := models.JobApplication{UserID: user.ID, JobID: job.ID, ResumeVersionID: version.ID,
		Status: models.StatusApplied, AppliedAt: now, LastStatusUpdate: now}
	require.NoError(t, db.Create(&app).Error)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%d/applications", user.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var apps []models.JobApplication
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apps))
	require.Len(t, apps, 1)
	assert.Equal(t, "Acme", apps[0].Job.Company)
}
