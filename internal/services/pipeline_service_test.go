package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrjob-ai/jobagent/internal/apperr"
	"github.com/vrjob-ai/jobagent/internal/boards"
	"github.com/vrjob-ai/jobagent/internal/models"
	"gorm.io/gorm"
)

// stubSource returns a fixed set of postings.
type stubSource struct {
	name     string
	postings []boards.Posting
	err      error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Search(_ context.Context, _, _ string) ([]boards.Posting, error) {
	return s.postings, s.err
}

// stubTailor fails for descriptions containing failOn, echoes otherwise.
type stubTailor struct {
	failOn string
	calls  int
}

func (s *stubTailor) Tailor(_ context.Context, resumeText, jobDescription string) (string, error) {
	s.calls++
	if s.failOn != "" && strings.Contains(jobDescription, s.failOn) {
		return "", apperr.Tailoring(fmt.Errorf("model unavailable"), "résumé tailoring failed")
	}
	return "tailored: " + resumeText, nil
}

func pipelineFixture(t *testing.T, source boards.Source, tailor Tailor) (*PipelineService, *gorm.DB, models.User) {
	db := newTestDB(t)

	aggregator := boards.NewAggregator(time.Second, source)
	jobService := NewJobService(db, aggregator)
	svc := NewPipelineService(db, jobService, tailor)

	user := models.User{FullName: "A", Email: "a@example.com", LocationPreference: models.LocationRemote,
		Skills: models.StringList{"go"}, DesiredRoles: models.StringList{"Backend Engineer"}}
	require.NoError(t, db.Create(&user).Error)

	return svc, db, user
}

func postingsFixture(n int) []boards.Posting {
	var postings []boards.Posting
	for i := 1; i <= n; i++ {
		postings = append(postings, boards.Posting{
			Title:       fmt.Sprintf("Backend Engineer %d", i),
			Company:     fmt.Sprintf("Company %d", i),
			Description: fmt.Sprintf("job %d description", i),
			URL:         fmt.Sprintf("https://example.com/job/%d", i),
			PostedDate:  time.Now(),
		})
	}
	return postings
}

func TestPipelineFailsFastWithoutBaseResume(t *testing.T) {
	source := &stubSource{name: "stub", postings: postingsFixture(2)}
	tailor := &stubTailor{}
	svc, db, user := pipelineFixture(t, source, tailor)

	_, err := svc.ProcessJobsForUser(context.Background(), &user)
	require.Error(t, err)
	assert.Equal(t, apperr.KindMissingResume, apperr.KindOf(err))

	// No job was even attempted
	assert.Zero(t, tailor.calls)
	var count int64
	db.Model(&models.JobApplication{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestPipelineCreatesApplications(t *testing.T) {
	source := &stubSource{name: "stub", postings: postingsFixture(3)}
	svc, db, user := pipelineFixture(t, source, &stubTailor{})
	require.NoError(t, db.Create(&models.BaseResume{UserID: user.ID, FilePath: "x", Content: "base resume"}).Error)

	apps, err := svc.ProcessJobsForUser(context.Background(), &user)
	require.NoError(t, err)
	require.Len(t, apps, 3)

	for _, app := range apps {
		assert.Equal(t, models.StatusApplied, app.Status)
		assert.Equal(t, user.ID, app.UserID)
		assert.NotZero(t, app.ResumeVersionID)
		assert.False(t, app.AppliedAt.IsZero())
		assert.False(t, app.LastStatusUpdate.Before(app.AppliedAt))

		// Referential triangle: the version points at the same user and job
		var version models.ResumeVersion
		require.NoError(t, db.First(&version, app.ResumeVersionID).Error)
		assert.Equal(t, app.UserID, version.UserID)
		assert.Equal(t, app.JobID, version.JobID)
	}
}

func TestPipelineOneJobFailingDoesNotAbortBatch(t *testing.T) {
	source := &stubSource{name: "stub", postings: postingsFixture(3)}
	tailor := &stubTailor{failOn: "job 2"}
	svc, db, user := pipelineFixture(t, source, tailor)
	require.NoError(t, db.Create(&models.BaseResume{UserID: user.ID, FilePath: "x", Content: "base resume"}).Error)

	apps, err := svc.ProcessJobsForUser(context.Background(), &user)
	require.NoError(t, err)
	assert.Len(t, apps, 2)
	assert.Equal(t, 3, tailor.calls)

	// The failed job left no orphan rows behind
	var failedJob models.Job
	require.NoError(t, db.Where("url = ?", "https://example.com/job/2").First(&failedJob).Error)

	var count int64
	db.Model(&models.ResumeVersion{}).Where("job_id = ?", failedJob.ID).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.JobApplication{}).Where("job_id = ?", failedJob.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestPipelineSkipsAlreadyAppliedJobs(t *testing.T) {
	source := &stubSource{name: "stub", postings: postingsFixture(2)}
	tailor := &stubTailor{}
	svc, db, user := pipelineFixture(t, source, tailor)
	require.NoError(t, db.Create(&models.BaseResume{UserID: user.ID, FilePath: "x", Content: "base resume"}).Error)

	first, err := svc.ProcessJobsForUser(context.Background(), &user)
	require.NoError(t, err)
	require.Len(t, first, 2)

	// Same postings come back on the second run; nothing new is applied to
	second, err := svc.ProcessJobsForUser(context.Background(), &user)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, 2, tailor.calls)
}
