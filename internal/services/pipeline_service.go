package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vrjob-ai/jobagent/internal/apperr"
	"github.com/vrjob-ai/jobagent/internal/models"
	"gorm.io/gorm"
)

// Tailor is the text-generation capability the pipeline depends on.
// *TailorService satisfies it; tests substitute a stub.
type Tailor interface {
	Tailor(ctx context.Context, resumeText, jobDescription string) (string, error)
}

// PipelineService runs search → tailor → apply for one user.
type PipelineService struct {
	DB         *gorm.DB
	JobService *JobService
	Tailor     Tailor

	mu        sync.Mutex
	userLocks map[uint]*sync.Mutex
}

func NewPipelineService(db *gorm.DB, jobs *JobService, tailor Tailor) *PipelineService {
	return &PipelineService{
		DB:         db,
		JobService: jobs,
		Tailor:     tailor,
		userLocks:  make(map[uint]*sync.Mutex),
	}
}

// lockFor serializes pipeline runs per user so concurrent triggers cannot
// create duplicate applications for the same job.
func (s *PipelineService) lockFor(userID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.userLocks[userID] = l
	}
	return l
}

// ProcessJobsForUser searches the boards for the user's desired roles,
// tailors the base résumé per job and records an application. One job
// failing never aborts the batch; the returned slice holds only the
// applications that were actually created.
//
// Fails fast with a missing-resume error before touching any job when the
// user has no base résumé.
func (s *PipelineService) ProcessJobsForUser(ctx context.Context, user *models.User) ([]models.JobApplication, error) {
	lock := s.lockFor(user.ID)
	lock.Lock()
	defer lock.Unlock()

	var baseResume models.BaseResume
	if err := s.DB.Where("user_id = ?", user.ID).First(&baseResume).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.MissingResume("user has no base résumé")
		}
		return nil, apperr.Persistence(err, "failed to load base résumé")
	}

	keywords := s.keywordsFor(user)
	jobs := s.JobService.SearchAndStore(ctx, keywords, string(user.LocationPreference))
	log.Printf("🔎 Pipeline: %d candidate jobs for user %d", len(jobs), user.ID)

	var applications []models.JobApplication
	for _, job := range jobs {
		if s.alreadyApplied(user.ID, job.ID) {
			log.Printf("⏭️  Pipeline: user %d already applied to job %d, skipping", user.ID, job.ID)
			continue
		}

		app, err := s.applyToJob(ctx, user, &baseResume, &job)
		if err != nil {
			log.Printf("⚠️ Pipeline: job %d failed for user %d: %v", job.ID, user.ID, err)
			continue
		}
		applications = append(applications, *app)
	}

	log.Printf("✅ Pipeline: created %d applications for user %d", len(applications), user.ID)
	return applications, nil
}

// applyToJob tailors the résumé and records the application. The résumé
// version and the application are written in one transaction so a failure
// leaves no orphan rows for this (user, job).
func (s *PipelineService) applyToJob(ctx context.Context, user *models.User, baseResume *models.BaseResume, job *models.Job) (*models.JobApplication, error) {
	tailored, err := s.Tailor.Tailor(ctx, baseResume.Content, job.Description)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	version := models.ResumeVersion{
		UserID:       user.ID,
		BaseResumeID: baseResume.ID,
		JobID:        job.ID,
		Label:        uuid.NewString(),
		Content:      tailored,
	}
	application := models.JobApplication{
		UserID:           user.ID,
		JobID:            job.ID,
		Status:           models.StatusApplied,
		AppliedAt:        now,
		LastStatusUpdate: now,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&version).Error; err != nil {
			return err
		}
		application.ResumeVersionID = version.ID
		return tx.Create(&application).Error
	})
	if err != nil {
		return nil, apperr.Persistence(err, "failed to record application")
	}
	application.Job = *job
	return &application, nil
}

func (s *PipelineService) alreadyApplied(userID, jobID uint) bool {
	var count int64
	s.DB.Model(&models.JobApplication{}).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Count(&count)
	return count > 0
}

func (s *PipelineService) keywordsFor(user *models.User) string {
	if len(user.DesiredRoles) > 0 {
		return strings.TrimSpace(user.DesiredRoles[0])
	}
	return ""
}
