package services

import (
	"context"
	"log"

	"github.com/vrjob-ai/jobagent/internal/boards"
	"github.com/vrjob-ai/jobagent/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobService struct {
	DB         *gorm.DB
	Aggregator *boards.Aggregator
}

func NewJobService(db *gorm.DB, aggregator *boards.Aggregator) *JobService {
	return &JobService{
		DB:         db,
		Aggregator: aggregator,
	}
}

// SearchAndStore runs the aggregate board search and persists every posting
// as a Job. Persistence is skip-and-continue: one posting failing (or already
// existing under the same URL) never blocks the rest. Returns the stored rows,
// reusing the existing row when a URL was seen before.
func (s *JobService) SearchAndStore(ctx context.Context, keywords, location string) []models.Job {
	postings := s.Aggregator.SearchAll(ctx, keywords, location)

	var jobs []models.Job
	for _, p := range postings {
		job := models.Job{
			Title:       p.Title,
			Company:     p.Company,
			Description: p.Description,
			Location:    p.Location,
			Source:      p.Source,
			URL:         p.URL,
			PostedDate:  p.PostedDate,
		}

		// Re-scrapes of a known URL keep the original row untouched
		err := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoNothing: true,
		}).Create(&job).Error
		if err != nil {
			log.Printf("⚠️ Failed to store posting %q: %v", p.URL, err)
			continue
		}
		if job.ID == 0 {
			// Conflict hit: load the existing row for this URL
			if err := s.DB.Where("url = ?", p.URL).First(&job).Error; err != nil {
				log.Printf("⚠️ Failed to load existing posting %q: %v", p.URL, err)
				continue
			}
		}
		jobs = append(jobs, job)
	}
	return jobs
}
