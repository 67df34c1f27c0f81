package services

import (
	"strings"

	"github.com/vrjob-ai/jobagent/internal/apperr"
	"github.com/vrjob-ai/jobagent/internal/dtos"
	"github.com/vrjob-ai/jobagent/internal/models"
	"gorm.io/gorm"
)

// StatsService summarizes a user's application history.
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

// StatsForUser loads the inputs and delegates to ComputeStats.
func (s *StatsService) StatsForUser(user *models.User) (dtos.UserStats, error) {
	var applications []models.JobApplication
	if err := s.DB.Preload("Job").Where("user_id = ?", user.ID).Order("id").Find(&applications).Error; err != nil {
		return dtos.UserStats{}, apperr.Persistence(err, "failed to load applications")
	}

	var versionCount int64
	err := s.DB.Model(&models.ResumeVersion{}).
		Joins("JOIN base_resumes ON base_resumes.id = resume_versions.base_resume_id").
		Where("base_resumes.user_id = ?", user.ID).
		Count(&versionCount).Error
	if err != nil {
		return dtos.UserStats{}, apperr.Persistence(err, "failed to count résumé versions")
	}

	return ComputeStats(user, applications, int(versionCount)), nil
}

// ComputeStats is a pure function of the user's application history: no
// external calls, no persistence writes. Applications must carry their Job
// preloaded; iteration order determines tie-breaks and is the caller's
// stable load order.
func ComputeStats(user *models.User, applications []models.JobApplication, resumeVersions int) dtos.UserStats {
	stats := dtos.UserStats{
		TotalApplications: len(applications),
		ResumeVersions:    resumeVersions,
	}

	for _, a := range applications {
		switch a.Status {
		case models.StatusSeen:
			stats.Seen++
		case models.StatusRejected:
			stats.Rejected++
		case models.StatusGhosted:
			stats.Ghosted++
		case models.StatusInterview:
			stats.Interview++
		}
	}

	stats.AverageResponseTime = averageResponseTime(applications)

	if stats.Interview > 0 && stats.TotalApplications > 0 {
		rate := float64(stats.Interview) / float64(stats.TotalApplications) * 100
		stats.SuccessRate = &rate
	}

	stats.MostCommonRejection = mostCommonRejection(applications)
	stats.TopSkillsMatched = topSkillsMatched(user.Skills, applications, 5)
	stats.PreferredRolesMatched = preferredRolesMatched(user.DesiredRoles, applications)

	return stats
}

// averageResponseTime is the mean of (last_status_update - applied_at) in
// hours over applications that have left "applied". Nil when none have.
func averageResponseTime(applications []models.JobApplication) *float64 {
	var total float64
	var n int
	for _, a := range applications {
		if a.Status == models.StatusApplied || a.LastStatusUpdate.IsZero() {
			continue
		}
		total += a.LastStatusUpdate.Sub(a.AppliedAt).Hours()
		n++
	}
	if n == 0 {
		return nil
	}
	mean := total / float64(n)
	return &mean
}

// mostCommonRejection picks the most frequent non-empty rejection reason.
// Ties break toward the reason encountered first in iteration order.
func mostCommonRejection(applications []models.JobApplication) *string {
	counts := make(map[string]int)
	var order []string
	for _, a := range applications {
		if a.RejectionReason == nil || *a.RejectionReason == "" {
			continue
		}
		reason := *a.RejectionReason
		if _, ok := counts[reason]; !ok {
			order = append(order, reason)
		}
		counts[reason]++
	}
	if len(order) == 0 {
		return nil
	}

	best := order[0]
	for _, reason := range order[1:] {
		if counts[reason] > counts[best] {
			best = reason
		}
	}
	return &best
}

// topSkillsMatched counts each user skill's whole-word occurrences across
// the descriptions of every applied-to job (lower-cased, whitespace
// tokenization) and returns the top limit skills, ordered by frequency
// then by the user's original skill order.
func topSkillsMatched(skills models.StringList, applications []models.JobApplication, limit int) []string {
	if len(skills) == 0 || len(applications) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, a := range applications {
		for _, token := range strings.Fields(strings.ToLower(a.Job.Description)) {
			counts[token]++
		}
	}

	type matched struct {
		skill string
		count int
		pos   int
	}
	var hits []matched
	for i, skill := range skills {
		key := strings.ToLower(skill)
		if c, ok := counts[key]; ok && c > 0 {
			hits = append(hits, matched{skill: key, count: c, pos: i})
		}
	}

	// Selection by frequency, first-seen order breaking ties; the list is
	// at most len(skills) long so the quadratic pass is fine.
	var top []string
	for len(top) < limit && len(hits) > 0 {
		bestIdx := 0
		for i := 1; i < len(hits); i++ {
			if hits[i].count > hits[bestIdx].count ||
				(hits[i].count == hits[bestIdx].count && hits[i].pos < hits[bestIdx].pos) {
				bestIdx = i
			}
		}
		top = append(top, hits[bestIdx].skill)
		hits = append(hits[:bestIdx], hits[bestIdx+1:]...)
	}
	return top
}

// preferredRolesMatched keeps the user's desired roles that appear
// (case-insensitive substring) in the title of at least one applied-to
// job, preserving the user's original role order.
func preferredRolesMatched(roles models.StringList, applications []models.JobApplication) []string {
	if len(roles) == 0 || len(applications) == 0 {
		return nil
	}

	var matchedRoles []string
	for _, role := range roles {
		roleLower := strings.ToLower(role)
		for _, a := range applications {
			if strings.Contains(strings.ToLower(a.Job.Title), roleLower) {
				matchedRoles = append(matchedRoles, role)
				break
			}
		}
	}
	return matchedRoles
}
