package services

import (
	"net/mail"
	"strings"

	"github.com/vrjob-ai/jobagent/internal/models"
	"gorm.io/gorm"
)

// MatcherService correlates an inbound email with the JobApplication it is
// most likely about. The correlation key is the company name of an
// applied-to job, matched against the subject line, the sender display
// name and the sender domain.
type MatcherService struct {
	DB *gorm.DB
}

func NewMatcherService(db *gorm.DB) *MatcherService {
	return &MatcherService{DB: db}
}

// FindApplication returns the best-matching application for the email, or
// nil when no company matches. Among matching applications the most
// recently applied one wins; already-rejected applications are ignored.
func (s *MatcherService) FindApplication(subject, rawSender string) *models.JobApplication {
	subjectLower := strings.ToLower(subject)
	senderName, senderDomain := parseSender(rawSender)

	var applications []models.JobApplication
	if err := s.DB.Preload("Job").Order("applied_at DESC").Find(&applications).Error; err != nil {
		return nil
	}

	for _, app := range applications {
		company := strings.ToLower(strings.TrimSpace(app.Job.Company))
		// Skip very short names to avoid false positives.
		// e.g. a company named "X" or "Go" matches everything.
		if len(company) < 3 {
			continue
		}
		if app.Status == models.StatusRejected {
			continue
		}

		if strings.Contains(subjectLower, company) {
			return &app
		}
		if senderName != "" && strings.Contains(senderName, company) {
			return &app
		}
		if senderDomain != "" && strings.Contains(senderDomain, strings.ReplaceAll(company, " ", "")) {
			return &app
		}
	}
	return nil
}

// parseSender splits "Stripe Recruiting <jobs@stripe.com>" into the
// lower-cased display name and the address domain.
func parseSender(rawSender string) (name, domain string) {
	addr := strings.ToLower(rawSender)
	parsed, err := mail.ParseAddress(rawSender)
	if err == nil {
		name = strings.ToLower(parsed.Name)
		addr = strings.ToLower(parsed.Address)
	}
	if parts := strings.Split(addr, "@"); len(parts) == 2 {
		domain = parts[1]
	}
	return name, domain
}
