package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/vrjob-ai/jobagent/internal/models"
	"google.golang.org/api/gmail/v1"
	"gorm.io/gorm"
)

// InboundEmail is the provider-independent shape of one received email.
// The id must be stable across repeated listings; it is the dedup key.
type InboundEmail struct {
	ID         string
	Subject    string
	Sender     string
	Body       string
	ReceivedAt time.Time
}

// MailProvider lists recent inbox emails. Implementations must return the
// same id for the same email on every call.
type MailProvider interface {
	ListRecent(ctx context.Context, since time.Time) ([]InboundEmail, error)
}

// EmailService turns inbound email subjects into application-status updates.
type EmailService struct {
	DB             *gorm.DB
	MatcherService *MatcherService
	Provider       MailProvider

	PollInterval   time.Duration
	GhostAfterDays int
}

func NewEmailService(db *gorm.DB, matcher *MatcherService, provider MailProvider, pollInterval time.Duration, ghostAfterDays int) *EmailService {
	return &EmailService{
		DB:             db,
		MatcherService: matcher,
		Provider:       provider,
		PollInterval:   pollInterval,
		GhostAfterDays: ghostAfterDays,
	}
}

// StartWatcher starts the background polling
func (s *EmailService) StartWatcher() {
	if s.Provider == nil {
		log.Println("⚠️ Email Watcher disabled (no mail provider). Check credentials.")
		return
	}

	ticker := time.NewTicker(s.PollInterval)

	// Run immediately on startup
	go func() {
		s.runCycle()
		for range ticker.C {
			s.runCycle()
		}
	}()
}

func (s *EmailService) runCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.SyncEmails(ctx); err != nil {
		log.Printf("❌ Email sync failed: %v", err)
	}
	s.SweepGhosted()
}

// SyncEmails lists recent emails and ingests each at most once. Returns the
// number of emails that produced an EmailLog.
func (s *EmailService) SyncEmails(ctx context.Context) (int, error) {
	if s.Provider == nil {
		return 0, fmt.Errorf("no mail provider configured")
	}

	log.Println("📧 Email Watcher: Starting Sync Cycle...")

	since := time.Now().AddDate(0, 0, -30)
	emails, err := s.Provider.ListRecent(ctx, since)
	if err != nil {
		return 0, err
	}

	logs, err := s.Ingest(emails)
	if err != nil {
		return 0, err
	}
	log.Printf("✅ Email Watcher: %d of %d emails produced a status update", len(logs), len(emails))
	return len(logs), nil
}

// Ingest classifies each email and attaches the resulting status signal to
// the matching application. Every email is handled at most once (dedup by
// provider id); a single email failing never aborts the batch.
func (s *EmailService) Ingest(emails []InboundEmail) ([]models.EmailLog, error) {
	var logs []models.EmailLog
	for _, email := range emails {
		var count int64
		s.DB.Model(&models.ProcessedEmail{}).Where("id = ?", email.ID).Count(&count)
		if count > 0 {
			continue // Already processed, skip
		}

		entry := s.processSingleEmail(email)
		if entry != nil {
			logs = append(logs, *entry)
		}

		s.DB.Create(&models.ProcessedEmail{ID: email.ID})
	}
	return logs, nil
}

// processSingleEmail contains the business logic (Classify -> Match -> DB).
// Returns nil when the email carries no status signal or matches nothing.
func (s *EmailService) processSingleEmail(email InboundEmail) *models.EmailLog {
	shortSub := email.Subject
	if len(shortSub) > 20 {
		shortSub = shortSub[:20] + "..."
	}
	logPrefix := fmt.Sprintf("[Email: %s]", shortSub)

	status, ok := Classify(email.Subject)
	if !ok {
		log.Printf("%s ⏭️  SKIPPED: no status signal in subject", logPrefix)
		return nil
	}

	application := s.MatcherService.FindApplication(email.Subject, email.Sender)
	if application == nil {
		log.Printf("%s ❌ SKIPPED: no matching application found", logPrefix)
		return nil
	}
	log.Printf("%s ✅ MATCHED application %d (%s at %s)", logPrefix, application.ID, application.Job.Title, application.Job.Company)

	entry := models.EmailLog{
		ApplicationID: application.ID,
		Subject:       email.Subject,
		Body:          email.Body,
		ReceivedAt:    email.ReceivedAt,
		Status:        status,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return s.applyStatus(tx, application, status, email.ReceivedAt)
	})
	if err != nil {
		log.Printf("%s ❌ SKIPPED: failed to record status update: %v", logPrefix, err)
		return nil
	}
	return &entry
}

// applyStatus moves the application forward when the transition is allowed.
// "seen" never downgrades "interview" or "rejected". ResponseTime is fixed
// at the first transition out of "applied".
func (s *EmailService) applyStatus(tx *gorm.DB, application *models.JobApplication, status models.ApplicationStatus, receivedAt time.Time) error {
	if !application.Status.CanTransitionTo(status) {
		log.Printf("⏹️  Status %s -> %s not allowed for application %d, keeping %s",
			application.Status, status, application.ID, application.Status)
		return nil
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":             status,
		"last_status_update": now,
	}
	if application.ResponseTime == nil {
		responseAt := receivedAt
		if responseAt.IsZero() || responseAt.Before(application.AppliedAt) {
			responseAt = now
		}
		hours := int(responseAt.Sub(application.AppliedAt).Hours())
		updates["response_time"] = hours
	}

	log.Printf("⚡ UPDATING application %d: %s -> %s", application.ID, application.Status, status)
	return tx.Model(application).Updates(updates).Error
}

// SweepGhosted marks applications still sitting in "applied" with no
// employer response for GhostAfterDays as ghosted.
func (s *EmailService) SweepGhosted() {
	if s.GhostAfterDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -s.GhostAfterDays)
	result := s.DB.Model(&models.JobApplication{}).
		Where("status = ? AND applied_at < ?", models.StatusApplied, cutoff).
		Updates(map[string]interface{}{
			"status":             models.StatusGhosted,
			"last_status_update": time.Now(),
		})
	if result.Error != nil {
		log.Printf("⚠️ Ghost sweep failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("👻 Ghost sweep: %d applications marked ghosted", result.RowsAffected)
	}
}

// --- CLASSIFICATION ---

var (
	rejectionKeywords = []string{"rejection", "unfortunately", "not moving forward"}
	receivedKeywords  = []string{"application received", "thank you for applying"}
	interviewKeywords = []string{"interview", "next steps"}
)

// Classify maps an email subject to a status signal. Rules run in priority
// order over the lower-cased subject: rejection first, then receipt
// (mapping to "seen"), then interview. Unclassified emails are ignored.
func Classify(subject string) (models.ApplicationStatus, bool) {
	subject = strings.ToLower(subject)

	if containsAny(subject, rejectionKeywords) {
		return models.StatusRejected, true
	}
	if containsAny(subject, receivedKeywords) {
		return models.StatusSeen, true
	}
	if containsAny(subject, interviewKeywords) {
		return models.StatusInterview, true
	}
	return "", false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// --- GMAIL PROVIDER ---

// GmailProvider lists inbox messages whose subjects look application-related.
// Message ids are stable across listings, which the dedup table relies on.
type GmailProvider struct {
	Client *gmail.Service
}

func NewGmailProvider(client *gmail.Service) *GmailProvider {
	return &GmailProvider{Client: client}
}

func (p *GmailProvider) ListRecent(ctx context.Context, since time.Time) ([]InboundEmail, error) {
	q := fmt.Sprintf("subject:(application OR interview OR rejection OR unfortunately OR applying) after:%s",
		since.Format("2006/01/02"))

	var resp *gmail.ListMessagesResponse
	err := retry(3, 1*time.Second, func() error {
		var e error
		call := p.Client.Users.Messages.List("me").Q(q).MaxResults(50)
		resp, e = call.Context(ctx).Do()
		return e
	})
	if err != nil {
		return nil, err
	}

	var emails []InboundEmail
	for _, header := range resp.Messages {
		var msg *gmail.Message
		err := retry(2, 500*time.Millisecond, func() error {
			var e error
			msg, e = p.Client.Users.Messages.Get("me", header.Id).Context(ctx).Do()
			return e
		})
		if err != nil {
			log.Printf("⚠️ Failed to fetch message %s: %v", header.Id, err)
			continue
		}

		headers := parseHeaders(msg)
		emails = append(emails, InboundEmail{
			ID:         msg.Id,
			Subject:    headers["Subject"],
			Sender:     headers["From"],
			Body:       getEmailBody(msg),
			ReceivedAt: time.UnixMilli(msg.InternalDate),
		})
	}
	return emails, nil
}

// --- HELPERS ---

// retry executes a function with exponential backoff
func retry(attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = f()
		if err == nil {
			return nil
		}
		if i < attempts-1 {
			log.Printf("⚠️ API Error: %v. Retrying in %v...", err, sleep)
			time.Sleep(sleep)
			sleep *= 2
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}

func parseHeaders(msg *gmail.Message) map[string]string {
	res := make(map[string]string)
	if msg.Payload == nil {
		return res
	}
	for _, h := range msg.Payload.Headers {
		res[h.Name] = h.Value
	}
	return res
}

func getEmailBody(msg *gmail.Message) string {
	if msg.Payload == nil {
		return ""
	}
	if msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
		d, _ := base64.URLEncoding.DecodeString(msg.Payload.Body.Data)
		return string(d)
	}
	for _, part := range msg.Payload.Parts {
		if part.MimeType == "text/plain" && part.Body.Data != "" {
			d, _ := base64.URLEncoding.DecodeString(part.Body.Data)
			return string(d)
		}
	}
	for _, part := range msg.Payload.Parts {
		if part.MimeType == "text/html" && part.Body.Data != "" {
			d, _ := base64.URLEncoding.DecodeString(part.Body.Data)
			return string(d)
		}
	}
	return ""
}
