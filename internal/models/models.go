package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// StringList stores a []string as a JSON column so the same model works
// on postgres and on the sqlite driver used in tests.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal string list")
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("unsupported type for string list: %T", value)
	}
	return errors.Wrap(json.Unmarshal(data, l), "failed to unmarshal string list")
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FullName            string             `gorm:"not null" json:"full_name"`
	Email               string             `gorm:"uniqueIndex;not null" json:"email"`
	Phone               string             `json:"phone,omitempty"`
	LocationPreference  LocationPreference `gorm:"not null" json:"location_preference"`
	YearsExperience     int                `gorm:"not null" json:"years_experience"`
	Skills              StringList         `gorm:"type:json;not null" json:"skills"`
	DesiredRoles        StringList         `gorm:"type:json;not null" json:"desired_roles"`
	LinkedinURL         string             `json:"linkedin_url,omitempty"`
	SalaryExpectation   *int               `json:"salary_expectation,omitempty"`
	PreferredIndustries StringList         `gorm:"type:json" json:"preferred_industries,omitempty"`
	WorkArrangements    StringList         `gorm:"type:json" json:"work_arrangements,omitempty"`
	VisaSponsorship     bool               `gorm:"default:false" json:"visa_sponsorship"`
	Relocation          bool               `gorm:"default:false" json:"relocation_willingness"`

	// 'omitempty' keeps user payloads small when associations are not preloaded
	BaseResume   *BaseResume      `json:"base_resume,omitempty"`
	Applications []JobApplication `json:"applications,omitempty"`
}

type BaseResume struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID   uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	FilePath string `gorm:"not null" json:"file_path"`
	Content  string `gorm:"type:text;not null" json:"content"`

	Versions []ResumeVersion `gorm:"foreignKey:BaseResumeID" json:"versions,omitempty"`
}

type Job struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Title       string    `gorm:"not null" json:"title"`
	Company     string    `gorm:"index;not null" json:"company"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `json:"location"`
	Source      string    `gorm:"not null" json:"source"`
	URL         string    `gorm:"uniqueIndex;not null" json:"url"`
	PostedDate  time.Time `json:"posted_date"`

	SalaryRange          string `json:"salary_range,omitempty"`
	WorkArrangement      string `json:"work_arrangement,omitempty"`
	Industry             string `json:"industry,omitempty"`
	VisaSponsorship      bool   `gorm:"default:false" json:"visa_sponsorship"`
	RelocationAssistance bool   `gorm:"default:false" json:"relocation_assistance"`
}

type ResumeVersion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID       uint   `gorm:"not null;index" json:"user_id"`
	BaseResumeID uint   `gorm:"not null;index" json:"base_resume_id"`
	JobID        uint   `gorm:"not null;index" json:"job_id"`
	Label        string `json:"label"`
	Content      string `gorm:"type:text;not null" json:"content"`
}

type JobApplication struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID          uint `gorm:"not null;index" json:"user_id"`
	JobID           uint `gorm:"not null;index" json:"job_id"`
	ResumeVersionID uint `gorm:"not null" json:"resume_version_id"`

	// Association: GORM needs Preload() to fill this
	Job Job `json:"job,omitempty"`

	Status           ApplicationStatus `gorm:"not null;default:'applied'" json:"status"`
	AppliedAt        time.Time         `gorm:"not null" json:"applied_at"`
	LastStatusUpdate time.Time         `gorm:"not null" json:"last_status_update"`
	RejectionReason  *string           `json:"rejection_reason,omitempty"`
	ResponseTime     *int              `json:"response_time,omitempty"` // hours between application and first response
}

type EmailLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ApplicationID uint              `gorm:"not null;index" json:"application_id"`
	Subject       string            `json:"subject"`
	Body          string            `gorm:"type:text" json:"body"`
	ReceivedAt    time.Time         `json:"received_at"`
	Status        ApplicationStatus `json:"status"`
}

// ProcessedEmail guards at-most-once ingestion: one row per provider message id.
type ProcessedEmail struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
}
