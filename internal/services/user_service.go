package services

import (
	"mime/multipart"

	"github.com/vrjob-ai/jobagent/internal/apperr"
	"github.com/vrjob-ai/jobagent/internal/dtos"
	"github.com/vrjob-ai/jobagent/internal/models"
	"github.com/vrjob-ai/jobagent/internal/resume"
	"gorm.io/gorm"
)

type UserService struct {
	DB      *gorm.DB
	Resumes *resume.Storage
}

func NewUserService(db *gorm.DB, resumes *resume.Storage) *UserService {
	return &UserService{DB: db, Resumes: resumes}
}

// Intake creates the user and their base résumé in one transaction.
// A duplicate email is a conflict; nothing is persisted in that case.
func (s *UserService) Intake(req *dtos.UserIntakeRequest, resumeFile *multipart.FileHeader) (*models.User, error) {
	if !models.LocationPreference(req.LocationPreference).Valid() {
		return nil, apperr.Validation("invalid location_preference: " + req.LocationPreference)
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to check existing email")
	}
	if count > 0 {
		return nil, apperr.Conflict("email already registered")
	}

	user := req.ToModel()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		path, content, err := s.Resumes.Save(user.ID, resumeFile)
		if err != nil {
			return err
		}

		baseResume := models.BaseResume{
			UserID:   user.ID,
			FilePath: path,
			Content:  content,
		}
		if err := tx.Create(&baseResume).Error; err != nil {
			return err
		}
		user.BaseResume = &baseResume
		return nil
	})
	if err != nil {
		return nil, apperr.Persistence(err, "failed to create user")
	}
	return &user, nil
}

// GetUser fetches a user by id.
func (s *UserService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Persistence(err, "failed to load user")
	}
	return &user, nil
}

// ListApplications returns the user's applications with their jobs preloaded.
func (s *UserService) ListApplications(userID uint) ([]models.JobApplication, error) {
	var applications []models.JobApplication
	err := s.DB.Preload("Job").Where("user_id = ?", userID).Order("applied_at DESC").Find(&applications).Error
	if err != nil {
		return nil, apperr.Persistence(err, "failed to load applications")
	}
	return applications, nil
}
