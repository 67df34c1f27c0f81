package dtos

import "github.com/vrjob-ai/jobagent/internal/models"

// UserIntakeRequest is the JSON part of the multipart intake payload.
// The résumé file travels alongside it as "resume_file".
type UserIntakeRequest struct {
	FullName           string `json:"full_name"`
	Email              string `json:"email"`
	LocationPreference string `json:"location_preference"`
	YearsExperience    int    `json:"years_experience"`

	Skills       []string `json:"skills"`
	DesiredRoles []string `json:"desired_roles"`

	// Optional Fields
	Phone                 string   `json:"phone"`
	LinkedinURL           string   `json:"linkedin_url"`
	SalaryExpectation     *int     `json:"salary_expectation"`
	PreferredIndustries   []string `json:"preferred_industries"`
	WorkArrangements      []string `json:"work_arrangements"`
	VisaSponsorship       bool     `json:"visa_sponsorship"`
	RelocationWillingness bool     `json:"relocation_willingness"`
}

// ToModel builds the persistence entity. Enum validity is checked by the
// handler before this is called.
func (r *UserIntakeRequest) ToModel() models.User {
	return models.User{
		FullName:            r.FullName,
		Email:               r.Email,
		Phone:               r.Phone,
		LocationPreference:  models.LocationPreference(r.LocationPreference),
		YearsExperience:     r.YearsExperience,
		Skills:              r.Skills,
		DesiredRoles:        r.DesiredRoles,
		LinkedinURL:         r.LinkedinURL,
		SalaryExpectation:   r.SalaryExpectation,
		PreferredIndustries: r.PreferredIndustries,
		WorkArrangements:    r.WorkArrangements,
		VisaSponsorship:     r.VisaSponsorship,
		Relocation:          r.RelocationWillingness,
	}
}
