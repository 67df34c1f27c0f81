package dtos

// UserStats is the per-user application summary. Optional fields are
// pointers so they disappear from the JSON body when undefined rather
// than reading as zero.
type UserStats struct {
	TotalApplications int `json:"total_applications"`
	Seen              int `json:"seen"`
	Rejected          int `json:"rejected"`
	Ghosted           int `json:"ghosted"`
	Interview         int `json:"interview"`
	ResumeVersions    int `json:"resume_versions"`

	AverageResponseTime   *float64 `json:"average_response_time,omitempty"` // hours
	SuccessRate           *float64 `json:"success_rate,omitempty"`          // percent
	MostCommonRejection   *string  `json:"most_common_rejection,omitempty"`
	TopSkillsMatched      []string `json:"top_skills_matched,omitempty"`
	PreferredRolesMatched []string `json:"preferred_roles_matched,omitempty"`
}
