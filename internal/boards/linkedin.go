package boards

import (
	"context"
	"fmt"
	"time"
)

// LinkedInSource returns representative postings. The official API needs a
// partner agreement, so until that lands this board serves fixture data in
// the real response shape.
type LinkedInSource struct{}

func (s *LinkedInSource) Name() string { return "linkedin" }

func (s *LinkedInSource) Search(ctx context.Context, keywords, location string) ([]Posting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if location == "" {
		location = "Remote"
	}
	return []Posting{
		{
			Title:       fmt.Sprintf("Senior %s Developer", keywords),
			Company:     "Tech Corp",
			Description: fmt.Sprintf("Looking for a %s developer with 5+ years experience", keywords),
			Location:    location,
			URL:         "https://linkedin.com/jobs/view/123",
			PostedDate:  time.Now(),
		},
	}, nil
}
