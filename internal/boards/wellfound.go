package boards

import (
	"context"
	"fmt"
	"time"
)

// WellfoundSource serves fixture postings until API access is wired up.
type WellfoundSource struct{}

func (s *WellfoundSource) Name() string { return "wellfound" }

func (s *WellfoundSource) Search(ctx context.Context, keywords, _ string) ([]Posting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []Posting{
		{
			Title:       fmt.Sprintf("%s Engineer", keywords),
			Company:     "Startup Inc",
			Description: fmt.Sprintf("Join our team as a %s engineer", keywords),
			Location:    "Remote",
			URL:         "https://wellfound.com/jobs/123",
			PostedDate:  time.Now(),
		},
	}, nil
}
