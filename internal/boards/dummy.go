package boards

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DummySource fabricates postings built around the search keywords so the
// pipeline can be exercised end to end without any board being reachable.
type DummySource struct {
	// PostingCount defaults to 5 when zero
	PostingCount int
}

func (s *DummySource) Name() string { return "dummy" }

func (s *DummySource) Search(ctx context.Context, keywords, location string) ([]Posting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	count := s.PostingCount
	if count == 0 {
		count = 5
	}
	if location == "" {
		location = "Remote"
	}

	role := strings.TrimSpace(keywords)
	if role == "" {
		role = "Software Engineer"
	}

	postings := make([]Posting, 0, count)
	for i := 0; i < count; i++ {
		postings = append(postings, Posting{
			Title:       role,
			Company:     fmt.Sprintf("Company %d", i+1),
			Description: fmt.Sprintf("Looking for a %s to join the team", role),
			Location:    location,
			URL:         "https://example.com/job/" + uuid.NewString(),
			PostedDate:  time.Now(),
		})
	}
	return postings, nil
}
