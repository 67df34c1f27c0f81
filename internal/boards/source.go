// Define an interface for all job sources
// Ensure every board yields the same posting shape

package boards

import (
	"context"
	"time"
)

// Posting is the canonical shape of one external job listing. Per-source
// response formats are normalized into this at the board boundary and
// never propagate downstream.
type Posting struct {
	Title       string
	Company     string
	Description string
	Location    string
	URL         string
	PostedDate  time.Time

	// Source is stamped by the aggregator from the owning board's Name
	Source string
}

// Source is one named job board. Search may fail independently; callers
// treat an error as "no results" for that board.
type Source interface {
	Search(ctx context.Context, keywords, location string) ([]Posting, error)

	// Name is the board name persisted as Job.Source
	Name() string
}
