package boards

import (
	"context"
	"log"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// Aggregator fans a search out to every registered source and concatenates
// the results in registration order.
type Aggregator struct {
	sources       []Source
	sourceTimeout time.Duration
}

func NewAggregator(sourceTimeout time.Duration, sources ...Source) *Aggregator {
	return &Aggregator{
		sources:       sources,
		sourceTimeout: sourceTimeout,
	}
}

// Register appends a source; search order follows registration order.
func (a *Aggregator) Register(s Source) {
	a.sources = append(a.sources, s)
}

// SearchAll queries each source in turn. A failing or timed-out board is
// logged and contributes nothing; it never aborts the aggregate search.
// Postings sharing a URL within one batch are collapsed to the first one
// encountered.
func (a *Aggregator) SearchAll(ctx context.Context, keywords, location string) []Posting {
	var all []Posting
	seen := mapset.NewSet[string]()

	for _, source := range a.sources {
		postings, err := a.searchOne(ctx, source, keywords, location)
		if err != nil {
			log.Printf("⚠️ Board %s unavailable, skipping: %v", source.Name(), err)
			continue
		}
		for _, p := range postings {
			if p.URL != "" && !seen.Add(p.URL) {
				continue
			}
			p.Source = source.Name()
			all = append(all, p)
		}
		log.Printf("🔎 Board %s returned %d postings", source.Name(), len(postings))
	}
	return all
}

func (a *Aggregator) searchOne(ctx context.Context, source Source, keywords, location string) ([]Posting, error) {
	timeout := a.sourceTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return source.Search(ctx, keywords, location)
}
