package boards

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const remoteOKEndpoint = "https://remoteok.com/api"

// RemoteOKSource queries the public RemoteOK JSON feed.
type RemoteOKSource struct {
	endpoint   string
	httpClient *http.Client
}

func NewRemoteOKSource(timeout time.Duration) *RemoteOKSource {
	return &RemoteOKSource{
		endpoint: remoteOKEndpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *RemoteOKSource) Name() string { return "remoteok" }

// remoteOKJob mirrors the feed's field names. The first element of the feed
// is a legal notice without a position, which the loop below skips.
type remoteOKJob struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Date        string `json:"date"`
}

func (s *RemoteOKSource) Search(ctx context.Context, keywords, _ string) ([]Posting, error) {
	reqURL := s.endpoint + "?tags=" + url.QueryEscape(keywords)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create RemoteOK request")
	}
	req.Header.Set("User-Agent", "jobagent/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "RemoteOK request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("RemoteOK returned status %d", resp.StatusCode)
	}

	var feed []remoteOKJob
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, errors.Wrap(err, "failed to decode RemoteOK feed")
	}

	var postings []Posting
	for _, job := range feed {
		if job.Position == "" || job.URL == "" {
			continue
		}
		posted, err := time.Parse(time.RFC3339, job.Date)
		if err != nil {
			posted = time.Now()
		}
		postings = append(postings, Posting{
			Title:       job.Position,
			Company:     job.Company,
			Description: job.Description,
			Location:    "Remote",
			URL:         job.URL,
			PostedDate:  posted,
		})
	}
	return postings, nil
}
