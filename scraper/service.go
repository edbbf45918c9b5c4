package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultServiceTimeout = 60 * time.Second

// ServiceClient calls the external research/scraper service. The service
// exposes a single POST /research endpoint taking {query, max_results} and
// returning a JSON array of documents.
type ServiceClient struct {
	baseURL string
	client  *http.Client
	fetcher *PageFetcher
}

var _ Source = (*ServiceClient)(nil)

// ServiceOption configures a ServiceClient.
type ServiceOption func(*ServiceClient)

// WithHTTPClient overrides the HTTP client, e.g. to change timeouts.
func WithHTTPClient(client *http.Client) ServiceOption {
	return func(s *ServiceClient) {
		s.client = client
	}
}

// WithPageFetcher enables content backfill: documents the service returns
// without content are re-fetched directly from their URL.
func WithPageFetcher(fetcher *PageFetcher) ServiceOption {
	return func(s *ServiceClient) {
		s.fetcher = fetcher
	}
}

// NewServiceClient creates a client for the research service at baseURL.
// If baseURL is empty, it tries the SCRAPER_API_URL environment variable.
func NewServiceClient(baseURL string, opts ...ServiceOption) (*ServiceClient, error) {
	if baseURL == "" {
		baseURL = os.Getenv("SCRAPER_API_URL")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("SCRAPER_API_URL not set")
	}

	s := &ServiceClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultServiceTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

type researchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// Search issues one research call and returns the documents found.
func (s *ServiceClient) Search(ctx context.Context, query string, maxResults int) ([]Document, error) {
	body, err := json.Marshal(researchRequest{Query: query, MaxResults: maxResults})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/research", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("research request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scraper service returned %d: %s", resp.StatusCode, string(snippet))
	}

	var docs []Document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if s.fetcher != nil {
		s.backfill(ctx, docs)
	}

	return docs, nil
}

// backfill re-fetches documents that came back without content. A fetch
// failure leaves the document as the service returned it.
func (s *ServiceClient) backfill(ctx context.Context, docs []Document) {
	for i := range docs {
		if docs[i].Content != "" || docs[i].URL == "" {
			continue
		}

		fetched, err := s.fetcher.Fetch(ctx, docs[i].URL)
		if err != nil {
			continue
		}

		docs[i].Content = fetched.Content
		if docs[i].Title == "" {
			docs[i].Title = fetched.Title
		}
		if docs[i].MainImage == "" {
			docs[i].MainImage = fetched.MainImage
		}
		if len(docs[i].Images) == 0 {
			docs[i].Images = fetched.Images
		}
		if docs[i].PublishDate == "" {
			docs[i].PublishDate = fetched.PublishDate
		}
	}
}
