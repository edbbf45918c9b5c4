// Package scraper provides the research capability the agent consumes:
// given a search query, return candidate source documents with their
// content, images and metadata.
//
// ServiceClient talks to the external research/scraper HTTP service.
// PageFetcher pulls a single page directly and extracts the same document
// shape from its HTML; the service client can use it to backfill documents
// the service returned without content.
package scraper

import "context"

// Document is one scraped candidate source.
type Document struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	MainImage   string   `json:"main_image,omitempty"`
	Images      []string `json:"images,omitempty"`
	PublishDate string   `json:"publish_date,omitempty"`
	Source      string   `json:"source,omitempty"`
}

// Source finds candidate documents for a search query. Implementations may
// return an empty list; no ordering is guaranteed.
type Source interface {
	Search(ctx context.Context, query string, maxResults int) ([]Document, error)
}
