package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

const (
	defaultFetchTimeout = 30 * time.Second
	maxImagesPerPage    = 10
)

// PageFetcher pulls a single page and extracts a Document from its HTML:
// title and main image from Open Graph metadata, inline images from the
// article body, and the body itself converted to markdown.
type PageFetcher struct {
	client    *http.Client
	converter *md.Converter
	userAgent string
}

// PageFetcherOption configures a PageFetcher.
type PageFetcherOption func(*PageFetcher)

// WithFetchClient overrides the HTTP client used for page fetches.
func WithFetchClient(client *http.Client) PageFetcherOption {
	return func(f *PageFetcher) {
		f.client = client
	}
}

// WithUserAgent sets the User-Agent header sent with page fetches.
func WithUserAgent(userAgent string) PageFetcherOption {
	return func(f *PageFetcher) {
		f.userAgent = userAgent
	}
}

// NewPageFetcher creates a PageFetcher with default settings.
func NewPageFetcher(opts ...PageFetcherOption) *PageFetcher {
	f := &PageFetcher{
		client:    &http.Client{Timeout: defaultFetchTimeout},
		converter: md.NewConverter("", true, nil),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads pageURL and extracts a Document from it.
func (f *PageFetcher) Fetch(ctx context.Context, pageURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url %s: %w", pageURL, err)
	}

	result := &Document{
		URL:         pageURL,
		Title:       extractTitle(doc),
		MainImage:   metaContent(doc, "og:image"),
		PublishDate: metaContent(doc, "article:published_time"),
		Source:      base.Host,
	}

	body := doc.Find("article")
	if body.Length() == 0 {
		body = doc.Find("body")
	}

	body.Find("img").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			return true
		}
		if resolved := resolveURL(base, src); resolved != "" {
			result.Images = append(result.Images, resolved)
		}
		return len(result.Images) < maxImagesPerPage
	})

	if html, err := body.Html(); err == nil {
		if markdown, err := f.converter.ConvertString(html); err == nil {
			result.Content = strings.TrimSpace(markdown)
		}
	}

	return result, nil
}

func extractTitle(doc *goquery.Document) string {
	if title := metaContent(doc, "og:title"); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func metaContent(doc *goquery.Document, property string) string {
	sel := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

// resolveURL makes src absolute against base, dropping anything that does
// not resolve to http(s).
func resolveURL(base *url.URL, src string) string {
	ref, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}
