package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceClientSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/research", r.URL.Path)

		var req researchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "solar power news", req.Query)
		assert.Equal(t, 5, req.MaxResults)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"url": "https://example.com/1", "title": "One", "content": "body one",
			 "main_image": "https://example.com/1.jpg", "publish_date": "2026-08-01", "source": "example.com"},
			{"url": "https://example.com/2", "title": "Two", "content": "body two"}
		]`))
	}))
	defer server.Close()

	client, err := NewServiceClient(server.URL)
	require.NoError(t, err)

	docs, err := client.Search(context.Background(), "solar power news", 5)
	assert.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "https://example.com/1", docs[0].URL)
	assert.Equal(t, "https://example.com/1.jpg", docs[0].MainImage)
	assert.Equal(t, "body two", docs[1].Content)
}

func TestServiceClientEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewServiceClient(server.URL)
	require.NoError(t, err)

	docs, err := client.Search(context.Background(), "nothing", 5)
	assert.NoError(t, err)
	assert.Empty(t, docs)
}

func TestServiceClientHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "scraper overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewServiceClient(server.URL)
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "query", 5)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestServiceClientBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client, err := NewServiceClient(server.URL)
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "query", 5)
	assert.Error(t, err)
}

func TestServiceClientRequiresBaseURL(t *testing.T) {
	t.Setenv("SCRAPER_API_URL", "")
	_, err := NewServiceClient("")
	assert.Error(t, err)
}

const testPage = `<!DOCTYPE html>
<html>
<head>
	<title>Fallback Title</title>
	<meta property="og:title" content="Solar Farms Expand" />
	<meta property="og:image" content="https://cdn.example.com/cover.jpg" />
	<meta property="article:published_time" content="2026-08-15T10:00:00Z" />
</head>
<body>
	<article>
		<h1>Solar Farms Expand</h1>
		<p>Utilities are adding capacity at record pace.</p>
		<img src="/images/inline.jpg" />
		<img src="data:image/png;base64,AAAA" />
		<img src="https://cdn.example.com/chart.png" />
	</article>
</body>
</html>`

func TestPageFetcherExtractsDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(testPage))
	}))
	defer server.Close()

	fetcher := NewPageFetcher(WithUserAgent("agent-test/1.0"))

	doc, err := fetcher.Fetch(context.Background(), server.URL+"/story")
	require.NoError(t, err)

	assert.Equal(t, "Solar Farms Expand", doc.Title)
	assert.Equal(t, "https://cdn.example.com/cover.jpg", doc.MainImage)
	assert.Equal(t, "2026-08-15T10:00:00Z", doc.PublishDate)
	assert.Contains(t, doc.Content, "record pace")

	// The data: URI is dropped, the relative path is made absolute.
	require.Len(t, doc.Images, 2)
	assert.Equal(t, server.URL+"/images/inline.jpg", doc.Images[0])
	assert.Equal(t, "https://cdn.example.com/chart.png", doc.Images[1])
}

func TestPageFetcherStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewPageFetcher()

	_, err := fetcher.Fetch(context.Background(), server.URL)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestServiceClientBackfillsEmptyContent(t *testing.T) {
	pageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(testPage))
	}))
	defer pageServer.Close()

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := []Document{{URL: pageServer.URL + "/story", Title: "Stub"}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer apiServer.Close()

	client, err := NewServiceClient(apiServer.URL, WithPageFetcher(NewPageFetcher()))
	require.NoError(t, err)

	docs, err := client.Search(context.Background(), "solar", 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Equal(t, "Stub", docs[0].Title)
	assert.Contains(t, docs[0].Content, "record pace")
	assert.Equal(t, "https://cdn.example.com/cover.jpg", docs[0].MainImage)
}
