package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readerFeed = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Reader Feed</title>
    <item><title>One</title><link>https://example.com/1</link></item>
    <item><title>Two</title><link>https://example.com/2</link></item>
  </channel>
</rss>`

func TestReader_Read(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(readerFeed))
	}))
	defer server.Close()

	reader := NewReader(server.Client(), NewParser(), "rss-sieve-test")
	entries, err := reader.Read(context.Background(), Source{Name: "test", URL: server.URL, MaxItems: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "One", entries[0].Title)
	assert.Equal(t, "rss-sieve-test", gotUserAgent)
}

func TestReader_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	reader := NewReader(server.Client(), NewParser(), "rss-sieve-test")
	_, err := reader.Read(context.Background(), Source{Name: "test", URL: server.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestReader_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>not a feed</body></html>"))
	}))
	defer server.Close()

	reader := NewReader(server.Client(), NewParser(), "rss-sieve-test")
	_, err := reader.Read(context.Background(), Source{Name: "test", URL: server.URL})
	assert.Error(t, err)
}
