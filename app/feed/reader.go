package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Reader fetches a source over HTTP and parses it into entries.
type Reader struct {
	httpClient *http.Client
	parser     *Parser
	userAgent  string
}

func NewReader(httpClient *http.Client, parser *Parser, userAgent string) *Reader {
	return &Reader{
		httpClient: httpClient,
		parser:     parser,
		userAgent:  userAgent,
	}
}

func (r *Reader) Read(ctx context.Context, source Source) ([]Entry, error) {
	data, err := r.fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	entries, err := r.parser.Run(data, source.MaxItems)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Reader) fetch(ctx context.Context, source Source) ([]byte, error) {
	timeout := time.Duration(source.Timeout) * time.Second
	if timeout <= 0 {
		timeout = DefaultTimeout * time.Second
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
