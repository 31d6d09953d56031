package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/pfrederiksen/expat-events/internal/config"
)

// ErrUnexpectedStatus is returned when a page responds with anything but 200 OK.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Fetcher downloads listing pages.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a Fetcher. Zero values fall back to config.DefaultUserAgent
// and config.DefaultTimeout.
func NewFetcher(userAgent string, timeout time.Duration) *Fetcher {
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Fetch downloads url and parses it as HTML. The body is decoded to UTF-8 using the
// Content-Type header or the document's meta charset.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	switch {
	case errors.Is(err, io.EOF):
		// Empty body: an empty document, which holds no table.
		body = strings.NewReader("")
	case err != nil:
		return nil, fmt.Errorf("decoding page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
