// NeoDB item page scraper
package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/markx/internal/shared"
)

const (
	// DefaultOrigin is prefixed to root-relative cover paths.
	DefaultOrigin = "https://neodb.social"
	// DefaultUserAgent mimics a desktop browser; NeoDB serves a reduced page to unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 10 * time.Second

	coverSelector = "#item-cover img"
)

// NeoDBService scrapes cover images from NeoDB item pages.
type NeoDBService struct {
	origin     string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
}

// NewNeoDBService creates a NeoDB scraper. Empty arguments fall back to the package defaults.
func NewNeoDBService(origin, userAgent string, timeout time.Duration, client *http.Client) *NeoDBService {
	if origin == "" {
		origin = DefaultOrigin
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &NeoDBService{
		origin:     strings.TrimRight(origin, "/"),
		userAgent:  userAgent,
		timeout:    timeout,
		httpClient: client,
	}
}

// Name returns the catalog name.
func (n *NeoDBService) Name() string { return "NeoDB" }

// CoverURL fetches link and returns the cover image URL found under #item-cover.
func (n *NeoDBService) CoverURL(ctx context.Context, link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", shared.ErrEmptyCoverLink
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", shared.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d for %s", shared.ErrFetchFailed, resp.StatusCode, link)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse page: %v", shared.ErrFetchFailed, err)
	}

	src, ok := doc.Find(coverSelector).First().Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrCoverNotFound, link)
	}

	return n.resolve(strings.TrimSpace(src)), nil
}

// resolve prefixes root-relative paths with the origin. Other values are returned unchanged.
func (n *NeoDBService) resolve(src string) string {
	if strings.HasPrefix(src, "/") && !strings.HasPrefix(src, "//") {
		return n.origin + src
	}
	return src
}
