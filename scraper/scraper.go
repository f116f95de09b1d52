package scraper

import (
	"context"
	"net/http"
	"strings"
	"time"

	"weedwatch/models"
)

// UserAgent is the browser identity sent on every marketplace request.
// Marketplaces serve a degraded or empty page to unknown agents.
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/121.0.0.0 Safari/537.36"

// Provider is implemented by each marketplace client. Search returns
// up to limit listings for a free-text query; a failing provider
// returns an error and the caller decides whether the scan continues.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]models.Listing, error)
}

// NewHTTPClient returns the shared client shape for page fetches: one
// fixed timeout, no cookie jar, default transport.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// QueryPath joins query tokens with "+" for use in search URLs,
// collapsing any whitespace in the process.
func QueryPath(query string) string {
	return strings.Join(strings.Fields(query), "+")
}
