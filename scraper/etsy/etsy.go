package etsy

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"weedwatch/models"
	"weedwatch/scraper"
	"weedwatch/utils"
)

const (
	siteName  = "Etsy"
	searchURL = "https://www.etsy.com/search?q="
)

// Scraper queries the Etsy search page. Etsy's listing anchors carry no
// usable price markup, so the price field is always empty.
type Scraper struct {
	client *http.Client
	logger *utils.Logger
}

// New creates a ready-to-use Etsy Scraper.
func New(timeout time.Duration, logger *utils.Logger) *Scraper {
	return &Scraper{
		client: scraper.NewHTTPClient(timeout),
		logger: logger,
	}
}

func (s *Scraper) Name() string { return siteName }

// Search fetches one search-results page and extracts up to limit
// listings from the listing anchors.
func (s *Scraper) Search(ctx context.Context, query string, limit int) ([]models.Listing, error) {
	if limit < 1 {
		return nil, nil
	}
	pageURL := searchURL + scraper.QueryPath(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("etsy: build request: %w", err)
	}
	req.Header.Set("User-Agent", scraper.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("etsy: fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("etsy: fetch %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("etsy: parse response: %w", err)
	}

	results := make([]models.Listing, 0, limit)

	doc.Find("a.listing-link, a.wt-text-link").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if !strings.HasPrefix(href, "http") {
			return true
		}

		title := utils.CollapseSpace(a.Text())
		if title == "" {
			return true
		}

		results = append(results, models.Listing{
			Site:  siteName,
			Title: title,
			Price: "",
			URL:   href,
		})

		return len(results) < limit
	})

	s.logger.Debug("[etsy] %q returned %d listings", query, len(results))
	return results, nil
}
