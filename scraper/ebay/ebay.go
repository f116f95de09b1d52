package ebay

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"weedwatch/models"
	"weedwatch/scraper"
	"weedwatch/utils"
)

const (
	siteName  = "eBay"
	searchURL = "https://www.ebay.com/sch/i.html?_nkw="

	// eBay pads result pages with a generic "Shop on eBay" tile that
	// is not a real listing.
	placeholderTitle = "shop on ebay"
)

// Scraper queries the eBay search page and parses listing tiles.
type Scraper struct {
	client *http.Client
	logger *utils.Logger
}

// New creates a ready-to-use eBay Scraper.
func New(timeout time.Duration, logger *utils.Logger) *Scraper {
	return &Scraper{
		client: scraper.NewHTTPClient(timeout),
		logger: logger,
	}
}

func (s *Scraper) Name() string { return siteName }

// Search fetches one search-results page and extracts up to limit
// listings. Network failures and non-success statuses propagate to the
// caller.
func (s *Scraper) Search(ctx context.Context, query string, limit int) ([]models.Listing, error) {
	if limit < 1 {
		return nil, nil
	}
	pageURL := searchURL + scraper.QueryPath(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ebay: build request: %w", err)
	}
	req.Header.Set("User-Agent", scraper.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ebay: fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("ebay: fetch %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ebay: parse response: %w", err)
	}

	results := make([]models.Listing, 0, limit)

	doc.Find("li.s-item").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		link := li.Find("a.s-item__link").First()
		titleEl := li.Find(".s-item__title").First()
		if link.Length() == 0 || titleEl.Length() == 0 {
			return true
		}

		title := utils.CollapseSpace(titleEl.Text())
		if title == "" || utils.Norm(title) == placeholderTitle {
			return true
		}

		href, _ := link.Attr("href")
		if href == "" {
			return true
		}

		price := utils.CollapseSpace(li.Find(".s-item__price").First().Text())

		results = append(results, models.Listing{
			Site:  siteName,
			Title: title,
			Price: price,
			URL:   href,
		})

		return len(results) < limit
	})

	s.logger.Debug("[ebay] %q returned %d listings", query, len(results))
	return results, nil
}
