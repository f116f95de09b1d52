package amazon

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"weedwatch/models"
	"weedwatch/scraper"
	"weedwatch/utils"
)

const (
	siteName  = "Amazon"
	searchURL = "https://www.amazon.com/s?k="
)

// Scraper drives a headless browser against Amazon, which serves no
// usable markup to a plain HTTP client. It is disabled by default and
// only wired in when a Chrome binary is available.
type Scraper struct {
	chromeBin string
	logger    *utils.Logger
}

// New creates an Amazon Scraper. chromeBin may be empty, in which case
// a browser binary is located on PATH at run time.
func New(chromeBin string, logger *utils.Logger) *Scraper {
	return &Scraper{chromeBin: chromeBin, logger: logger}
}

func (s *Scraper) Name() string { return siteName }

// Search loads the search-results page in a headless browser and
// extracts up to limit result cards.
func (s *Scraper) Search(ctx context.Context, query string, limit int) ([]models.Listing, error) {
	if limit < 1 {
		return nil, nil
	}
	pageURL := searchURL + scraper.QueryPath(query)

	type cardData struct {
		Title string `json:"title"`
		Price string `json:"price"`
		URL   string `json:"url"`
	}
	var cards []cardData

	err := s.run(ctx, pageURL, 60*time.Second,
		chromedp.Evaluate(`
			(function() {
				var results = [];
				var limit = `+fmt.Sprintf("%d", limit)+`;
				var cards = document.querySelectorAll('div[data-component-type="s-search-result"]');
				for (var i = 0; i < cards.length && results.length < limit; i++) {
					var card = cards[i];
					var titleEl = card.querySelector('h2 a span') || card.querySelector('h2 span');
					var linkEl = card.querySelector('h2 a') || card.querySelector('a.a-link-normal');
					if (!titleEl || !linkEl || !linkEl.href) continue;
					var title = titleEl.innerText.trim();
					if (!title) continue;
					var priceEl = card.querySelector('span.a-price > span.a-offscreen');
					results.push({
						title: title,
						price: priceEl ? priceEl.innerText.trim() : '',
						url:   linkEl.href
					});
				}
				return results;
			})()
		`, &cards),
	)
	if err != nil {
		return nil, fmt.Errorf("amazon: search %q: %w", query, err)
	}

	results := make([]models.Listing, 0, len(cards))
	for _, c := range cards {
		if c.URL == "" {
			continue
		}
		results = append(results, models.Listing{
			Site:  siteName,
			Title: utils.CollapseSpace(c.Title),
			Price: utils.CollapseSpace(c.Price),
			URL:   c.URL,
		})
	}

	s.logger.Debug("[amazon] %q returned %d listings", query, len(results))
	return results, nil
}

// PageText loads an arbitrary URL and returns the visible body text.
// Used for manual spot checks of individual listing pages.
func (s *Scraper) PageText(ctx context.Context, pageURL string) (string, error) {
	var text string
	err := s.run(ctx, pageURL, 60*time.Second,
		chromedp.Evaluate(`document.body ? document.body.innerText : ''`, &text),
	)
	if err != nil {
		return "", fmt.Errorf("amazon: page text %s: %w", pageURL, err)
	}
	return text, nil
}

// run navigates to a URL in a fresh headless browser context and then
// executes the given actions.
func (s *Scraper) run(ctx context.Context, pageURL string, timeout time.Duration, actions ...chromedp.Action) error {
	chromeBin := s.chromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(scraper.UserAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	all := append([]chromedp.Action{
		chromedp.Navigate(pageURL),
		chromedp.Sleep(4 * time.Second),
	}, actions...)

	return chromedp.Run(browserCtx, all...)
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
