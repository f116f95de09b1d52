package ebay

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"weedwatch/utils"
)

const searchPage = `<html><body><ul>
<li class="s-item">
  <a class="s-item__link" href="https://www.ebay.com/itm/0"></a>
  <div class="s-item__title">Shop on eBay</div>
  <div class="s-item__price">$20.00</div>
</li>
<li class="s-item">
  <div class="s-item__title">No link here</div>
</li>
<li class="s-item">
  <a class="s-item__link" href="https://www.ebay.com/itm/1"></a>
  <div class="s-item__title">Alligator  Weed
  Seeds</div>
  <div class="s-item__price">$5.00</div>
</li>
<li class="s-item">
  <a class="s-item__link" href="https://www.ebay.com/itm/2"></a>
  <div class="s-item__title">Giant Reed Cutting</div>
</li>
<li class="s-item">
  <a class="s-item__link" href="https://www.ebay.com/itm/3"></a>
  <div class="s-item__title">Third Listing</div>
  <div class="s-item__price">$9.99</div>
</li>
</ul></body></html>`

func newMockedScraper(t *testing.T) *Scraper {
	t.Helper()
	s := New(5*time.Second, utils.NewLogger())
	httpmock.ActivateNonDefault(s.client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return s
}

func TestSearchParsesListings(t *testing.T) {
	s := newMockedScraper(t)
	httpmock.RegisterResponder(http.MethodGet, "https://www.ebay.com/sch/i.html",
		httpmock.NewStringResponder(http.StatusOK, searchPage))

	got, err := s.Search(context.Background(), "Alligator weed Alligator Weed", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d listings, want 3 (placeholder and linkless entries skipped)", len(got))
	}

	first := got[0]
	if first.Site != "eBay" {
		t.Errorf("site = %q", first.Site)
	}
	if first.Title != "Alligator Weed Seeds" {
		t.Errorf("title = %q; want collapsed whitespace", first.Title)
	}
	if first.Price != "$5.00" {
		t.Errorf("price = %q", first.Price)
	}
	if first.URL != "https://www.ebay.com/itm/1" {
		t.Errorf("url = %q", first.URL)
	}

	if got[1].Price != "" {
		t.Errorf("listing without price markup should have empty price, got %q", got[1].Price)
	}
}

func TestSearchHonorsLimit(t *testing.T) {
	s := newMockedScraper(t)
	httpmock.RegisterResponder(http.MethodGet, "https://www.ebay.com/sch/i.html",
		httpmock.NewStringResponder(http.StatusOK, searchPage))

	got, err := s.Search(context.Background(), "weed", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d listings, want 1", len(got))
	}
	if got[0].Title != "Alligator Weed Seeds" {
		t.Errorf("limit should keep the first real listing, got %q", got[0].Title)
	}
}

func TestSearchNonSuccessStatus(t *testing.T) {
	s := newMockedScraper(t)
	httpmock.RegisterResponder(http.MethodGet, "https://www.ebay.com/sch/i.html",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "slow down"))

	if _, err := s.Search(context.Background(), "weed", 3); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestSearchSendsBrowserUserAgent(t *testing.T) {
	s := newMockedScraper(t)

	var gotUA string
	httpmock.RegisterResponder(http.MethodGet, "https://www.ebay.com/sch/i.html",
		func(req *http.Request) (*http.Response, error) {
			gotUA = req.Header.Get("User-Agent")
			return httpmock.NewStringResponse(http.StatusOK, "<html></html>"), nil
		})

	if _, err := s.Search(context.Background(), "weed", 3); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotUA == "" || gotUA == "Go-http-client/1.1" {
		t.Errorf("user agent = %q; want a browser identity", gotUA)
	}
}
