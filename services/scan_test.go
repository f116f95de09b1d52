package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weedwatch/models"
	"weedwatch/refdata"
	"weedwatch/scraper"
	"weedwatch/status"
	"weedwatch/storage"
	"weedwatch/utils"
)

// stubProvider returns the same canned listings for any query.
type stubProvider struct {
	name     string
	listings []models.Listing
	err      error
	queries  []string
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Search(_ context.Context, query string, limit int) ([]models.Listing, error) {
	p.queries = append(p.queries, query)
	if p.err != nil {
		return nil, p.err
	}
	if len(p.listings) > limit {
		return p.listings[:limit], nil
	}
	return p.listings, nil
}

type failingWriter struct{ calls int }

func (w *failingWriter) Write([]models.ResultRow) error {
	w.calls++
	return errors.New("disk full")
}
func (w *failingWriter) Close() error { return nil }

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestScanner(t *testing.T, ratings, noxious string, providers []scraper.Provider,
	writers []storage.ResultWriter) (*Scanner, *status.Store) {
	t.Helper()
	logger := utils.NewLogger()
	loader := refdata.NewLoader(
		writeTempCSV(t, "ratings.csv", ratings),
		writeTempCSV(t, "noxious.csv", noxious),
		logger,
	)
	state := status.NewStore()
	return NewScanner(logger, loader, state, providers, writers, 0), state
}

const (
	ratingsOneRow = "Scientific Name,Common Name,CDFA Pest Rating,CCR 4500 Noxious Weeds\n" +
		"Alligator weed,Alligator Weed,A,no\n"
	noxiousEmpty = "Scientific Name,Common Name\n"
)

func TestScanEndToEnd(t *testing.T) {
	stub := &stubProvider{
		name: "eBay",
		listings: []models.Listing{
			{Site: "eBay", Title: "Alligator Weed Seeds", Price: "$5.00", URL: "http://example/1"},
		},
	}

	scanner, state := newTestScanner(t, ratingsOneRow, noxiousEmpty,
		[]scraper.Provider{stub}, nil)

	if !state.TryStart() {
		t.Fatal("TryStart failed")
	}
	scanner.Run(context.Background(), ScanOptions{MaxItems: 1, PerSiteResults: 1})

	snap := state.Snapshot()
	if snap.Running {
		t.Error("running flag should be cleared")
	}
	if snap.Error != "" {
		t.Errorf("unexpected error: %q", snap.Error)
	}
	if len(snap.Results) != 1 {
		t.Fatalf("got %d result rows, want 1", len(snap.Results))
	}

	row := snap.Results[0]
	if row.ScientificName != "Alligator weed" {
		t.Errorf("scientific_name = %q", row.ScientificName)
	}
	if row.Rating != "A" {
		t.Errorf("rating = %q", row.Rating)
	}
	if row.IsCCR {
		t.Error("is_ccr should be false: record flag false and noxious set empty")
	}
	if row.Site != "eBay" || row.Title != "Alligator Weed Seeds" || row.Price != "$5.00" || row.URL != "http://example/1" {
		t.Errorf("listing fields not carried over: %+v", row)
	}

	if !strings.Contains(snap.Progress, "Found 1 listings.") {
		t.Errorf("final progress = %q; want it to report \"Found 1 listings.\"", snap.Progress)
	}

	if len(stub.queries) != 1 || stub.queries[0] != "Alligator weed Alligator Weed" {
		t.Errorf("provider queried with %v", stub.queries)
	}
}

func TestScanCombinedFlagFromNoxiousSet(t *testing.T) {
	stub := &stubProvider{
		name:     "eBay",
		listings: []models.Listing{{Site: "eBay", Title: "hit", URL: "http://example/1"}},
	}

	// Record flag is false but the normalized name is on the noxious list.
	scanner, state := newTestScanner(t,
		"Scientific Name,Common Name,CDFA Pest Rating,CCR 4500 Noxious Weeds\nFoo bar,Foobar,B,no\n",
		"Scientific Name,Common Name\nFOO   BAR,Foobar\n",
		[]scraper.Provider{stub}, nil)

	state.TryStart()
	scanner.Run(context.Background(), ScanOptions{MaxItems: 5, PerSiteResults: 1})

	snap := state.Snapshot()
	if len(snap.Results) != 1 {
		t.Fatalf("got %d rows, want 1", len(snap.Results))
	}
	if !snap.Results[0].IsCCR {
		t.Error("combined flag must be true when the noxious set contains the normalized name")
	}
}

func TestScanProviderFailureIsNonFatal(t *testing.T) {
	failing := &stubProvider{name: "eBay", err: errors.New("status 503")}
	working := &stubProvider{
		name:     "Etsy",
		listings: []models.Listing{{Site: "Etsy", Title: "still here", URL: "http://example/2"}},
	}

	scanner, state := newTestScanner(t, ratingsOneRow, noxiousEmpty,
		[]scraper.Provider{failing, working}, nil)

	state.TryStart()
	scanner.Run(context.Background(), ScanOptions{MaxItems: 1, PerSiteResults: 3})

	snap := state.Snapshot()
	if len(snap.Results) != 1 {
		t.Fatalf("working provider's listings should survive, got %d rows", len(snap.Results))
	}
	if !strings.Contains(snap.Error, "eBay search failed for 'Alligator weed Alligator Weed'") {
		t.Errorf("error = %q; want the per-target failure message", snap.Error)
	}
	if !strings.Contains(snap.Progress, "Done. Found 1 listings.") {
		t.Errorf("scan should run to completion, progress = %q", snap.Progress)
	}
}

func TestScanReferenceLoadFailureAbortsRun(t *testing.T) {
	logger := utils.NewLogger()
	loader := refdata.NewLoader(filepath.Join(t.TempDir(), "missing.csv"), filepath.Join(t.TempDir(), "missing2.csv"), logger)
	state := status.NewStore()
	scanner := NewScanner(logger, loader, state, nil, nil, 0)

	state.TryStart()
	scanner.Run(context.Background(), ScanOptions{MaxItems: 1, PerSiteResults: 1})

	snap := state.Snapshot()
	if snap.Running {
		t.Error("running flag must be cleared after a whole-scan failure")
	}
	if snap.Error == "" {
		t.Error("whole-scan failure must be recorded as the run error")
	}
}

func TestScanWriterFailureIsNonFatal(t *testing.T) {
	stub := &stubProvider{
		name:     "eBay",
		listings: []models.Listing{{Site: "eBay", Title: "hit", URL: "http://example/1"}},
	}
	w := &failingWriter{}

	scanner, state := newTestScanner(t, ratingsOneRow, noxiousEmpty,
		[]scraper.Provider{stub}, []storage.ResultWriter{w})

	state.TryStart()
	scanner.Run(context.Background(), ScanOptions{MaxItems: 1, PerSiteResults: 1})

	snap := state.Snapshot()
	if w.calls != 1 {
		t.Errorf("writer called %d times, want 1", w.calls)
	}
	if snap.Error != "" {
		t.Errorf("writer failure must not become the run error, got %q", snap.Error)
	}
	if len(snap.Results) != 1 {
		t.Errorf("results must survive a writer failure")
	}
}

func TestScanSummary(t *testing.T) {
	svc := NewSummaryService(utils.NewLogger())
	rows := []models.ResultRow{
		{Site: "eBay", Rating: "A", IsCCR: true},
		{Site: "eBay", Rating: "B"},
		{Site: "Etsy", Rating: "A"},
	}

	got := svc.Generate(2, rows)
	if got.TotalListings != 3 || got.FlaggedListings != 1 || got.SpeciesScanned != 2 {
		t.Errorf("summary counts wrong: %+v", got)
	}
	if got.ListingsBySite["eBay"] != 2 || got.ListingsBySite["Etsy"] != 1 {
		t.Errorf("by-site counts wrong: %v", got.ListingsBySite)
	}
	if got.ListingsByRate["A"] != 2 {
		t.Errorf("by-rating counts wrong: %v", got.ListingsByRate)
	}
}
