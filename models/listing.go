package models

import "time"

// Listing is one marketplace search hit exactly as scraped.
// Price stays a raw display string; some marketplaces never expose one.
type Listing struct {
	Site  string
	Title string
	Price string
	URL   string
}

// ResultRow is a Listing joined with the species metadata of the scan
// target that produced it. The result set of one scan is an ordered
// slice of these, in discovery order.
type ResultRow struct {
	ScientificName string
	CommonName     string
	Rating         string
	IsCCR          bool
	Site           string
	Title          string
	Price          string
	URL            string
}

// ScanSummary holds the aggregate stats computed over one completed scan.
type ScanSummary struct {
	TotalListings   int
	FlaggedListings int
	SpeciesScanned  int
	ListingsBySite  map[string]int
	ListingsByRate  map[string]int
	GeneratedAt     time.Time
}
