package services

import (
	"time"

	"weedwatch/models"
	"weedwatch/utils"
)

// SummaryService computes aggregate stats over one scan's result rows
// for the status page.
type SummaryService struct {
	logger *utils.Logger
}

// NewSummaryService creates a SummaryService with the given logger.
func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

// Generate builds the summary for a completed scan. speciesScanned is
// the size of the scanned queue, which can exceed the number of
// species that produced listings.
func (s *SummaryService) Generate(speciesScanned int, rows []models.ResultRow) *models.ScanSummary {
	summary := &models.ScanSummary{
		SpeciesScanned: speciesScanned,
		ListingsBySite: make(map[string]int),
		ListingsByRate: make(map[string]int),
		GeneratedAt:    time.Now(),
	}

	summary.TotalListings = len(rows)
	for _, r := range rows {
		if r.IsCCR {
			summary.FlaggedListings++
		}
		summary.ListingsBySite[r.Site]++
		summary.ListingsByRate[r.Rating]++
	}

	s.logger.Info("[summary] %d listings across %d species (%d flagged)",
		summary.TotalListings, speciesScanned, summary.FlaggedListings)
	return summary
}
