package services

import (
	"context"
	"fmt"
	"time"

	"weedwatch/models"
	"weedwatch/refdata"
	"weedwatch/scraper"
	"weedwatch/status"
	"weedwatch/storage"
	"weedwatch/utils"
)

// ScanOptions are the per-run knobs a trigger request may override.
type ScanOptions struct {
	MaxItems       int
	PerSiteResults int
}

// Scanner drives one complete scan: reference lists in, prioritized
// queue, one marketplace query per (target, provider) pair, merged
// result rows out. It runs on a single background goroutine with a
// fixed blocking throttle between targets; there is no retry and no
// concurrency across targets.
type Scanner struct {
	logger    *utils.Logger
	loader    *refdata.Loader
	providers []scraper.Provider
	state     *status.Store
	writers   []storage.ResultWriter
	summaries *SummaryService
	throttle  time.Duration
}

// NewScanner creates a Scanner. The providers slice determines both
// which marketplaces are queried and their per-target order.
func NewScanner(logger *utils.Logger, loader *refdata.Loader, state *status.Store,
	providers []scraper.Provider, writers []storage.ResultWriter, throttle time.Duration) *Scanner {
	return &Scanner{
		logger:    logger,
		loader:    loader,
		providers: providers,
		state:     state,
		writers:   writers,
		summaries: NewSummaryService(logger),
		throttle:  throttle,
	}
}

// Run executes one scan to completion and freezes the outcome in the
// status store. The caller must have claimed the store via TryStart.
// A failure escaping the per-target handling aborts the remaining
// queue and is recorded as the run error.
func (s *Scanner) Run(ctx context.Context, opts ScanOptions) {
	started := time.Now()
	rows, summary, err := s.scan(ctx, opts)
	if err != nil {
		s.logger.Error("[scan] Scan aborted: %v", err)
		s.state.Finish(rows, summary, err.Error())
		return
	}

	s.state.Finish(rows, summary, "")
	s.logger.Info("[scan] Scan finished in %s — %d listings", time.Since(started).Round(time.Millisecond), len(rows))

	s.export(rows)
}

func (s *Scanner) scan(ctx context.Context, opts ScanOptions) ([]models.ResultRow, *models.ScanSummary, error) {
	records, noxious, err := s.loader.Load()
	if err != nil {
		return nil, nil, err
	}

	queue := BuildQueue(records, opts.MaxItems)
	total := len(queue)
	s.state.SetProgress(fmt.Sprintf("Scanning %d species...", total))
	s.logger.Info("[scan] Queue built: %d targets, %d providers", total, len(s.providers))

	out := make([]models.ResultRow, 0)

	for i := range queue {
		target := &queue[i]

		// Combined flag: per-record flag OR noxious-list membership.
		target.IsCCR = target.IsCCR || noxious.Contains(target.ScientificName)

		s.state.SetProgress(fmt.Sprintf("[%d/%d] Searching: %s", i+1, total, target.Query))

		for _, p := range s.providers {
			hits, serr := p.Search(ctx, target.Query, opts.PerSiteResults)
			if serr != nil {
				// One failing marketplace never kills the scan; only
				// the most recent error is retained.
				msg := fmt.Sprintf("%s search failed for '%s': %v", p.Name(), target.Query, serr)
				s.logger.Warn("[scan] %s", msg)
				s.state.SetError(msg)
				continue
			}

			for _, h := range hits {
				out = append(out, models.ResultRow{
					ScientificName: target.ScientificName,
					CommonName:     target.CommonName,
					Rating:         target.Rating,
					IsCCR:          target.IsCCR,
					Site:           h.Site,
					Title:          h.Title,
					Price:          h.Price,
					URL:            h.URL,
				})
			}
		}

		time.Sleep(s.throttle)
	}

	s.state.SetProgress(fmt.Sprintf("Done. Found %d listings.", len(out)))

	return out, s.summaries.Generate(total, out), nil
}

// export hands the completed result set to the configured writers.
// Writer failures are logged and never affect the scan outcome.
func (s *Scanner) export(rows []models.ResultRow) {
	for _, w := range s.writers {
		if err := w.Write(rows); err != nil {
			s.logger.Error("[scan] Result export failed: %v", err)
		}
	}
}
