package status

import (
	"sync"
	"time"

	"weedwatch/models"
)

// Snapshot is a point-in-time copy of the run state, safe to read
// while a scan is mutating the store.
type Snapshot struct {
	Running   bool
	Progress  string
	Error     string
	Results   []models.ResultRow
	Summary   *models.ScanSummary
	LastRunAt time.Time
}

// Store holds the state of the current or most recent scan. All field
// access goes through one mutex, so the presentation layer can read
// while the scan worker writes, and the running check and the
// running transition happen in a single critical section.
type Store struct {
	mu        sync.Mutex
	running   bool
	progress  string
	lastError string
	results   []models.ResultRow
	summary   *models.ScanSummary
	lastRunAt time.Time
}

// NewStore creates an idle Store.
func NewStore() *Store {
	return &Store{}
}

// TryStart attempts the idle→running transition. It returns false,
// changing nothing, if a scan is already running. On success the
// previous run's progress, error and results are reset.
func (s *Store) TryStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return false
	}
	s.running = true
	s.progress = "Starting..."
	s.lastError = ""
	s.results = nil
	s.summary = nil
	return true
}

// SetProgress updates the human-readable progress line.
func (s *Store) SetProgress(progress string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = progress
}

// SetError records the latest run-level error. Only the most recent
// error is retained.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

// Finish ends the running scan, freezing its results. A non-empty
// errMsg marks the whole scan as failed; results may still be partial.
func (s *Store) Finish(results []models.ResultRow, summary *models.ScanSummary, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	if errMsg != "" {
		s.lastError = errMsg
	}
	s.results = results
	s.summary = summary
	s.lastRunAt = time.Now()
}

// Snapshot returns a copy of the current state. The results slice is
// copied so callers can iterate it without holding the lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]models.ResultRow, len(s.results))
	copy(results, s.results)

	return Snapshot{
		Running:   s.running,
		Progress:  s.progress,
		Error:     s.lastError,
		Results:   results,
		Summary:   s.summary,
		LastRunAt: s.lastRunAt,
	}
}
