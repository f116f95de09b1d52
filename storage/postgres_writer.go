package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"weedwatch/models"
)

// PostgresWriter archives completed scan results to PostgreSQL. Each
// scan replaces the previous archive, mirroring the in-memory "last
// completed result set" semantics.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS scan_results (
			id              SERIAL PRIMARY KEY,
			scientific_name TEXT        NOT NULL,
			common_name     TEXT        NOT NULL DEFAULT '',
			rating          VARCHAR(10) NOT NULL DEFAULT 'N/A',
			is_ccr          BOOLEAN     NOT NULL DEFAULT FALSE,
			site            VARCHAR(50) NOT NULL,
			title           TEXT        NOT NULL,
			price           TEXT        NOT NULL DEFAULT '',
			url             TEXT        NOT NULL,
			archived_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_scan_results_species ON scan_results(scientific_name);
		CREATE INDEX IF NOT EXISTS idx_scan_results_rating  ON scan_results(rating);
		CREATE INDEX IF NOT EXISTS idx_scan_results_is_ccr  ON scan_results(is_ccr);
	`)
	return err
}

// Clear deletes the previous scan's archive.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM scan_results")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts one completed scan's rows, clearing the previous
// archive first.
func (pw *PostgresWriter) Write(rows []models.ResultRow) error {
	if err := pw.Clear(); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := pw.insertBatch(rows[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []models.ResultRow) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*8)

	for idx, r := range batch {
		base := idx * 8
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		valueArgs = append(valueArgs,
			r.ScientificName, r.CommonName, r.Rating, r.IsCCR, r.Site, r.Title, r.Price, r.URL)
	}

	query := fmt.Sprintf(`
		INSERT INTO scan_results (scientific_name, common_name, rating, is_ccr, site, title, price, url)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
