package storage

import "weedwatch/models"

// ResultWriter is the interface any scan-result sink must satisfy.
// Writers receive the full result set of one completed scan.
type ResultWriter interface {
	Write(rows []models.ResultRow) error
	Close() error
}
