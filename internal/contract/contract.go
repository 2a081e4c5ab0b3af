// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/scangrade/scangrade/schema"
)

// StoreManager provides access to the persistence stores. Either store
// may be nil when its backend is disabled.
type StoreManager interface {
	// GetGradeCacheStore returns the grade cache store.
	GetGradeCacheStore() CacheStore

	// GetRunStore returns the run tracking store.
	GetRunStore() RunStore
}

// CacheStore persists assembled report models keyed by content hash.
type CacheStore interface {
	// Get retrieves the value, schema version and timestamp for a key.
	Get(key string) ([]byte, int, int64, error)

	// Set stores a value with its schema version and timestamp.
	Set(key string, value []byte, version int, timestamp int64) error

	// GetStatus returns connection health and size statistics.
	GetStatus() (schema.CacheStatus, error)

	// Close releases the underlying connection.
	Close() error
}

// RunStore tracks grading runs and their per-image reports.
type RunStore interface {
	// BeginRun opens a run record and returns its ID.
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun finalizes a run with its end time and image total.
	EndRun(runID int64, endTime time.Time, totalImages int) error

	// RecordImageReport writes one per-image report row.
	RecordImageReport(record schema.ImageReportRecord) error

	// GetStatus returns connection health and run statistics.
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns retrieves every run record for export.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllImageReports retrieves every image report row for export.
	GetAllImageReports() ([]schema.ImageReportRecord, error)

	// Close releases the underlying connection.
	Close() error
}
