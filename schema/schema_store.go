package schema

import "time"

// CacheStatus represents the status of the grade cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// RunStatus represents the status of the run store.
type RunStatus struct {
	Backend           string           `json:"backend"`
	Connected         bool             `json:"connected"`
	TotalRuns         int              `json:"total_runs"`
	LastRunID         int64            `json:"last_run_id"`
	LastRunTime       time.Time        `json:"last_run_time"`
	OldestRunTime     time.Time        `json:"oldest_run_time"`
	TotalImagesGraded int              `json:"total_images_graded"`
	TableSizes        map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the scangrade_runs table.
type RunRecord struct {
	RunID             int64
	StartTime         time.Time
	EndTime           *time.Time
	RunDurationMs     *int32
	TotalImagesGraded int32
	ConfigParams      *string
}

// ImageReportRecord represents a row from the scangrade_image_reports table.
type ImageReportRecord struct {
	RunID            int64
	Image            string
	GradedAt         time.Time
	OverallScore     float64
	StarRating       int32
	Tier             string
	ComplianceLevel  string
	ViolationCount   int32
	ExcellentMetrics int32
	GoodMetrics      int32
	FairMetrics      int32
	PoorMetrics      int32
	Recommendations  *string // JSON-encoded recommendation list
}
