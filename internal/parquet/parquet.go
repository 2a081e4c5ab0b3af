// Package parquet provides data structures and functions for exporting
// image quality grading data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/scangrade/scangrade/schema"
)

// QualityRun is the Parquet row shape of one grading run, mirroring the
// scangrade_runs table. The completion fields are optional since a run
// may still be in flight when exported.
type QualityRun struct {
	RunID             int64      `parquet:"run_id,snappy"`
	StartTime         time.Time  `parquet:"start_time,snappy"`
	EndTime           *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs     *int32     `parquet:"run_duration_ms,optional,snappy"`
	TotalImagesGraded int32      `parquet:"total_images_graded,snappy"`
	ConfigParams      *string    `parquet:"config_params,optional,snappy"`
}

// ImageReport is the Parquet row shape of one per-image report card,
// mirroring the scangrade_image_reports table. The four metric counters
// split the catalog by classification.
type ImageReport struct {
	RunID            int64     `parquet:"run_id,snappy"`
	Image            string    `parquet:"image,snappy"`
	GradedAt         time.Time `parquet:"graded_at,snappy"`
	OverallScore     float64   `parquet:"overall_score,snappy"`
	StarRating       int32     `parquet:"star_rating,snappy"`
	Tier             string    `parquet:"tier,snappy"`
	ComplianceLevel  string    `parquet:"compliance_level,snappy"`
	Violations       int32     `parquet:"violations,snappy"`
	ExcellentMetrics int32     `parquet:"excellent_metrics,snappy"`
	GoodMetrics      int32     `parquet:"good_metrics,snappy"`
	FairMetrics      int32     `parquet:"fair_metrics,snappy"`
	PoorMetrics      int32     `parquet:"poor_metrics,snappy"`
}

// BatchOutcome is one ranked row of a batch report, worst image first.
// Error carries the failure reason for documents that could not be
// graded; successfully graded rows leave it NULL.
type BatchOutcome struct {
	Rank             int32   `parquet:"rank,snappy"`
	Image            string  `parquet:"image,snappy"`
	OverallScore     float64 `parquet:"overall_score,snappy"`
	StarRating       int32   `parquet:"star_rating,snappy"`
	Tier             string  `parquet:"tier,snappy"`
	ComplianceLevel  string  `parquet:"compliance_level,snappy"`
	Violations       int32   `parquet:"violations,snappy"`
	ExcellentMetrics int32   `parquet:"excellent_metrics,snappy"`
	GoodMetrics      int32   `parquet:"good_metrics,snappy"`
	FairMetrics      int32   `parquet:"fair_metrics,snappy"`
	PoorMetrics      int32   `parquet:"poor_metrics,snappy"`
	Error            *string `parquet:"error,optional,snappy"`
}

// ConvertOutcomes maps ranked batch outcomes to their Parquet row form.
func ConvertOutcomes(outcomes []schema.ImageOutcome) []BatchOutcome {
	rows := make([]BatchOutcome, len(outcomes))
	for i, o := range outcomes {
		row := BatchOutcome{
			Rank:             int32(i + 1),
			Image:            o.Image,
			OverallScore:     o.OverallScore,
			StarRating:       int32(o.StarRating),
			Tier:             string(o.Tier),
			ComplianceLevel:  string(o.Level),
			Violations:       int32(o.Violations),
			ExcellentMetrics: int32(o.ExcellentMetrics),
			GoodMetrics:      int32(o.GoodMetrics),
			FairMetrics:      int32(o.FairMetrics),
			PoorMetrics:      int32(o.PoorMetrics),
		}
		if o.Err != "" {
			errText := o.Err
			row.Error = &errText
		}
		rows[i] = row
	}
	return rows
}

// ConvertRunRecords converts schema.RunRecord to QualityRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []QualityRun {
	result := make([]QualityRun, len(records))
	for i, record := range records {
		result[i] = QualityRun{
			RunID:             record.RunID,
			StartTime:         record.StartTime,
			EndTime:           record.EndTime,
			RunDurationMs:     record.RunDurationMs,
			TotalImagesGraded: record.TotalImagesGraded,
			ConfigParams:      record.ConfigParams,
		}
	}
	return result
}

// ConvertImageReportRecords converts schema.ImageReportRecord to ImageReport for Parquet export.
// Recommendation text is omitted since it is free-form and of little analytical value.
func ConvertImageReportRecords(records []schema.ImageReportRecord) []ImageReport {
	result := make([]ImageReport, len(records))
	for i, record := range records {
		result[i] = ImageReport{
			RunID:            record.RunID,
			Image:            record.Image,
			GradedAt:         record.GradedAt,
			OverallScore:     record.OverallScore,
			StarRating:       record.StarRating,
			Tier:             record.Tier,
			ComplianceLevel:  record.ComplianceLevel,
			Violations:       record.ViolationCount,
			ExcellentMetrics: record.ExcellentMetrics,
			GoodMetrics:      record.GoodMetrics,
			FairMetrics:      record.FairMetrics,
			PoorMetrics:      record.PoorMetrics,
		}
	}
	return result
}

// WriteQualityRunsParquet writes a slice of QualityRun structs to a Parquet file.
func WriteQualityRunsParquet(data []QualityRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteImageReportsParquet writes a slice of ImageReport structs to a Parquet file.
func WriteImageReportsParquet(data []ImageReport, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteBatchOutcomesParquet writes a slice of BatchOutcome structs to a Parquet file.
func WriteBatchOutcomesParquet(data []BatchOutcome, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes any row slice to a Parquet file. The schema is
// inferred from the row type's parquet struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("cannot write parquet rows: %w", err)
	}

	return nil
}

// MockFetchQualityRuns generates sample QualityRun data for demonstration.
func MockFetchQualityRuns() []QualityRun {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := now.Add(-1*time.Hour - 30*time.Minute)
	durationMs1 := int32(endTime1.Sub(startTime1).Milliseconds())
	configParams1 := `{"input":"scans/batch-042","pattern":"*.json","workers":4}`

	startTime2 := now.Add(-24 * time.Hour)
	endTime2 := now.Add(-23 * time.Hour)
	durationMs2 := int32(endTime2.Sub(startTime2).Milliseconds())
	configParams2 := `{"input":"scans/intake","pattern":"*.metrics.json","workers":8}`

	// The third run is still in flight, so its completion fields stay nil.
	startTime3 := now.Add(-10 * time.Minute)

	return []QualityRun{
		{
			RunID:             1,
			StartTime:         startTime1,
			EndTime:           &endTime1,
			RunDurationMs:     &durationMs1,
			TotalImagesGraded: 150,
			ConfigParams:      &configParams1,
		},
		{
			RunID:             2,
			StartTime:         startTime2,
			EndTime:           &endTime2,
			RunDurationMs:     &durationMs2,
			TotalImagesGraded: 75,
			ConfigParams:      &configParams2,
		},
		{
			RunID:             3,
			StartTime:         startTime3,
			TotalImagesGraded: 0,
		},
	}
}

// MockFetchImageReports generates sample ImageReport data for demonstration.
func MockFetchImageReports() []ImageReport {
	now := time.Now()

	return []ImageReport{
		{
			RunID:            1,
			Image:            "scan-001.jpg",
			GradedAt:         now.Add(-1 * time.Hour),
			OverallScore:     0.88,
			StarRating:       4,
			Tier:             "EXCELLENT",
			ComplianceLevel:  "EXCELLENT",
			Violations:       0,
			ExcellentMetrics: 8,
			GoodMetrics:      3,
			FairMetrics:      0,
			PoorMetrics:      0,
		},
		{
			RunID:            1,
			Image:            "scan-002.jpg",
			GradedAt:         now.Add(-1 * time.Hour),
			OverallScore:     0.71,
			StarRating:       3,
			Tier:             "GOOD",
			ComplianceLevel:  "WARNING",
			Violations:       1,
			ExcellentMetrics: 2,
			GoodMetrics:      6,
			FairMetrics:      3,
			PoorMetrics:      0,
		},
		{
			RunID:            2,
			Image:            "scan-003.jpg",
			GradedAt:         now.Add(-23 * time.Hour),
			OverallScore:     0.42,
			StarRating:       2,
			Tier:             "FAIR",
			ComplianceLevel:  "NON_COMPLIANT",
			Violations:       3,
			ExcellentMetrics: 0,
			GoodMetrics:      2,
			FairMetrics:      5,
			PoorMetrics:      4,
		},
	}
}
