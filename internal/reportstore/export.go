package reportstore

import (
	"errors"
	"fmt"

	"github.com/scangrade/scangrade/internal/parquet"
)

// ExecuteRunsExport dumps the recorded run history into two Parquet
// datasets: <output>.runs.parquet with one row per grading run and
// <output>.image_reports.parquet with one row per graded image.
func ExecuteRunsExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("run history export requires --output-file")
	}

	store := Manager.GetRunStore()
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to read run history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Printf("Exporting %d runs and %d image reports from the %s backend\n",
		status.TotalRuns, status.TableSizes[imageReportsTable], status.Backend)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to load grading runs: %w", err)
	}
	reports, err := store.GetAllImageReports()
	if err != nil {
		return fmt.Errorf("failed to load image reports: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	runRows := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteQualityRunsParquet(runRows, runsFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", runsFile, err)
	}
	fmt.Printf("Wrote %d grading runs to %s\n", len(runRows), runsFile)

	reportsFile := outputFile + ".image_reports.parquet"
	reportRows := parquet.ConvertImageReportRecords(reports)
	if err := parquet.WriteImageReportsParquet(reportRows, reportsFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", reportsFile, err)
	}
	fmt.Printf("Wrote %d image reports to %s\n", len(reportRows), reportsFile)

	return nil
}
