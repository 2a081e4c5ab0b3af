package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/scangrade/scangrade/schema"
)

// writeJSONBatchReport marshals the full batch report to JSON and writes it.
func writeJSONBatchReport(w io.Writer, report *schema.BatchReport) error {
	return writeJSON(w, report)
}

// writeCSVBatchReport writes one record per outcome. Failed documents
// keep their zero grades and carry the error in the last column.
func writeCSVBatchReport(w *csv.Writer, report *schema.BatchReport, fmtFloat func(float64) string) error {
	columns := []string{
		"rank", "image", "overall_score", "star_rating", "tier",
		"compliance_level", "violations", "excellent_metrics",
		"good_metrics", "fair_metrics", "poor_metrics", "error",
	}
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	for i, o := range report.Outcomes {
		record := []string{
			strconv.Itoa(i + 1),
			o.Image,
			fmtFloat(o.OverallScore),
			strconv.Itoa(o.StarRating),
			string(o.Tier),
			string(o.Level),
			strconv.Itoa(o.Violations),
			strconv.Itoa(o.ExcellentMetrics),
			strconv.Itoa(o.GoodMetrics),
			strconv.Itoa(o.FairMetrics),
			strconv.Itoa(o.PoorMetrics),
			o.Err,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV row: %w", err)
		}
	}
	return nil
}
