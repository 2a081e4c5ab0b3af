package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/scangrade/scangrade/schema"
)

// writeJSONSlaVerdict marshals a focused verdict document to JSON. The
// image name and overall score ride along so the verdict is readable
// without the full report.
func writeJSONSlaVerdict(w io.Writer, model *schema.ReportModel) error {
	type JSONSlaVerdict struct {
		Image        string  `json:"image"`
		OverallScore float64 `json:"overall_score"`
		schema.SlaSection
	}

	return writeJSON(w, JSONSlaVerdict{
		Image:        model.Summary.Image,
		OverallScore: model.Summary.OverallScore,
		SlaSection:   model.Sla,
	})
}

// writeCSVSlaVerdict writes one record per violation. A compliant
// verdict produces a header-only document.
func writeCSVSlaVerdict(w io.Writer, model *schema.ReportModel) error {
	columns := []string{
		"image", "compliance_level", "requirement", "expected", "actual", "metrics",
	}
	return writeCSV(w, columns, func(cw *csv.Writer) error {
		for _, v := range model.Sla.Violations {
			record := []string{
				model.Summary.Image,
				string(model.Sla.Level),
				v.Requirement,
				v.Expected,
				v.Actual,
				strings.Join(v.Metrics, "; "),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("cannot write CSV row: %w", err)
			}
		}
		return nil
	})
}
