package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/scangrade/scangrade/schema"
)

// writeJSONGradeReport marshals the assembled report model to JSON and writes it.
// The model already carries every presentation field, so no enrichment is needed.
func writeJSONGradeReport(w io.Writer, model *schema.ReportModel) error {
	return writeJSON(w, model)
}

// writeCSVGradeReport writes one record per graded metric, with the
// image name repeated on every record so concatenated exports stay
// self-describing.
func writeCSVGradeReport(w *csv.Writer, model *schema.ReportModel, fmtFloat func(float64) string) error {
	columns := []string{
		"image", "name", "score", "tier", "gate", "color",
		"pass_threshold", "native_measurement", "native_unit", "detail",
	}
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	for _, m := range model.Metrics {
		native := ""
		if m.Native != nil {
			native = formatNative(*m.Native)
		}
		record := []string{
			model.Summary.Image,
			m.Name,
			fmtFloat(m.Score),
			string(m.Tier),
			string(m.Gate),
			string(m.Color),
			fmtFloat(m.PassThreshold),
			native,
			m.NativeUnit,
			m.Detail,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV row: %w", err)
		}
	}
	return nil
}
