package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/scangrade/scangrade/schema"
)

// writeJSONCatalog marshals the catalog render model to JSON and writes it.
func writeJSONCatalog(w io.Writer, renderModel *schema.CatalogRenderModel) error {
	return writeJSON(w, renderModel)
}

// writeCSVCatalog writes one record per metric profile.
func writeCSVCatalog(w *csv.Writer, renderModel *schema.CatalogRenderModel) error {
	columns := []string{
		"name", "pass_threshold", "excellent_edge", "good_edge", "fair_edge",
		"native_unit", "direction", "reference_bound", "action",
	}
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, m := range renderModel.Metrics {
		record := []string{
			m.Name,
			f(m.PassThreshold),
			f(m.BandEdges[0]),
			f(m.BandEdges[1]),
			f(m.BandEdges[2]),
			m.NativeUnit,
			string(m.Direction),
			f(m.ReferenceBound),
			m.Action,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV row: %w", err)
		}
	}
	return nil
}
