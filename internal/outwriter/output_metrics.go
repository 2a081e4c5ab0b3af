package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
)

// directionOperator returns the comparison operator a target direction
// implies for native measurements.
func directionOperator(d schema.TargetDirection) string {
	if d == schema.MinTarget {
		return ">="
	}
	return "<="
}

// PrintMetricCatalog displays the scoring profiles of all graded metrics.
// This is a static display that does not require reading any input document.
func PrintMetricCatalog(cfg *contract.Config) error {
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = schema.GetCatalogGlobal()
	}
	renderModel := schema.BuildCatalogRenderModel(catalog)

	switch cfg.Output {
	case schema.JSONOut:
		return printCatalogJSON(renderModel, cfg)
	case schema.CSVOut:
		return printCatalogCSV(renderModel, cfg)
	default:
		return writeToTarget(cfg.OutputFile, func(w io.Writer) error {
			return printCatalogText(w, renderModel, cfg)
		}, "Wrote catalog")
	}
}

// printCatalogText displays the catalog in human-readable text format.
func printCatalogText(w io.Writer, renderModel *schema.CatalogRenderModel, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "%s%s\n", emojiPrefix(cfg, "🔎"), renderModel.Title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "========================\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n", renderModel.Description); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return err
	}

	for _, m := range renderModel.Metrics {
		if _, err := fmt.Fprintf(w, "%s (%s)\n", m.DisplayName, m.NativeUnit); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Pass: score >= %.2f\n", m.PassThreshold); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Bands: EXCELLENT >= %.2f, GOOD >= %.2f, FAIR >= %.2f\n",
			m.BandEdges[0], m.BandEdges[1], m.BandEdges[2]); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Target: %s %g %s\n",
			directionOperator(m.Direction), m.ReferenceBound, m.NativeUnit); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Action: %s\n", m.Action); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}

func printCatalogJSON(renderModel *schema.CatalogRenderModel, cfg *contract.Config) error {
	return writeToTarget(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONCatalog(w, renderModel)
	}, "Wrote JSON catalog")
}

func printCatalogCSV(renderModel *schema.CatalogRenderModel, cfg *contract.Config) error {
	return writeToTarget(cfg.OutputFile, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		defer cw.Flush()
		return writeCSVCatalog(cw, renderModel)
	}, "Wrote CSV catalog")
}
