package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
)

// PrintGradeReport outputs one assembled image report in the configured
// format.
func PrintGradeReport(model *schema.ReportModel, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := scoreFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return outputErr("JSON", printJSONGradeReport(model, cfg))
	case schema.CSVOut:
		return outputErr("CSV", printCSVGradeReport(model, cfg, fmtFloat))
	case schema.ExcelOut:
		return outputErr("Excel", writeExcelGradeReport(model, cfg))
	case schema.ParquetOut:
		return errors.New("parquet output is only supported for batch analysis")
	default:
		return outputErr("table", writeToTarget(cfg.OutputFile, func(w io.Writer) error {
			return writeGradeReportText(w, model, cfg, fmtFloat, duration)
		}, "Wrote report"))
	}
}

func printJSONGradeReport(model *schema.ReportModel, cfg *contract.Config) error {
	return writeToTarget(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONGradeReport(w, model)
	}, "Wrote JSON report")
}

func printCSVGradeReport(model *schema.ReportModel, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeToTarget(cfg.OutputFile, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		defer cw.Flush()
		return writeCSVGradeReport(cw, model, fmtFloat)
	}, "Wrote CSV report")
}

// writeGradeReportText renders the four report sections in their fixed
// order: summary, metrics table, recommendations, SLA verdict.
func writeGradeReportText(w io.Writer, model *schema.ReportModel, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	s := model.Summary
	if _, err := fmt.Fprintf(w, "Image: %s\n", s.Image); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Overall: %s %s %s (%s)\n",
		fmtFloat(s.OverallScore),
		formatStars(s.StarRating, cfg.UseEmojis),
		contract.GetTierLabel(s.Tier, cfg.UseColors),
		contract.GetGateLabel(s.Gate, cfg.UseColors)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	if err := writeMetricsTable(w, model.Metrics, cfg, fmtFloat); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nRecommendations:\n"); err != nil {
		return err
	}
	for _, rec := range model.Recommendations {
		if _, err := fmt.Fprintf(w, "  [%s] %s: %s\n",
			contract.GetPriorityLabel(rec.Priority, cfg.UseColors), rec.Category, rec.Text); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\nSLA: %s (floor: %s)\n",
		contract.GetLevelLabel(model.Sla.Level, cfg.UseColors),
		fmtFloat(model.Sla.MinOverallScore)); err != nil {
		return err
	}
	for _, v := range model.Sla.Violations {
		if _, err := fmt.Fprintf(w, "  - %s\n", formatViolation(v)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\nGraded %d metrics in %v. Cache backend: %s\n",
		s.MetricCount, duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeMetricsTable renders the per-metric rows of a report. The detail
// columns only appear when the config asks for them.
func writeMetricsTable(w io.Writer, metrics []schema.MetricRow, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	headers := []string{"Metric", "Score", "Tier", "Gate"}
	if cfg.Detail {
		headers = append(headers, "Threshold", "Native", "Detail")
	}
	table.Header(headers)

	maxWidth := GetMaxTableNameWidth(cfg)
	var rows [][]string
	for _, m := range metrics {
		cells := []string{
			contract.TruncateDetail(schema.FormatMetricName(m.Name), maxWidth),
			fmtFloat(m.Score),
			contract.GetTierLabel(m.Tier, cfg.UseColors),
			contract.GetGateLabel(m.Gate, cfg.UseColors),
		}
		if cfg.Detail {
			native := "-"
			if m.Native != nil {
				native = formatNative(*m.Native)
				if m.NativeUnit != "" {
					native += " " + m.NativeUnit
				}
			}
			cells = append(cells,
				fmtFloat(m.PassThreshold),
				native,
				contract.TruncateDetail(m.Detail, maxWidth),
			)
		}
		rows = append(rows, cells)
	}

	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
