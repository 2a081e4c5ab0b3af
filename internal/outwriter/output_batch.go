package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/internal/parquet"
	"github.com/scangrade/scangrade/schema"
)

// PrintBatchReport outputs the ranked batch results in the configured
// format.
func PrintBatchReport(report *schema.BatchReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := scoreFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return outputErr("JSON", printJSONBatchReport(report, cfg))
	case schema.CSVOut:
		return outputErr("CSV", printCSVBatchReport(report, cfg, fmtFloat))
	case schema.ParquetOut:
		return outputErr("Parquet", printParquetBatchReport(report, cfg))
	case schema.ExcelOut:
		return outputErr("Excel", writeExcelBatchReport(report, cfg))
	default:
		return outputErr("table", writeToTarget(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchTable(w, report, cfg, fmtFloat, duration)
		}, "Wrote rankings"))
	}
}

func printJSONBatchReport(report *schema.BatchReport, cfg *contract.Config) error {
	return writeToTarget(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONBatchReport(w, report)
	}, "Wrote JSON rankings")
}

func printCSVBatchReport(report *schema.BatchReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeToTarget(cfg.OutputFile, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		defer cw.Flush()
		return writeCSVBatchReport(cw, report, fmtFloat)
	}, "Wrote CSV rankings")
}

// printParquetBatchReport writes the ranked outcomes to a Parquet file.
// Parquet is a binary columnar format, so streaming to stdout is not supported.
func printParquetBatchReport(report *schema.BatchReport, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("parquet output requires --output-file")
	}
	rows := parquet.ConvertOutcomes(report.Outcomes)
	if err := parquet.WriteBatchOutcomesParquet(rows, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}

// writeBatchTable prints the outcomes worst first, then a population
// summary and the run footer.
func writeBatchTable(w io.Writer, report *schema.BatchReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	headers := []string{"Rank", "Image", "Score", "Stars", "Tier", "Level", "Violations"}
	if cfg.Detail {
		headers = append(headers, "Excellent", "Good", "Fair", "Poor", "Error")
	}
	table.Header(headers)

	maxWidth := GetMaxTableNameWidth(cfg)
	var rows [][]string
	for i, o := range report.Outcomes {
		cells := []string{
			strconv.Itoa(i + 1),
			contract.TruncateDetail(o.Image, maxWidth),
		}
		if o.Err != "" {
			// Failed documents carry no grades
			cells = append(cells, "-", "-", "-", "ERROR", "-")
		} else {
			cells = append(cells,
				fmtFloat(o.OverallScore),
				formatStars(o.StarRating, cfg.UseEmojis),
				contract.GetTierLabel(o.Tier, cfg.UseColors),
				contract.GetLevelLabel(o.Level, cfg.UseColors),
				strconv.Itoa(o.Violations),
			)
		}
		if cfg.Detail {
			if o.Err != "" {
				cells = append(cells, "-", "-", "-", "-", contract.TruncateDetail(o.Err, 40))
			} else {
				cells = append(cells,
					strconv.Itoa(o.ExcellentMetrics),
					strconv.Itoa(o.GoodMetrics),
					strconv.Itoa(o.FairMetrics),
					strconv.Itoa(o.PoorMetrics),
					"",
				)
			}
		}
		rows = append(rows, cells)
	}

	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	s := report.Summary
	if s.NoData {
		fmt.Fprintf(w, "No images were graded (%d failed documents)\n", s.FailedDocuments)
	} else {
		shown := 0
		for _, o := range report.Outcomes {
			if o.Err == "" {
				shown++
			}
		}
		fmt.Fprintf(w, "Showing %d of %d graded images (%d failed documents)\n", shown, s.TotalImages, s.FailedDocuments)
		fmt.Fprintf(w, "Compliance rate: %.1f%% (average score: %s)\n", s.ComplianceRate*100, fmtFloat(s.AverageScore))
		fmt.Fprintf(w, "Tiers: %s\n", formatTierCounts(s.OverallTiers))
		fmt.Fprintf(w, "Levels: %s\n", formatLevelCounts(s.Levels))
	}
	fmt.Fprintf(w, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return nil
}

// formatTierCounts renders a tier distribution in best-to-worst order.
func formatTierCounts(counts map[schema.QualityTier]int) string {
	out := ""
	for i, tier := range schema.AllTiers {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s %d", tier, counts[tier])
	}
	return out
}

// formatLevelCounts renders a compliance level distribution in best-to-worst order.
func formatLevelCounts(counts map[schema.ComplianceLevel]int) string {
	out := ""
	for i, level := range schema.AllComplianceLevels {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s %d", level, counts[level])
	}
	return out
}
