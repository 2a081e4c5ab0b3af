package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
)

// PrintSlaVerdict outputs the compliance portion of a report in the
// configured format. The verdict view is what CI pipelines consume, so
// it stays focused on the SLA section.
func PrintSlaVerdict(model *schema.ReportModel, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := scoreFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return outputErr("JSON", printJSONSlaVerdict(model, cfg))
	case schema.CSVOut:
		return outputErr("CSV", printCSVSlaVerdict(model, cfg))
	case schema.ParquetOut, schema.ExcelOut:
		return fmt.Errorf("%s output is not supported for SLA verdicts", cfg.Output)
	default:
		return outputErr("table", writeToTarget(cfg.OutputFile, func(w io.Writer) error {
			return writeSlaVerdictText(w, model, cfg, fmtFloat, duration)
		}, "Wrote verdict"))
	}
}

func printJSONSlaVerdict(model *schema.ReportModel, cfg *contract.Config) error {
	return writeToTarget(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONSlaVerdict(w, model)
	}, "Wrote JSON verdict")
}

func printCSVSlaVerdict(model *schema.ReportModel, cfg *contract.Config) error {
	return writeToTarget(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVSlaVerdict(w, model)
	}, "Wrote CSV verdict")
}

// writeSlaVerdictText renders the verdict block with one line per violation.
func writeSlaVerdictText(w io.Writer, model *schema.ReportModel, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	s := model.Summary
	if _, err := fmt.Fprintf(w, "Image: %s (score: %s)\n", s.Image, fmtFloat(s.OverallScore)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Verdict: %s (floor: %s)\n",
		contract.GetLevelLabel(model.Sla.Level, cfg.UseColors),
		fmtFloat(model.Sla.MinOverallScore)); err != nil {
		return err
	}

	if len(model.Sla.Violations) == 0 {
		if _, err := fmt.Fprintf(w, "All SLA requirements met\n"); err != nil {
			return err
		}
	}
	for _, v := range model.Sla.Violations {
		if _, err := fmt.Fprintf(w, "  - %s\n", formatViolation(v)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Evaluation completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}
