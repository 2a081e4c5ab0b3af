package outwriter

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
	"github.com/xuri/excelize/v2"
)

// Fill and font colors matching the classic spreadsheet good/neutral/bad
// conditional formats.
const (
	excelGreenFill  = "C6EFCE"
	excelGreenFont  = "006100"
	excelYellowFill = "FFEB9C"
	excelYellowFont = "9C6500"
	excelRedFill    = "FFC7CE"
	excelRedFont    = "9C0006"
)

// excelStyles holds the style IDs registered on one workbook.
type excelStyles struct {
	header int
	green  int
	yellow int
	red    int
}

// newFillStyle registers a colored fill with a matching bold font.
func newFillStyle(f *excelize.File, fill, font string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: font, Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
	})
}

// registerExcelStyles creates the shared cell styles on a workbook.
func registerExcelStyles(f *excelize.File) (*excelStyles, error) {
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	green, err := newFillStyle(f, excelGreenFill, excelGreenFont)
	if err != nil {
		return nil, err
	}
	yellow, err := newFillStyle(f, excelYellowFill, excelYellowFont)
	if err != nil {
		return nil, err
	}
	red, err := newFillStyle(f, excelRedFill, excelRedFont)
	if err != nil {
		return nil, err
	}
	return &excelStyles{header: header, green: green, yellow: yellow, red: red}, nil
}

// colorStyle maps a color class to its fill style.
func (s *excelStyles) colorStyle(color schema.ColorClass) int {
	switch color {
	case schema.GreenColor:
		return s.green
	case schema.YellowColor:
		return s.yellow
	default:
		return s.red
	}
}

// levelStyle maps a compliance level to its fill style.
func (s *excelStyles) levelStyle(level schema.ComplianceLevel) int {
	switch level {
	case schema.ExcellentLevel, schema.CompliantLevel:
		return s.green
	case schema.WarningLevel:
		return s.yellow
	default:
		return s.red
	}
}

// priorityStyle maps a recommendation priority to its fill style.
func (s *excelStyles) priorityStyle(p schema.Priority) int {
	switch p {
	case schema.CriticalPriority:
		return s.red
	case schema.WarningPriority:
		return s.yellow
	default:
		return s.green
	}
}

// writeExcelGradeReport writes the four report sections to an xlsx
// workbook, one sheet per section.
func writeExcelGradeReport(model *schema.ReportModel, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("xlsx output requires --output-file")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	styles, err := registerExcelStyles(f)
	if err != nil {
		return err
	}

	if err := writeSummarySheet(f, styles, model); err != nil {
		return err
	}
	if err := writeMetricsSheet(f, styles, model); err != nil {
		return err
	}
	if err := writeRecommendationsSheet(f, styles, model); err != nil {
		return err
	}
	if err := writeSlaSheet(f, styles, model); err != nil {
		return err
	}

	// Drop the implicit default sheet so the workbook opens on Summary
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	if err := f.SaveAs(cfg.OutputFile); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Excel to %s\n", cfg.OutputFile)
	return nil
}

// writeSummarySheet lays out the summary section as label and value pairs.
func writeSummarySheet(f *excelize.File, styles *excelStyles, model *schema.ReportModel) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	s := model.Summary
	rows := [][]interface{}{
		{"Image", s.Image},
		{"Overall Score", s.OverallScore},
		{"Star Rating", fmt.Sprintf("%d out of 4 stars", s.StarRating)},
		{"Tier", string(s.Tier)},
		{"Gate", string(s.Gate)},
		{"Metric Count", s.MetricCount},
		{"Compliance Level", string(model.Sla.Level)},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(sheet, "A1", "A7", styles.header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "B4", "B4", styles.colorStyle(s.Color)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "B7", "B7", styles.levelStyle(model.Sla.Level)); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "B", 24)
}

// writeMetricsSheet lays out one row per classified metric with the tier
// cell colored by its color class.
func writeMetricsSheet(f *excelize.File, styles *excelStyles, model *schema.ReportModel) error {
	const sheet = "Metrics"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Metric", "Score", "Tier", "Gate", "Pass Threshold", "Native Measurement", "Native Unit", "Detail"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "H1", styles.header); err != nil {
		return err
	}

	for i, r := range model.Metrics {
		var native interface{}
		if r.Native != nil {
			native = *r.Native
		}
		row := []interface{}{
			schema.FormatMetricName(r.Name),
			r.Score,
			string(r.Tier),
			string(r.Gate),
			r.PassThreshold,
			native,
			r.NativeUnit,
			r.Detail,
		}
		rowIdx := i + 2
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowIdx), &row); err != nil {
			return err
		}
		tierCell := fmt.Sprintf("C%d", rowIdx)
		if err := f.SetCellStyle(sheet, tierCell, tierCell, styles.colorStyle(r.Color)); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "H", 20)
}

// writeRecommendationsSheet lays out one row per recommendation with the
// priority cell colored by urgency.
func writeRecommendationsSheet(f *excelize.File, styles *excelStyles, model *schema.ReportModel) error {
	const sheet = "Recommendations"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Priority", "Category", "Recommendation"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "C1", styles.header); err != nil {
		return err
	}

	for i, rec := range model.Recommendations {
		row := []interface{}{string(rec.Priority), rec.Category, rec.Text}
		rowIdx := i + 2
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowIdx), &row); err != nil {
			return err
		}
		priorityCell := fmt.Sprintf("A%d", rowIdx)
		if err := f.SetCellStyle(sheet, priorityCell, priorityCell, styles.priorityStyle(rec.Priority)); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "B", 18); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "C", 60)
}

// writeSlaSheet lays out the verdict header and one row per violation.
func writeSlaSheet(f *excelize.File, styles *excelStyles, model *schema.ReportModel) error {
	const sheet = "SLA"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Compliance Level", string(model.Sla.Level)}); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A2", &[]interface{}{"Minimum Overall Score", model.Sla.MinOverallScore}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A2", styles.header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "B1", "B1", styles.levelStyle(model.Sla.Level)); err != nil {
		return err
	}

	header := []interface{}{"Requirement", "Expected", "Actual", "Metrics"}
	if err := f.SetSheetRow(sheet, "A4", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A4", "D4", styles.header); err != nil {
		return err
	}

	for i, v := range model.Sla.Violations {
		row := []interface{}{v.Requirement, v.Expected, v.Actual, strings.Join(v.Metrics, ", ")}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+5), &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "D", 26)
}

// writeExcelBatchReport writes the ranked outcomes and the population
// summary to an xlsx workbook.
func writeExcelBatchReport(report *schema.BatchReport, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("xlsx output requires --output-file")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	styles, err := registerExcelStyles(f)
	if err != nil {
		return err
	}

	if err := writeOutcomesSheet(f, styles, report); err != nil {
		return err
	}
	if err := writeBatchSummarySheet(f, styles, report); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	if err := f.SaveAs(cfg.OutputFile); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Excel to %s\n", cfg.OutputFile)
	return nil
}

// writeOutcomesSheet lays out one row per outcome in ranked order.
func writeOutcomesSheet(f *excelize.File, styles *excelStyles, report *schema.BatchReport) error {
	const sheet = "Outcomes"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Rank", "Image", "Score", "Stars", "Tier", "Level", "Violations", "Excellent", "Good", "Fair", "Poor", "Error"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "L1", styles.header); err != nil {
		return err
	}

	for i, o := range report.Outcomes {
		rowIdx := i + 2
		levelCell := fmt.Sprintf("F%d", rowIdx)
		if o.Err != "" {
			row := []interface{}{i + 1, o.Image, nil, nil, nil, "ERROR", nil, nil, nil, nil, nil, o.Err}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowIdx), &row); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, levelCell, levelCell, styles.red); err != nil {
				return err
			}
			continue
		}
		row := []interface{}{
			i + 1,
			o.Image,
			o.OverallScore,
			o.StarRating,
			string(o.Tier),
			string(o.Level),
			o.Violations,
			o.ExcellentMetrics,
			o.GoodMetrics,
			o.FairMetrics,
			o.PoorMetrics,
			nil,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowIdx), &row); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, levelCell, levelCell, styles.levelStyle(o.Level)); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "B", "B", 32)
}

// writeBatchSummarySheet lays out the population stats and both tier
// distributions.
func writeBatchSummarySheet(f *excelize.File, styles *excelStyles, report *schema.BatchReport) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	s := report.Summary
	rows := [][]interface{}{
		{"Total Images", s.TotalImages},
		{"Failed Documents", s.FailedDocuments},
		{"No Data", s.NoData},
		{"Compliance Rate", s.ComplianceRate},
		{"Average Score", s.AverageScore},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "A5", styles.header); err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, "A7", &[]interface{}{"Tier", "Images", "Metrics"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A7", "C7", styles.header); err != nil {
		return err
	}
	for i, tier := range schema.AllTiers {
		row := []interface{}{string(tier), s.OverallTiers[tier], s.MetricTiers[tier]}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+8), &row); err != nil {
			return err
		}
	}

	if err := f.SetSheetRow(sheet, "A13", &[]interface{}{"Level", "Images"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A13", "B13", styles.header); err != nil {
		return err
	}
	for i, level := range schema.AllComplianceLevels {
		row := []interface{}{string(level), s.Levels[level]}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+14), &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "C", 22)
}
