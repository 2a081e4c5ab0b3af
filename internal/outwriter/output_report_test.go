package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleReportModel builds a compliant report with two classified metrics.
func sampleReportModel() *schema.ReportModel {
	native := 310.2
	return &schema.ReportModel{
		Summary: schema.SummarySection{
			Image:        "scan-001.jpg",
			OverallScore: 0.88,
			StarRating:   4,
			Tier:         schema.ExcellentTier,
			Gate:         schema.PassGate,
			Color:        schema.GreenColor,
			MetricCount:  2,
		},
		Metrics: []schema.MetricRow{
			{
				Name:          "sharpness",
				Score:         0.82,
				Tier:          schema.GoodTier,
				Gate:          schema.PassGate,
				Color:         schema.GreenColor,
				PassThreshold: 0.70,
				Detail:        "crisp edges throughout",
				Native:        &native,
				NativeUnit:    "laplacian variance",
			},
			{
				Name:          "exposure",
				Score:         0.91,
				Tier:          schema.ExcellentTier,
				Gate:          schema.PassGate,
				Color:         schema.GreenColor,
				PassThreshold: 0.70,
			},
		},
		Recommendations: []schema.Recommendation{
			{Priority: schema.InfoPriority, Category: schema.GeneralCategory, Text: schema.InfoFallbackText},
		},
		Sla: schema.SlaSection{
			Level:           schema.CompliantLevel,
			MinOverallScore: 0.75,
			Violations:      []schema.SlaViolation{},
		},
	}
}

// failingReportModel builds a non-compliant report with two violations.
func failingReportModel() *schema.ReportModel {
	return &schema.ReportModel{
		Summary: schema.SummarySection{
			Image:        "scan-002.jpg",
			OverallScore: 0.42,
			StarRating:   2,
			Tier:         schema.FairTier,
			Gate:         schema.WarnGate,
			Color:        schema.YellowColor,
			MetricCount:  2,
		},
		Metrics: []schema.MetricRow{
			{
				Name:          "sharpness",
				Score:         0.20,
				Tier:          schema.PoorTier,
				Gate:          schema.FailGate,
				Color:         schema.RedColor,
				PassThreshold: 0.70,
			},
			{
				Name:          "noise",
				Score:         0.28,
				Tier:          schema.PoorTier,
				Gate:          schema.FailGate,
				Color:         schema.RedColor,
				PassThreshold: 0.70,
			},
		},
		Recommendations: []schema.Recommendation{
			{Priority: schema.CriticalPriority, Category: "sharpness", Text: "Retake photo with better focus or use a tripod"},
			{Priority: schema.CriticalPriority, Category: "noise", Text: "Use a lower ISO setting or better lighting"},
		},
		Sla: schema.SlaSection{
			Level:           schema.NonCompliantLevel,
			MinOverallScore: 0.75,
			Violations: []schema.SlaViolation{
				{Requirement: "min_overall_score", Expected: ">= 0.75", Actual: "0.42"},
				{Requirement: "max_failed_categories", Expected: "<= 1", Actual: "2", Metrics: []string{"sharpness", "noise"}},
			},
		},
	}
}

func TestWriteGradeReportText(t *testing.T) {
	model := sampleReportModel()
	cfg := &contract.Config{
		Output:       schema.TextOut,
		Precision:    2,
		UseColors:    false,
		Width:        120,
		CacheBackend: schema.SQLiteBackend,
	}
	fmtFloat := scoreFormatter(cfg.Precision)

	var buf bytes.Buffer
	err := writeGradeReportText(&buf, model, cfg, fmtFloat, 100*time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Image: scan-001.jpg")
	assert.Contains(t, output, "0.88")
	assert.Contains(t, output, "4/4")
	assert.Contains(t, output, "EXCELLENT")
	assert.Contains(t, output, "PASS")
	assert.Contains(t, output, "Sharpness")
	assert.Contains(t, output, "Exposure")
	assert.Contains(t, output, schema.InfoFallbackText)
	assert.Contains(t, output, "SLA: COMPLIANT (floor: 0.75)")
	assert.Contains(t, output, "Graded 2 metrics in 100ms. Cache backend: sqlite")
}

func TestWriteGradeReportTextViolations(t *testing.T) {
	model := failingReportModel()
	cfg := &contract.Config{
		Output:       schema.TextOut,
		Precision:    2,
		UseColors:    false,
		Width:        120,
		CacheBackend: schema.NoneBackend,
	}
	fmtFloat := scoreFormatter(cfg.Precision)

	var buf bytes.Buffer
	err := writeGradeReportText(&buf, model, cfg, fmtFloat, time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "SLA: NON_COMPLIANT (floor: 0.75)")
	assert.Contains(t, output, "  - min_overall_score: expected >= 0.75, got 0.42")
	assert.Contains(t, output, "  - max_failed_categories: expected <= 1, got 2 (sharpness, noise)")
	assert.Contains(t, output, "[CRITICAL] sharpness: Retake photo with better focus or use a tripod")
}

func TestWriteMetricsTableDetail(t *testing.T) {
	model := sampleReportModel()
	cfg := &contract.Config{
		Output:    schema.TextOut,
		Precision: 2,
		Detail:    true,
		UseColors: false,
		Width:     160,
	}
	fmtFloat := scoreFormatter(cfg.Precision)

	var buf bytes.Buffer
	err := writeMetricsTable(&buf, model.Metrics, cfg, fmtFloat)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "THRESHOLD")
	assert.Contains(t, output, "NATIVE")
	assert.Contains(t, output, "310.2 laplacian variance")
	assert.Contains(t, output, "crisp edges throughout")
	// The exposure row has no native measurement
	assert.Contains(t, output, "-")
}

func TestPrintGradeReportJSON(t *testing.T) {
	tmpDir := t.TempDir()
	outputFile := filepath.Join(tmpDir, "report.json")
	cfg := &contract.Config{
		Output:     schema.JSONOut,
		OutputFile: outputFile,
		Precision:  2,
	}

	err := PrintGradeReport(sampleReportModel(), cfg, time.Millisecond)
	require.NoError(t, err)

	content, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &decoded))
	summary, ok := decoded["summary"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "scan-001.jpg", summary["image"])
	assert.Equal(t, 0.88, summary["overall_score"])

	// Empty violation lists serialize as [], never null
	assert.NotContains(t, string(content), "null")
}

func TestPrintGradeReportCSV(t *testing.T) {
	tmpDir := t.TempDir()
	outputFile := filepath.Join(tmpDir, "report.csv")
	cfg := &contract.Config{
		Output:     schema.CSVOut,
		OutputFile: outputFile,
		Precision:  2,
	}

	err := PrintGradeReport(sampleReportModel(), cfg, time.Millisecond)
	require.NoError(t, err)

	content, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3) // header + 2 metric rows

	assert.Contains(t, lines[0], "image")
	assert.Contains(t, lines[0], "pass_threshold")
	assert.Contains(t, lines[1], "scan-001.jpg")
	assert.Contains(t, lines[1], "sharpness")
	assert.Contains(t, lines[1], "310.2")
	assert.Contains(t, lines[2], "exposure")
}

func TestPrintGradeReportParquetRejected(t *testing.T) {
	cfg := &contract.Config{
		Output:    schema.ParquetOut,
		Precision: 2,
	}

	err := PrintGradeReport(sampleReportModel(), cfg, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parquet output is only supported for batch analysis")
}

func TestWriteJSONGradeReport(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSONGradeReport(&buf, failingReportModel())
	require.NoError(t, err)

	var decoded schema.ReportModel
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "scan-002.jpg", decoded.Summary.Image)
	assert.Len(t, decoded.Metrics, 2)
	assert.Len(t, decoded.Recommendations, 2)
	require.Len(t, decoded.Sla.Violations, 2)
	assert.Equal(t, []string{"sharpness", "noise"}, decoded.Sla.Violations[1].Metrics)
}
