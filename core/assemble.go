package core

import (
	"github.com/scangrade/scangrade/schema"
)

// AssembleReport composes the renderer-agnostic report model from one
// image's classification and compliance analysis. Section order is fixed
// and every slice is non-nil, so the same inputs always serialize to the
// same bytes.
func AssembleReport(result *schema.OverallResult, verdict *schema.SlaVerdict, recs []schema.Recommendation, spec *schema.SlaSpecification, catalog *schema.Catalog) *schema.ReportModel {
	rows := make([]schema.MetricRow, 0, len(result.Metrics))
	for _, m := range result.Metrics {
		row := schema.MetricRow{
			Name:          m.Name,
			Score:         m.Score,
			Tier:          m.Tier,
			Gate:          m.Gate,
			Color:         m.Color,
			PassThreshold: m.PassThreshold,
			Detail:        m.Detail,
		}
		if m.HasNative {
			native := m.Native
			row.Native = &native
			row.NativeUnit = catalog.Profile(m.Name).NativeUnit
		}
		rows = append(rows, row)
	}

	recommendations := recs
	if recommendations == nil {
		recommendations = []schema.Recommendation{}
	}
	violations := verdict.Violations
	if violations == nil {
		violations = []schema.SlaViolation{}
	}

	return &schema.ReportModel{
		Summary: schema.SummarySection{
			Image:        result.Image,
			OverallScore: result.OverallScore,
			StarRating:   result.StarRating,
			Tier:         result.Tier,
			Gate:         schema.TierGate(result.Tier),
			Color:        schema.TierColor(result.Tier),
			MetricCount:  len(result.Metrics),
		},
		Metrics:         rows,
		Recommendations: recommendations,
		Sla: schema.SlaSection{
			Level:           verdict.Level,
			MinOverallScore: spec.MinOverallScore,
			Violations:      violations,
		},
	}
}
