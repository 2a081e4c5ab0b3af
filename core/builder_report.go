package core

import (
	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
)

// ReportBuilder builds the report model for one normalized document using
// a builder pattern.
type ReportBuilder struct {
	cfg     *contract.Config
	doc     *schema.MetricsDocument
	result  *schema.OverallResult
	verdict *schema.SlaVerdict
	recs    []schema.Recommendation
	model   *schema.ReportModel
}

// NewReportBuilder creates a new builder for grade reports.
func NewReportBuilder(cfg *contract.Config) *ReportBuilder {
	return &ReportBuilder{cfg: cfg}
}

// UseDocument sets the normalized document to grade.
func (b *ReportBuilder) UseDocument(doc *schema.MetricsDocument) *ReportBuilder {
	b.doc = doc
	return b
}

// Classify derives the overall result with per-metric tiers, gates and colors.
func (b *ReportBuilder) Classify() *ReportBuilder {
	b.result = BuildOverallResult(b.doc, b.cfg.Catalog)
	return b
}

// Evaluate checks the classified result against the active SLA specification.
func (b *ReportBuilder) Evaluate() (*ReportBuilder, error) {
	verdict, err := EvaluateSla(b.result, b.cfg.Sla, b.cfg.Catalog)
	if err != nil {
		return nil, err
	}
	b.verdict = verdict
	return b, nil
}

// Recommend derives the actionable recommendation list.
func (b *ReportBuilder) Recommend() *ReportBuilder {
	b.recs = BuildRecommendations(b.result, b.verdict, b.cfg.Catalog)
	return b
}

// Assemble composes the final report model from all prior stages.
func (b *ReportBuilder) Assemble() *ReportBuilder {
	b.model = AssembleReport(b.result, b.verdict, b.recs, b.cfg.Sla, b.cfg.Catalog)
	return b
}

// GetResult returns the built report model.
func (b *ReportBuilder) GetResult() *schema.ReportModel {
	return b.model
}

// gradeDocument runs the full grading pipeline for one normalized document.
func gradeDocument(cfg *contract.Config, doc *schema.MetricsDocument) (*schema.ReportModel, error) {
	// 1. Initialize the builder
	builder := NewReportBuilder(cfg).UseDocument(doc)

	// 2. Execute the required steps in order (Method Chaining)
	builder.Classify()
	if _, err := builder.Evaluate(); err != nil {
		return nil, err
	}
	builder.Recommend().Assemble()

	// 3. Build the final result
	return builder.GetResult(), nil
}
