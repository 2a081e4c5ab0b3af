package schema

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// SlaSpecification is the externally supplied compliance configuration.
// The engine never mutates a loaded specification and only evaluates
// against a specification passed by argument.
type SlaSpecification struct {
	MinOverallScore        float64            `json:"min_overall_score"`
	MaxFailedCategories    int                `json:"max_failed_categories"`
	RequiredPassCategories []string           `json:"required_pass_categories"`
	PerformanceTargets     map[string]float64 `json:"performance_targets"` // metric name to bound in the metric's native unit
	ExcellenceMargin       float64            `json:"excellence_margin"`
	WarningTolerance       float64            `json:"warning_tolerance"`
}

// SlaViolation is one unmet SLA requirement.
type SlaViolation struct {
	Requirement string   `json:"requirement"`
	Expected    string   `json:"expected"`
	Actual      string   `json:"actual"`
	Metrics     []string `json:"metrics,omitempty"` // offending metric names, when applicable
}

// SlaVerdict is the outcome of evaluating one OverallResult against one
// SlaSpecification. Violations is empty iff Level is EXCELLENT or COMPLIANT.
type SlaVerdict struct {
	Level      ComplianceLevel `json:"compliance_level"`
	Violations []SlaViolation  `json:"violations"`
}

// Default SLA tuning applied when the specification document omits the field.
const (
	DefaultExcellenceMargin = 0.10
	DefaultWarningTolerance = 0.85
)

// DefaultSlaSpecification returns the built-in specification used when no
// SLA document is supplied, so every report carries a compliance section.
func DefaultSlaSpecification() *SlaSpecification {
	return &SlaSpecification{
		MinOverallScore:        0.75,
		MaxFailedCategories:    1,
		RequiredPassCategories: []string{},
		PerformanceTargets:     map[string]float64{},
		ExcellenceMargin:       DefaultExcellenceMargin,
		WarningTolerance:       DefaultWarningTolerance,
	}
}

// Fingerprint returns a deterministic string covering the specification's
// bounds, so cached grades are never shared across different specifications.
func (s *SlaSpecification) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "min=%g;maxfail=%d;margin=%g;tolerance=%g;", s.MinOverallScore, s.MaxFailedCategories, s.ExcellenceMargin, s.WarningTolerance)
	required := slices.Clone(s.RequiredPassCategories)
	sort.Strings(required)
	fmt.Fprintf(&b, "required=%s;", strings.Join(required, ","))
	targets := make([]string, 0, len(s.PerformanceTargets))
	for name := range s.PerformanceTargets {
		targets = append(targets, name)
	}
	sort.Strings(targets)
	for _, name := range targets {
		fmt.Fprintf(&b, "target:%s=%g;", name, s.PerformanceTargets[name])
	}
	return b.String()
}
