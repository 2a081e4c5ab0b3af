package core

import (
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
)

// EvaluateSla checks a classified result against a compliance specification.
// The four checks run in a fixed order so violation listings are
// deterministic for identical inputs. The result is never mutated.
func EvaluateSla(result *schema.OverallResult, spec *schema.SlaSpecification, catalog *schema.Catalog) (*schema.SlaVerdict, error) {
	violations := []schema.SlaViolation{}
	tooManyFailed := false

	metricsByName := make(map[string]schema.ClassifiedMetric, len(result.Metrics))
	for _, m := range result.Metrics {
		metricsByName[m.Name] = m
	}

	// --- 1. Overall Score Floor ---
	if result.OverallScore < spec.MinOverallScore {
		violations = append(violations, schema.SlaViolation{
			Requirement: "min_overall_score",
			Expected:    ">= " + formatFloat(spec.MinOverallScore),
			Actual:      formatFloat(result.OverallScore),
		})
	}

	// --- 2. Failed Category Count ---
	var failed []string
	for _, m := range result.Metrics {
		if m.Tier == schema.PoorTier {
			failed = append(failed, m.Name)
		}
	}
	if len(failed) > spec.MaxFailedCategories {
		tooManyFailed = true
		violations = append(violations, schema.SlaViolation{
			Requirement: "max_failed_categories",
			Expected:    "<= " + strconv.Itoa(spec.MaxFailedCategories),
			Actual:      strconv.Itoa(len(failed)),
			Metrics:     failed,
		})
	}

	// --- 3. Required Pass Categories ---
	// Each required category is checked against the metric's own pass
	// threshold, not the overall floor. A required category missing from
	// the input is an input mismatch, never a silent pass or fail.
	required := slices.Clone(spec.RequiredPassCategories)
	sort.Strings(required)
	for _, name := range required {
		m, ok := metricsByName[name]
		if !ok {
			return nil, fmt.Errorf("%w: required category %s not present in input", contract.ErrMissingRequiredMetric, name)
		}
		if m.Score < m.PassThreshold {
			violations = append(violations, schema.SlaViolation{
				Requirement: "required_pass_categories:" + name,
				Expected:    ">= " + formatFloat(m.PassThreshold),
				Actual:      formatFloat(m.Score),
				Metrics:     []string{name},
			})
		}
	}

	// --- 4. Performance Targets ---
	// Targets bound the metric's native measurement, with the comparison
	// direction coming from the catalog profile.
	targetNames := make([]string, 0, len(spec.PerformanceTargets))
	for name := range spec.PerformanceTargets {
		targetNames = append(targetNames, name)
	}
	targetNames = catalog.SortNames(targetNames)
	for _, name := range targetNames {
		bound := spec.PerformanceTargets[name]
		m, ok := metricsByName[name]
		if !ok {
			return nil, fmt.Errorf("%w: performance target %s references a metric not present in input", contract.ErrMissingRequiredMetric, name)
		}
		profile := catalog.Profile(name)
		expected := formatBound(profile.Direction, bound)
		if !m.HasNative {
			violations = append(violations, schema.SlaViolation{
				Requirement: "performance_targets:" + name,
				Expected:    expected,
				Actual:      "not measured",
				Metrics:     []string{name},
			})
			continue
		}

		var violated bool
		if profile.Direction == schema.MinTarget {
			violated = m.Native < bound
		} else {
			violated = m.Native > bound
		}
		if violated {
			violations = append(violations, schema.SlaViolation{
				Requirement: "performance_targets:" + name,
				Expected:    expected,
				Actual:      formatFloat(m.Native),
				Metrics:     []string{name},
			})
		}
	}

	level := deriveComplianceLevel(result.OverallScore, spec, len(violations), tooManyFailed)
	return &schema.SlaVerdict{Level: level, Violations: violations}, nil
}

// deriveComplianceLevel maps the violation outcome onto the four-level
// verdict. WARNING is only reachable when the failed-category count stayed
// within its limit and the score holds inside the warning tolerance.
func deriveComplianceLevel(score float64, spec *schema.SlaSpecification, violationCount int, tooManyFailed bool) schema.ComplianceLevel {
	if violationCount == 0 {
		if score >= spec.MinOverallScore+spec.ExcellenceMargin {
			return schema.ExcellentLevel
		}
		return schema.CompliantLevel
	}
	if !tooManyFailed && score >= spec.MinOverallScore*spec.WarningTolerance {
		return schema.WarningLevel
	}
	return schema.NonCompliantLevel
}

// formatFloat renders a score or measurement without trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatBound renders a performance bound with its comparison direction.
func formatBound(direction schema.TargetDirection, bound float64) string {
	if direction == schema.MinTarget {
		return ">= " + formatFloat(bound)
	}
	return "<= " + formatFloat(bound)
}
