package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scangrade/scangrade/schema"
)

// BuildRecommendations derives the actionable items for one graded image.
// Tier-driven items come first from the catalog, then every SLA violation
// whose categories are not already covered contributes one CRITICAL item.
// A clean result yields a single INFO affirmation. Output is sorted by
// priority with insertion order preserved within each priority.
func BuildRecommendations(result *schema.OverallResult, verdict *schema.SlaVerdict, catalog *schema.Catalog) []schema.Recommendation {
	recs := []schema.Recommendation{}
	seen := make(map[[2]string]struct{})

	add := func(priority schema.Priority, category, text string) {
		key := [2]string{category, string(priority)}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		recs = append(recs, schema.Recommendation{Priority: priority, Category: category, Text: text})
	}

	for _, m := range result.Metrics {
		switch m.Tier {
		case schema.PoorTier:
			add(schema.CriticalPriority, m.Name, catalog.Profile(m.Name).Action)
		case schema.FairTier:
			add(schema.WarningPriority, m.Name, catalog.Profile(m.Name).Action)
		}
	}

	// A violation is covered when every offending metric already carries a
	// CRITICAL or WARNING item. Violations without offending metrics, like
	// the overall score floor, are never covered by tier items.
	covered := func(v schema.SlaViolation) bool {
		if len(v.Metrics) == 0 {
			return false
		}
		for _, name := range v.Metrics {
			_, critical := seen[[2]string{name, string(schema.CriticalPriority)}]
			_, warning := seen[[2]string{name, string(schema.WarningPriority)}]
			if !critical && !warning {
				return false
			}
		}
		return true
	}

	for _, v := range verdict.Violations {
		if covered(v) {
			continue
		}
		add(schema.CriticalPriority, violationCategory(v), violationText(v))
	}

	if len(recs) == 0 {
		add(schema.InfoPriority, schema.GeneralCategory, schema.InfoFallbackText)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return schema.PriorityRank(recs[i].Priority) < schema.PriorityRank(recs[j].Priority)
	})
	return recs
}

// violationCategory picks the recommendation category for a violation:
// the offending metric when there is exactly one, else the requirement.
func violationCategory(v schema.SlaViolation) string {
	if len(v.Metrics) == 1 {
		return v.Metrics[0]
	}
	return v.Requirement
}

// violationText phrases the specific unmet requirement for a violation.
func violationText(v schema.SlaViolation) string {
	switch {
	case v.Requirement == "min_overall_score":
		return fmt.Sprintf("Overall score %s is below the SLA floor of %s", v.Actual, strings.TrimPrefix(v.Expected, ">= "))
	case v.Requirement == "max_failed_categories":
		return fmt.Sprintf("%s categories scored POOR (limit %s): %s", v.Actual, strings.TrimPrefix(v.Expected, "<= "), strings.Join(v.Metrics, ", "))
	case strings.HasPrefix(v.Requirement, "required_pass_categories:"):
		name := strings.TrimPrefix(v.Requirement, "required_pass_categories:")
		return fmt.Sprintf("Required category %s scored %s, below its pass threshold of %s", name, v.Actual, strings.TrimPrefix(v.Expected, ">= "))
	case strings.HasPrefix(v.Requirement, "performance_targets:"):
		name := strings.TrimPrefix(v.Requirement, "performance_targets:")
		if v.Actual == "not measured" {
			return fmt.Sprintf("No native measurement for %s to compare against the target of %s", name, v.Expected)
		}
		return fmt.Sprintf("Native measurement %s for %s misses the target of %s", v.Actual, name, v.Expected)
	default:
		return fmt.Sprintf("SLA requirement %s not met: expected %s, got %s", v.Requirement, v.Expected, v.Actual)
	}
}
