package core

import (
	"github.com/scangrade/scangrade/schema"
)

// AggregateBatch computes population statistics over a set of per-image
// outcomes. Documents that failed to grade are counted separately and
// excluded from every population stat. An empty population reports the
// NoData flag with a zero compliance rate, never a division by zero.
func AggregateBatch(outcomes []schema.ImageOutcome) schema.BatchSummary {
	summary := schema.BatchSummary{
		OverallTiers: make(map[schema.QualityTier]int),
		MetricTiers:  make(map[schema.QualityTier]int),
		Levels:       make(map[schema.ComplianceLevel]int),
	}

	var compliant int
	var scoreSum float64
	for _, o := range outcomes {
		if o.Err != "" {
			summary.FailedDocuments++
			continue
		}
		summary.TotalImages++
		scoreSum += o.OverallScore
		summary.OverallTiers[o.Tier]++
		summary.Levels[o.Level]++
		if schema.LevelCompliant(o.Level) {
			compliant++
		}
		summary.MetricTiers[schema.ExcellentTier] += o.ExcellentMetrics
		summary.MetricTiers[schema.GoodTier] += o.GoodMetrics
		summary.MetricTiers[schema.FairTier] += o.FairMetrics
		summary.MetricTiers[schema.PoorTier] += o.PoorMetrics
	}

	if summary.TotalImages == 0 {
		summary.NoData = true
		return summary
	}
	summary.ComplianceRate = float64(compliant) / float64(summary.TotalImages)
	summary.AverageScore = scoreSum / float64(summary.TotalImages)
	return summary
}
