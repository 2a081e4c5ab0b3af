package core

import (
	"github.com/scangrade/scangrade/schema"
)

// classifyScore assigns the quality tier for a normalized score using
// descending band edges. Bands are half-open: a score equal to an edge
// belongs to the better tier.
func classifyScore(score float64, edges [3]float64) schema.QualityTier {
	switch {
	case score >= edges[0]:
		return schema.ExcellentTier
	case score >= edges[1]:
		return schema.GoodTier
	case score >= edges[2]:
		return schema.FairTier
	default:
		return schema.PoorTier
	}
}

// ClassifyMetrics derives tier, gate and color for every metric of a
// normalized document. Gate and color are projections of the tier, so
// the three can never disagree for the same score.
func ClassifyMetrics(doc *schema.MetricsDocument, catalog *schema.Catalog) []schema.ClassifiedMetric {
	classified := make([]schema.ClassifiedMetric, 0, len(doc.Metrics))
	for _, record := range doc.Metrics {
		profile := catalog.Profile(record.Name)
		tier := classifyScore(record.Score, profile.BandEdges)
		classified = append(classified, schema.ClassifiedMetric{
			MetricRecord:  record,
			Tier:          tier,
			Gate:          schema.TierGate(tier),
			Color:         schema.TierColor(tier),
			PassThreshold: profile.PassThreshold,
		})
	}
	return classified
}

// BuildOverallResult classifies a normalized document into the full
// per-image result. The overall tier always uses the default band edges
// regardless of per-metric overrides.
func BuildOverallResult(doc *schema.MetricsDocument, catalog *schema.Catalog) *schema.OverallResult {
	tier := classifyScore(doc.OverallScore, schema.DefaultBandEdges)
	return &schema.OverallResult{
		Image:        doc.Image,
		OverallScore: doc.OverallScore,
		StarRating:   schema.TierStars(tier),
		Tier:         tier,
		Metrics:      ClassifyMetrics(doc, catalog),
	}
}
