package core

import (
	"testing"

	"github.com/scangrade/scangrade/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClassifyScoreBoundaries pins the half-open band edges. A score equal
// to an edge belongs to the better tier.
func TestClassifyScoreBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected schema.QualityTier
	}{
		{
			name:     "perfect score",
			score:    1.0,
			expected: schema.ExcellentTier,
		},
		{
			name:     "excellent lower edge",
			score:    0.85,
			expected: schema.ExcellentTier,
		},
		{
			name:     "just below excellent",
			score:    0.8499,
			expected: schema.GoodTier,
		},
		{
			name:     "good lower edge",
			score:    0.70,
			expected: schema.GoodTier,
		},
		{
			name:     "just below good",
			score:    0.6999,
			expected: schema.FairTier,
		},
		{
			name:     "fair lower edge",
			score:    0.30,
			expected: schema.FairTier,
		},
		{
			name:     "just below fair",
			score:    0.2999,
			expected: schema.PoorTier,
		},
		{
			name:     "zero score",
			score:    0.0,
			expected: schema.PoorTier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyScore(tt.score, schema.DefaultBandEdges))
		})
	}
}

// TestClassifyScoreForeignObjects uses the raised EXCELLENT cutoff from the
// foreign objects profile.
func TestClassifyScoreForeignObjects(t *testing.T) {
	edges := schema.GetCatalogGlobal().Profile("foreign_objects").BandEdges

	assert.Equal(t, schema.ExcellentTier, classifyScore(0.90, edges))
	assert.Equal(t, schema.GoodTier, classifyScore(0.8999, edges))
	assert.Equal(t, schema.GoodTier, classifyScore(0.85, edges))
	assert.Equal(t, schema.FairTier, classifyScore(0.69, edges))
	assert.Equal(t, schema.PoorTier, classifyScore(0.29, edges))
}

// TestClassifyScoreMonotonicity ensures the tier never worsens as the
// score increases, for every metric profile.
func TestClassifyScoreMonotonicity(t *testing.T) {
	catalog := schema.GetCatalogGlobal()
	for _, name := range catalog.Names() {
		edges := catalog.Profile(name).BandEdges
		prevRank := schema.TierRank(classifyScore(0, edges))
		for i := 1; i <= 1000; i++ {
			score := float64(i) / 1000
			rank := schema.TierRank(classifyScore(score, edges))
			assert.LessOrEqual(t, rank, prevRank, "metric %s at score %g", name, score)
			prevRank = rank
		}
	}
}

// TestClassifyMetricsProjections checks that gate and color are pure
// projections of the tier for every classified metric.
func TestClassifyMetricsProjections(t *testing.T) {
	data := []byte(`{
		"image": "scan-020.tif",
		"metrics": {
			"sharpness": 0.95,
			"exposure": 0.75,
			"noise": 0.50,
			"color": 0.10,
			"foreign_objects": 0.88
		}
	}`)
	catalog := schema.GetCatalogGlobal()
	doc, err := NormalizeDocument(data, "fallback", catalog)
	require.NoError(t, err)

	classified := ClassifyMetrics(doc, catalog)
	require.Len(t, classified, 5)

	byName := make(map[string]schema.ClassifiedMetric, len(classified))
	for _, m := range classified {
		assert.Equal(t, schema.TierGate(m.Tier), m.Gate, m.Name)
		assert.Equal(t, schema.TierColor(m.Tier), m.Color, m.Name)
		assert.Equal(t, catalog.Profile(m.Name).PassThreshold, m.PassThreshold, m.Name)
		byName[m.Name] = m
	}

	assert.Equal(t, schema.ExcellentTier, byName["sharpness"].Tier)
	assert.Equal(t, schema.GoodTier, byName["exposure"].Tier)
	assert.Equal(t, schema.FairTier, byName["noise"].Tier)
	assert.Equal(t, schema.PoorTier, byName["color"].Tier)
	assert.Equal(t, schema.GoodTier, byName["foreign_objects"].Tier)

	assert.Equal(t, schema.PassGate, byName["sharpness"].Gate)
	assert.Equal(t, schema.GreenColor, byName["sharpness"].Color)
	assert.Equal(t, schema.WarnGate, byName["noise"].Gate)
	assert.Equal(t, schema.YellowColor, byName["noise"].Color)
	assert.Equal(t, schema.FailGate, byName["color"].Gate)
	assert.Equal(t, schema.RedColor, byName["color"].Color)
}

// TestBuildOverallResult derives stars and status from the overall score.
func TestBuildOverallResult(t *testing.T) {
	data := []byte(`{
		"image": "scan-021.tif",
		"overall_score": 0.875,
		"metrics": {"sharpness": 0.92, "exposure": 0.88, "color": 0.78}
	}`)
	catalog := schema.GetCatalogGlobal()
	doc, err := NormalizeDocument(data, "fallback", catalog)
	require.NoError(t, err)

	result := BuildOverallResult(doc, catalog)
	assert.Equal(t, "scan-021.tif", result.Image)
	assert.Equal(t, 0.875, result.OverallScore)
	assert.Equal(t, schema.ExcellentTier, result.Tier)
	assert.Equal(t, 4, result.StarRating)
	assert.Len(t, result.Metrics, 3)
}

// TestBuildOverallResultStarConsistency keeps stars and status aligned at
// every band edge.
func TestBuildOverallResultStarConsistency(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		tier  schema.QualityTier
		stars int
	}{
		{
			name:  "excellent edge",
			score: 0.85,
			tier:  schema.ExcellentTier,
			stars: 4,
		},
		{
			name:  "good edge",
			score: 0.70,
			tier:  schema.GoodTier,
			stars: 3,
		},
		{
			name:  "fair edge",
			score: 0.30,
			tier:  schema.FairTier,
			stars: 2,
		},
		{
			name:  "poor score",
			score: 0.25,
			tier:  schema.PoorTier,
			stars: 1,
		},
	}

	catalog := schema.GetCatalogGlobal()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &schema.MetricsDocument{
				Image:        "scan-022",
				OverallScore: tt.score,
				Metrics:      []schema.MetricRecord{{Name: "sharpness", Score: tt.score}},
			}
			result := BuildOverallResult(doc, catalog)
			assert.Equal(t, tt.tier, result.Tier)
			assert.Equal(t, tt.stars, result.StarRating)
		})
	}
}

// TestBuildOverallResultDefaultEdges keeps the overall tier on the default
// band edges even when every metric overrides its own.
func TestBuildOverallResultDefaultEdges(t *testing.T) {
	doc := &schema.MetricsDocument{
		Image:        "scan-023",
		OverallScore: 0.87,
		Metrics:      []schema.MetricRecord{{Name: "foreign_objects", Score: 0.87}},
	}
	catalog := schema.GetCatalogGlobal()

	result := BuildOverallResult(doc, catalog)
	// 0.87 is EXCELLENT overall but only GOOD under the foreign objects profile.
	assert.Equal(t, schema.ExcellentTier, result.Tier)
	assert.Equal(t, schema.GoodTier, result.Metrics[0].Tier)
}

func BenchmarkClassifyScore(b *testing.B) {
	for b.Loop() {
		classifyScore(0.72, schema.DefaultBandEdges)
	}
}

func BenchmarkClassifyMetrics(b *testing.B) {
	catalog := schema.GetCatalogGlobal()
	doc := &schema.MetricsDocument{
		Image:        "bench",
		OverallScore: 0.80,
		Metrics: []schema.MetricRecord{
			{Name: "sharpness", Score: 0.92},
			{Name: "exposure", Score: 0.88},
			{Name: "contrast", Score: 0.75},
			{Name: "noise", Score: 0.55},
			{Name: "color", Score: 0.25},
			{Name: "foreign_objects", Score: 0.91},
		},
	}

	for b.Loop() {
		ClassifyMetrics(doc, catalog)
	}
}
