package schema

// ImageOutcome is the per-image row of a batch run. Outcomes with a
// non-empty Err were not graded and are excluded from population stats.
type ImageOutcome struct {
	Image            string          `json:"image"`
	OverallScore     float64         `json:"overall_score"`
	StarRating       int             `json:"star_rating"`
	Tier             QualityTier     `json:"tier"`
	Level            ComplianceLevel `json:"compliance_level"`
	Violations       int             `json:"violations"`
	ExcellentMetrics int             `json:"excellent_metrics"`
	GoodMetrics      int             `json:"good_metrics"`
	FairMetrics      int             `json:"fair_metrics"`
	PoorMetrics      int             `json:"poor_metrics"`
	Err              string          `json:"error,omitempty"`
}

// BatchSummary is the population-level statistics for N graded images.
// Per-image overall tiers and per-metric tiers are tracked separately
// so the two distributions are never conflated.
type BatchSummary struct {
	TotalImages     int                     `json:"total_images"` // graded images, failures excluded
	FailedDocuments int                     `json:"failed_documents"`
	NoData          bool                    `json:"no_data"` // true when zero images were graded
	ComplianceRate  float64                 `json:"compliance_rate"`
	AverageScore    float64                 `json:"average_score"`
	OverallTiers    map[QualityTier]int     `json:"overall_tiers"` // counts sum to TotalImages
	MetricTiers     map[QualityTier]int     `json:"metric_tiers"`  // counts sum to total classified metrics
	Levels          map[ComplianceLevel]int `json:"levels"`
}

// BatchReport is the full output of a batch run.
type BatchReport struct {
	Outcomes []ImageOutcome `json:"outcomes"` // ranked worst first
	Summary  BatchSummary   `json:"summary"`
}
