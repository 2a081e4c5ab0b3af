// Package schema has configs, models and global variables for all parts of scangrade.
package schema

// MetricRecord is one measured quality dimension from an input document.
// Records are created once per analyzed image and never mutated.
type MetricRecord struct {
	Name      string  // canonical metric identifier, e.g. "sharpness"
	Score     float64 // normalized score in [0,1], validated at the input boundary
	Detail    string  // optional human-readable explanation
	Native    float64 // measurement in the metric's native unit
	HasNative bool    // whether a native measurement was supplied
}

// ClassifiedMetric is a MetricRecord with its derived presentation fields.
// Tier, Gate and Color are always assigned together by the classifier.
type ClassifiedMetric struct {
	MetricRecord
	Tier          QualityTier
	Gate          GateStatus
	Color         ColorClass
	PassThreshold float64 // the metric's own acceptable minimum score
}

// MetricsDocument is the normalized form of one metrics input file.
type MetricsDocument struct {
	Image        string         // image identifier from the document, or the source file path
	OverallScore float64        // supplied by the producer, or the unweighted mean of metric scores
	Metrics      []MetricRecord // in canonical catalog order, unknown names last alphabetically
}

// OverallResult is the full classification of one image.
type OverallResult struct {
	Image        string
	OverallScore float64            // combined score, consumed as-is
	StarRating   int                // 1-4, derived from the overall tier
	Tier         QualityTier        // from the default band edges
	Metrics      []ClassifiedMetric // metric names are unique within the sequence
}

// Recommendation is one actionable improvement item.
type Recommendation struct {
	Priority Priority `json:"priority"`
	Category string   `json:"category"` // metric name, SLA requirement, or GENERAL
	Text     string   `json:"text"`
}

// SummarySection is the first section of a ReportModel.
type SummarySection struct {
	Image        string      `json:"image"`
	OverallScore float64     `json:"overall_score"`
	StarRating   int         `json:"star_rating"`
	Tier         QualityTier `json:"tier"`
	Gate         GateStatus  `json:"gate"`
	Color        ColorClass  `json:"color"`
	MetricCount  int         `json:"metric_count"`
}

// MetricRow is one entry of a ReportModel's metrics section.
type MetricRow struct {
	Name          string      `json:"name"`
	Score         float64     `json:"score"`
	Tier          QualityTier `json:"tier"`
	Gate          GateStatus  `json:"gate"`
	Color         ColorClass  `json:"color"`
	PassThreshold float64     `json:"pass_threshold"`
	Detail        string      `json:"detail,omitempty"`
	Native        *float64    `json:"native_measurement,omitempty"`
	NativeUnit    string      `json:"native_unit,omitempty"`
}

// SlaSection is the final section of a ReportModel.
type SlaSection struct {
	Level           ComplianceLevel `json:"compliance_level"`
	MinOverallScore float64         `json:"min_overall_score"`
	Violations      []SlaViolation  `json:"violations"`
}

// ReportModel is the renderer-agnostic document assembled from one image's
// classification and compliance analysis. Section order is fixed: Summary,
// Metrics, Recommendations, SLA. The model carries no timestamps and no
// maps, so identical inputs always serialize byte-identically.
type ReportModel struct {
	Summary         SummarySection   `json:"summary"`
	Metrics         []MetricRow      `json:"metrics"`
	Recommendations []Recommendation `json:"recommendations"`
	Sla             SlaSection       `json:"sla"`
}
