package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
)

// rawMetricValue is the structured form a metric entry may take in an
// input document. A bare number is also accepted and means score-only.
type rawMetricValue struct {
	Score  *float64 `json:"score"`
	Detail string   `json:"detail"`
	Native *float64 `json:"native_measurement"`
}

// rawDocument mirrors the JSON layout of a metrics input file before
// validation. Metric values stay raw until normalizeMetric decodes them.
type rawDocument struct {
	Image        string                     `json:"image"`
	OverallScore *float64                   `json:"overall_score"`
	Metrics      map[string]json.RawMessage `json:"metrics"`
}

// LoadMetricsDocument reads and normalizes one metrics document from disk.
// The raw bytes are returned alongside the document for cache keying.
func LoadMetricsDocument(path string, catalog *schema.Catalog) (*schema.MetricsDocument, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read metrics document %s: %w", path, err)
	}

	doc, err := NormalizeDocument(data, fallbackImageName(path), catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, data, nil
}

// NormalizeDocument validates raw document bytes into a MetricsDocument.
// Metrics are ordered canonically and every score is checked at this
// boundary, so downstream stages never re-validate.
func NormalizeDocument(data []byte, fallbackName string, catalog *schema.Catalog) (*schema.MetricsDocument, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode metrics document: %w", err)
	}
	if len(raw.Metrics) == 0 {
		return nil, errors.New("metrics document has no metrics")
	}

	image := raw.Image
	if image == "" {
		image = fallbackName
	}

	names := make([]string, 0, len(raw.Metrics))
	for name := range raw.Metrics {
		names = append(names, name)
	}
	names = catalog.SortNames(names)

	doc := &schema.MetricsDocument{
		Image:   image,
		Metrics: make([]schema.MetricRecord, 0, len(names)),
	}
	var sum float64
	for _, name := range names {
		record, err := normalizeMetric(name, raw.Metrics[name])
		if err != nil {
			return nil, err
		}
		doc.Metrics = append(doc.Metrics, record)
		sum += record.Score
	}

	// A supplied overall score is consumed as-is after validation. When the
	// producer omits it, fall back to the unweighted mean of metric scores.
	if raw.OverallScore != nil {
		if err := validateScore(*raw.OverallScore); err != nil {
			return nil, fmt.Errorf("overall_score: %w", err)
		}
		doc.OverallScore = *raw.OverallScore
	} else {
		doc.OverallScore = sum / float64(len(doc.Metrics))
	}

	return doc, nil
}

// normalizeMetric decodes one metric entry, accepting either a bare number
// or the structured form. A JSON null score falls through the pointer and
// is rejected like any other missing score.
func normalizeMetric(name string, raw json.RawMessage) (schema.MetricRecord, error) {
	var bare *float64
	if err := json.Unmarshal(raw, &bare); err == nil && bare != nil {
		if err := validateScore(*bare); err != nil {
			return schema.MetricRecord{}, fmt.Errorf("metric %s: %w", name, err)
		}
		return schema.MetricRecord{Name: name, Score: *bare}, nil
	}

	var value rawMetricValue
	if err := json.Unmarshal(raw, &value); err != nil {
		return schema.MetricRecord{}, fmt.Errorf("metric %s: %w: %v", name, contract.ErrInvalidMetricValue, err)
	}
	if value.Score == nil {
		return schema.MetricRecord{}, fmt.Errorf("metric %s: %w: has no score", name, contract.ErrInvalidMetricValue)
	}
	if err := validateScore(*value.Score); err != nil {
		return schema.MetricRecord{}, fmt.Errorf("metric %s: %w", name, err)
	}

	record := schema.MetricRecord{
		Name:   name,
		Score:  *value.Score,
		Detail: value.Detail,
	}
	if value.Native != nil {
		record.Native = *value.Native
		record.HasNative = true
	}
	return record, nil
}

// validateScore rejects scores outside [0,1]. Out-of-range values are
// never clamped.
func validateScore(score float64) error {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return fmt.Errorf("%w: score is not a finite number", contract.ErrInvalidMetricValue)
	}
	if score < 0 || score > 1 {
		return fmt.Errorf("%w: score %g is outside [0,1]", contract.ErrInvalidMetricValue, score)
	}
	return nil
}

// fallbackImageName derives an image identifier from the document path
// for producers that omit the image field.
func fallbackImageName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
