package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/scangrade/scangrade/schema"
)

// slaSpecificationRaw mirrors SlaSpecification with pointers so that absent
// fields can be told apart from zero values during decoding.
type slaSpecificationRaw struct {
	MinOverallScore        *float64           `json:"min_overall_score"`
	MaxFailedCategories    *int               `json:"max_failed_categories"`
	RequiredPassCategories []string           `json:"required_pass_categories"`
	PerformanceTargets     map[string]float64 `json:"performance_targets"`
	ExcellenceMargin       *float64           `json:"excellence_margin"`
	WarningTolerance       *float64           `json:"warning_tolerance"`
}

// LoadSlaSpecification reads and validates an SLA specification document.
// A malformed document is rejected whole so evaluation never runs against a
// partially understood contract.
func LoadSlaSpecification(path string) (*schema.SlaSpecification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read SLA specification %s: %w", path, err)
	}
	spec, err := decodeSlaSpecification(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// decodeSlaSpecification parses SLA specification bytes, fills defaults for
// optional fields and range-checks every value.
func decodeSlaSpecification(data []byte) (*schema.SlaSpecification, error) {
	var raw slaSpecificationRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, fmt.Errorf("%w: field %q has wrong type (expected %s)", ErrMalformedSlaSpecification, typeErr.Field, typeErr.Type)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedSlaSpecification, err)
	}

	if raw.MinOverallScore == nil {
		return nil, fmt.Errorf("%w: min_overall_score is required", ErrMalformedSlaSpecification)
	}
	if *raw.MinOverallScore < 0 || *raw.MinOverallScore > 1 {
		return nil, fmt.Errorf("%w: min_overall_score must be within [0,1] (received %g)", ErrMalformedSlaSpecification, *raw.MinOverallScore)
	}

	spec := &schema.SlaSpecification{
		MinOverallScore:        *raw.MinOverallScore,
		RequiredPassCategories: []string{},
		PerformanceTargets:     map[string]float64{},
		ExcellenceMargin:       schema.DefaultExcellenceMargin,
		WarningTolerance:       schema.DefaultWarningTolerance,
	}

	if raw.MaxFailedCategories != nil {
		if *raw.MaxFailedCategories < 0 {
			return nil, fmt.Errorf("%w: max_failed_categories cannot be negative (received %d)", ErrMalformedSlaSpecification, *raw.MaxFailedCategories)
		}
		spec.MaxFailedCategories = *raw.MaxFailedCategories
	}
	if raw.RequiredPassCategories != nil {
		for _, category := range raw.RequiredPassCategories {
			if category == "" {
				return nil, fmt.Errorf("%w: required_pass_categories cannot contain empty names", ErrMalformedSlaSpecification)
			}
		}
		spec.RequiredPassCategories = raw.RequiredPassCategories
	}
	if raw.PerformanceTargets != nil {
		for metric := range raw.PerformanceTargets {
			if metric == "" {
				return nil, fmt.Errorf("%w: performance_targets cannot contain empty metric names", ErrMalformedSlaSpecification)
			}
		}
		spec.PerformanceTargets = raw.PerformanceTargets
	}
	if raw.ExcellenceMargin != nil {
		if *raw.ExcellenceMargin < 0 || *raw.ExcellenceMargin > 1 {
			return nil, fmt.Errorf("%w: excellence_margin must be within [0,1] (received %g)", ErrMalformedSlaSpecification, *raw.ExcellenceMargin)
		}
		spec.ExcellenceMargin = *raw.ExcellenceMargin
	}
	if raw.WarningTolerance != nil {
		if *raw.WarningTolerance < 0 || *raw.WarningTolerance > 1 {
			return nil, fmt.Errorf("%w: warning_tolerance must be within [0,1] (received %g)", ErrMalformedSlaSpecification, *raw.WarningTolerance)
		}
		spec.WarningTolerance = *raw.WarningTolerance
	}

	return spec, nil
}

// RevalidateSla reloads the SLA specification when a caller overrides the
// document path after initial config validation. An empty path keeps the
// current specification. On failure the config is left untouched.
func RevalidateSla(cfg *Config, slaPath string) error {
	if slaPath == "" {
		return nil
	}
	spec, err := LoadSlaSpecification(slaPath)
	if err != nil {
		return err
	}
	cfg.SlaPath = slaPath
	cfg.Sla = spec
	return nil
}
