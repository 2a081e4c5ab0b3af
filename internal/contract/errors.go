package contract

import "errors"

// Contract failure kinds. Callers wrap these with the offending metric or
// field name so errors.Is matching works and messages stay precise.
var (
	// ErrInvalidMetricValue marks a non-numeric metric input or a score
	// outside [0,1]. Out-of-range scores are rejected, never clamped.
	ErrInvalidMetricValue = errors.New("invalid metric value")

	// ErrMissingRequiredMetric marks an SLA requirement referencing a
	// metric absent from the input. This is an input mismatch, not a
	// compliance failure.
	ErrMissingRequiredMetric = errors.New("missing required metric")

	// ErrMalformedSlaSpecification marks an SLA document with absent or
	// mistyped required fields. No partial evaluation happens against a
	// malformed specification.
	ErrMalformedSlaSpecification = errors.New("malformed SLA specification")
)
