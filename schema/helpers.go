package schema

import "strings"

// tierRank orders tiers for comparisons, 0 is best.
var tierRank = map[QualityTier]int{
	ExcellentTier: 0,
	GoodTier:      1,
	FairTier:      2,
	PoorTier:      3,
}

// levelRank orders compliance levels for comparisons, 0 is best.
var levelRank = map[ComplianceLevel]int{
	ExcellentLevel:    0,
	CompliantLevel:    1,
	WarningLevel:      2,
	NonCompliantLevel: 3,
}

// priorityRank orders priorities for sorting, 0 is most urgent.
var priorityRank = map[Priority]int{
	CriticalPriority: 0,
	WarningPriority:  1,
	InfoPriority:     2,
}

// TierColor maps a tier onto its color class. The mapping is fixed and
// non-overridable so no renderer can show inconsistent colors.
func TierColor(tier QualityTier) ColorClass {
	switch tier {
	case ExcellentTier, GoodTier:
		return GreenColor
	case FairTier:
		return YellowColor
	default:
		return RedColor
	}
}

// TierGate maps a tier onto its pass/warn/fail projection, aligned with
// TierColor so the two projections can never disagree.
func TierGate(tier QualityTier) GateStatus {
	switch tier {
	case ExcellentTier, GoodTier:
		return PassGate
	case FairTier:
		return WarnGate
	default:
		return FailGate
	}
}

// TierStars maps a tier onto its star rating, 4 for EXCELLENT down to
// 1 for POOR.
func TierStars(tier QualityTier) int {
	switch tier {
	case ExcellentTier:
		return 4
	case GoodTier:
		return 3
	case FairTier:
		return 2
	default:
		return 1
	}
}

// TierRank returns the ordering rank of a tier, 0 for EXCELLENT down to
// 3 for POOR. Unknown tiers rank worst.
func TierRank(tier QualityTier) int {
	if r, ok := tierRank[tier]; ok {
		return r
	}
	return len(tierRank)
}

// LevelRank returns the ordering rank of a compliance level, 0 for
// EXCELLENT down to 3 for NON_COMPLIANT. Unknown levels rank worst.
func LevelRank(level ComplianceLevel) int {
	if r, ok := levelRank[level]; ok {
		return r
	}
	return len(levelRank)
}

// PriorityRank returns the ordering rank of a priority, 0 for CRITICAL
// down to 2 for INFO. Unknown priorities rank last.
func PriorityRank(p Priority) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// LevelCompliant reports whether a compliance level counts toward the
// batch compliance rate.
func LevelCompliant(level ComplianceLevel) bool {
	return level == ExcellentLevel || level == CompliantLevel
}

// FormatMetricName turns a canonical metric name into a display name,
// e.g. "format_integrity" becomes "Format Integrity".
func FormatMetricName(name string) string {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
