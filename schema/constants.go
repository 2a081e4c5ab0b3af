package schema

type (
	// QualityTier is the ordered quality band a normalized score falls into.
	QualityTier string

	// ColorClass is the presentation color derived from a quality tier.
	ColorClass string

	// GateStatus is the pass/warn/fail projection of a quality tier.
	GateStatus string

	// ComplianceLevel is the ordered verdict of an SLA evaluation.
	ComplianceLevel string

	// Priority is the urgency of a recommendation.
	Priority string

	// TargetDirection states how an SLA performance target bounds a
	// metric's native measurement.
	TargetDirection string

	// OutputMode determines the output format.
	OutputMode string

	// DatabaseBackend determines the database backend for persistence.
	DatabaseBackend string
)

// Quality tiers from best to worst. These strings are a contract and
// surface verbatim on every output.
const (
	ExcellentTier QualityTier = "EXCELLENT" // [0.85, 1.0]
	GoodTier      QualityTier = "GOOD"      // [0.70, 0.85)
	FairTier      QualityTier = "FAIR"      // [0.30, 0.70)
	PoorTier      QualityTier = "POOR"      // [0.0, 0.30)
)

// Color classes derived from tiers.
const (
	GreenColor  ColorClass = "GREEN"  // EXCELLENT and GOOD
	YellowColor ColorClass = "YELLOW" // FAIR
	RedColor    ColorClass = "RED"    // POOR
)

// Gate statuses derived from tiers.
const (
	PassGate GateStatus = "PASS" // EXCELLENT and GOOD
	WarnGate GateStatus = "WARN" // FAIR
	FailGate GateStatus = "FAIL" // POOR
)

// Compliance levels from best to worst.
const (
	ExcellentLevel    ComplianceLevel = "EXCELLENT"     // no violations and overall score clears the excellence margin
	CompliantLevel    ComplianceLevel = "COMPLIANT"     // no violations
	WarningLevel      ComplianceLevel = "WARNING"       // violations within the warning tolerance
	NonCompliantLevel ComplianceLevel = "NON_COMPLIANT" // violations beyond tolerance
)

// Recommendation priorities from most to least urgent.
const (
	CriticalPriority Priority = "CRITICAL"
	WarningPriority  Priority = "WARNING"
	InfoPriority     Priority = "INFO"
)

// Performance target directions.
const (
	MinTarget TargetDirection = "min" // actual below the bound violates
	MaxTarget TargetDirection = "max" // actual above the bound violates
)

// Output modes.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet" // batch only
	ExcelOut   OutputMode = "xlsx"
)

// Database backends.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllTiers lists quality tiers from best to worst.
var AllTiers = []QualityTier{ExcellentTier, GoodTier, FairTier, PoorTier}

// AllComplianceLevels lists compliance levels from best to worst.
var AllComplianceLevels = []ComplianceLevel{ExcellentLevel, CompliantLevel, WarningLevel, NonCompliantLevel}

// AllPriorities lists recommendation priorities from most to least urgent.
var AllPriorities = []Priority{CriticalPriority, WarningPriority, InfoPriority}

// ValidOutputModes is a set of all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
	ExcelOut:   {},
}

// ValidDatabaseBackends is a set of all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidComplianceLevels is a set of all valid compliance levels,
// used to validate the --fail-on flag.
var ValidComplianceLevels = map[ComplianceLevel]struct{}{
	ExcellentLevel:    {},
	CompliantLevel:    {},
	WarningLevel:      {},
	NonCompliantLevel: {},
}
