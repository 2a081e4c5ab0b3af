package contract

import (
	"fmt"
	"maps"
	"runtime"
	"strings"

	"github.com/scangrade/scangrade/schema"
)

// Tunable defaults for the CLI surface.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultPattern     = "*.json"
)

// DefaultWorkers matches the scheduler's thread count.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DefaultFailOn is the default compliance level at which the sla gate fails.
var DefaultFailOn = schema.NonCompliantLevel

// ProfileConfig records whether profiling is on and the output file prefix.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// CatalogProfileRaw holds per-metric tuning for a single catalog entry from
// the YAML config file. Use pointers for optional fields so absent values
// keep the built-in catalog defaults.
type CatalogProfileRaw struct {
	PassThreshold *float64  `mapstructure:"pass_threshold"`
	BandEdges     []float64 `mapstructure:"band_edges"`
}

// Config is the validated runtime configuration shared by every command.
type Config struct {
	InputPath   string
	ResultLimit int
	Workers     int
	Detail      bool
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Pattern     string
	Width       int // 0 means detect from the terminal

	SlaPath string
	Sla     *schema.SlaSpecification
	Catalog *schema.Catalog
	FailOn  schema.ComplianceLevel

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // prefer the env var, flag values leak into process listings

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // prefer the env var, flag values leak into process listings

	TargetVersion int

	UseEmojis bool
	UseColors bool
}

// ConfigRawInput is the untyped bag Viper unmarshals flag, environment and
// config file values into before validation.
type ConfigRawInput struct {
	// Positional argument, filled by PreRunE rather than Viper.
	InputPathStr string

	// Persistent flags
	OutputFile     string `mapstructure:"output-file"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	Detail         bool   `mapstructure:"detail"`
	Width          int    `mapstructure:"width"`
	Sla            string `mapstructure:"sla"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	RunsBackend    string `mapstructure:"runs-backend"`
	RunsDBConnect  string `mapstructure:"runs-db-connect"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`

	// sla command
	FailOn string `mapstructure:"fail-on"`

	// batch command
	Pattern string `mapstructure:"pattern"`

	// runs migrate command
	TargetVersion int `mapstructure:"target-version"`

	// Config file only
	Catalog map[string]*CatalogProfileRaw `mapstructure:"catalog"`
}

// Clone returns a copy safe for per-request mutation. The SLA document is
// deep-copied since handlers override it; the catalog is immutable and
// stays shared.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Sla != nil {
		spec := *c.Sla
		if c.Sla.RequiredPassCategories != nil {
			spec.RequiredPassCategories = make([]string, len(c.Sla.RequiredPassCategories))
			copy(spec.RequiredPassCategories, c.Sla.RequiredPassCategories)
		}
		if c.Sla.PerformanceTargets != nil {
			spec.PerformanceTargets = make(map[string]float64, len(c.Sla.PerformanceTargets))
			maps.Copy(spec.PerformanceTargets, c.Sla.PerformanceTargets)
		}
		clone.Sla = &spec
	}
	return &clone
}

// ProcessAndValidate turns the raw inputs into the final Config, failing
// on the first invalid field.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := applyScalarInputs(cfg, input); err != nil {
		return err
	}
	if err := processCatalogOverrides(cfg, input); err != nil {
		return err
	}
	if err := processSlaSpecification(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString checks that a connection string has the
// shape its backend driver expects. flagName names the offending flag in
// error messages.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr, flagName string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("%s is required when using %s backend", flagName, backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("%s must look like user:pass@tcp(host:port)/dbname for mysql", flagName)
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("%s is missing the database name after '/'", flagName)
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("%s is required when using %s backend", flagName, backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("%s must include host= for postgresql", flagName)
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("%s must include dbname= for postgresql", flagName)
		}
	}
	return nil
}

// applyStoreInputs validates the cache and run store settings. The runs
// backend is optional and only checked when set.
func applyStoreInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("cache backend %q is not one of sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect, "cache-db-connect"); err != nil {
		return err
	}

	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if cfg.RunsBackend != "" {
		if _, ok := schema.ValidDatabaseBackends[cfg.RunsBackend]; !ok {
			return fmt.Errorf("runs backend %q is not one of sqlite, mysql, postgresql, none", input.RunsBackend)
		}
		cfg.RunsDBConnect = input.RunsDBConnect
		if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect, "runs-db-connect"); err != nil {
			return err
		}

		// Sharing one database between the stores corrupts neither but
		// makes clears destructive across features, so refuse it. Empty
		// sqlite connection strings resolve to the default file paths
		// before comparing.
		if cfg.CacheBackend == cfg.RunsBackend && cfg.CacheBackend == schema.SQLiteBackend {
			cacheDBPath := cfg.CacheDBConnect
			if cacheDBPath == "" {
				cacheDBPath = GetCacheDBFilePath()
			}
			runsDBPath := cfg.RunsDBConnect
			if runsDBPath == "" {
				runsDBPath = GetRunsDBFilePath()
			}
			if cacheDBPath == runsDBPath {
				return fmt.Errorf("cache and run tracking both resolve to the SQLite file %q, use separate files", cacheDBPath)
			}
		}
	}

	return nil
}

// applyScalarInputs validates and copies every scalar field into cfg.
func applyScalarInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.InputPath = input.InputPathStr
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width
	cfg.SlaPath = input.Sla
	cfg.TargetVersion = input.TargetVersion

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("--emoji: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("--color: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 1 and %d, got %d", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2, got %d", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("output format %q is not one of text, csv, json, parquet, xlsx", cfg.Output)
	}

	if input.FailOn == "" {
		cfg.FailOn = DefaultFailOn
	} else {
		cfg.FailOn = schema.ComplianceLevel(strings.ToUpper(input.FailOn))
		if _, ok := schema.ValidComplianceLevels[cfg.FailOn]; !ok {
			return fmt.Errorf("fail-on level %q is not one of excellent, compliant, warning, non_compliant", input.FailOn)
		}
	}

	if err := applyStoreInputs(cfg, input); err != nil {
		return err
	}

	cfg.Pattern = strings.TrimSpace(input.Pattern)
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}

	return nil
}

// processCatalogOverrides validates per-metric tuning from the config file
// and applies it on top of the built-in catalog.
func processCatalogOverrides(cfg *Config, input *ConfigRawInput) error {
	if len(input.Catalog) == 0 {
		cfg.Catalog = schema.GetCatalogGlobal()
		return nil
	}

	overrides := make(map[string]schema.ProfileOverride, len(input.Catalog))
	for name, raw := range input.Catalog {
		if raw == nil {
			continue
		}
		var override schema.ProfileOverride
		if raw.PassThreshold != nil {
			if *raw.PassThreshold < 0.0 || *raw.PassThreshold > 1.0 {
				return fmt.Errorf("catalog pass_threshold for metric %s must be between 0.0 and 1.0 (received %.2f)", name, *raw.PassThreshold)
			}
			override.PassThreshold = raw.PassThreshold
		}
		if raw.BandEdges != nil {
			if len(raw.BandEdges) != 3 {
				return fmt.Errorf("catalog band_edges for metric %s must have exactly 3 values (received %d)", name, len(raw.BandEdges))
			}
			edges := [3]float64{raw.BandEdges[0], raw.BandEdges[1], raw.BandEdges[2]}
			for _, edge := range edges {
				if edge <= 0.0 || edge >= 1.0 {
					return fmt.Errorf("catalog band_edges for metric %s must be between 0.0 and 1.0 exclusive (received %.2f)", name, edge)
				}
			}
			if edges[0] <= edges[1] || edges[1] <= edges[2] {
				return fmt.Errorf("catalog band_edges for metric %s must be strictly descending (received %.2f, %.2f, %.2f)", name, edges[0], edges[1], edges[2])
			}
			override.BandEdges = &edges
		}
		overrides[name] = override
	}

	cfg.Catalog = schema.GetCatalogGlobal().WithOverrides(overrides)
	return nil
}

// processSlaSpecification loads the SLA document referenced by --sla,
// falling back to the built-in default specification.
func processSlaSpecification(cfg *Config, input *ConfigRawInput) error {
	if cfg.SlaPath == "" {
		cfg.Sla = schema.DefaultSlaSpecification()
		return nil
	}
	spec, err := LoadSlaSpecification(cfg.SlaPath)
	if err != nil {
		return err
	}
	cfg.Sla = spec
	return nil
}

// ProcessProfilingConfig enables profiling when a prefix was given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
