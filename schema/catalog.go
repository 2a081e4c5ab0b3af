package schema

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
)

// MetricProfile describes the scoring parameters for one quality dimension.
type MetricProfile struct {
	Name           string          // canonical metric name
	BandEdges      [3]float64      // descending tier cutoffs: EXCELLENT, GOOD and FAIR lower bounds
	PassThreshold  float64         // minimum score for required-pass checks
	NativeUnit     string          // unit of the native measurement
	Direction      TargetDirection // how performance targets bound the native measurement
	ReferenceBound float64         // documented default bound for SLA authors
	Action         string          // recommendation text for FAIR and POOR tiers
}

// ProfileOverride carries optional per-metric tuning from the config file.
type ProfileOverride struct {
	PassThreshold *float64
	BandEdges     *[3]float64
}

// Catalog holds the metric profiles the engine grades against. A catalog
// is immutable once built; WithOverrides returns a tuned copy.
type Catalog struct {
	profiles map[string]MetricProfile
	order    []string // canonical report ordering
}

// DefaultPassThreshold is the acceptable minimum score shared by all
// profiles unless overridden.
const DefaultPassThreshold = 0.70

// GeneralCategory is the recommendation category when no metric applies.
const GeneralCategory = "GENERAL"

// InfoFallbackText affirms a result that meets every standard.
const InfoFallbackText = "Quality meets or exceeds all standards; no action required"

// DefaultBandEdges are the tier cutoffs shared by most metrics.
var DefaultBandEdges = [3]float64{0.85, 0.70, 0.30}

// foreignObjectsBandEdges raises the EXCELLENT cutoff since near-perfect
// scores are expected for object detection.
var foreignObjectsBandEdges = [3]float64{0.90, 0.70, 0.30}

var (
	catalogOnce     sync.Once
	catalogInstance *Catalog
)

// GetCatalogGlobal returns the built-in metric catalog.
func GetCatalogGlobal() *Catalog {
	catalogOnce.Do(func() {
		catalogInstance = buildDefaultCatalog()
	})
	return catalogInstance
}

// NewCatalog builds a catalog from profiles, preserving their order.
func NewCatalog(profiles []MetricProfile) *Catalog {
	c := &Catalog{
		profiles: make(map[string]MetricProfile, len(profiles)),
		order:    make([]string, 0, len(profiles)),
	}
	for _, p := range profiles {
		c.profiles[p.Name] = p
		c.order = append(c.order, p.Name)
	}
	return c
}

func buildDefaultCatalog() *Catalog {
	return NewCatalog([]MetricProfile{
		{
			Name:           "sharpness",
			BandEdges:      DefaultBandEdges,
			PassThreshold:  DefaultPassThreshold,
			NativeUnit:     "laplacian variance",
			Direction:      MinTarget,
			ReferenceBound: 150,
			Action:         "Retake photo with better focus or use a tripod",
		},
		{
			Name:           "exposure",
			BandEdges:      DefaultBandEdges,
			PassThreshold:  DefaultPassThreshold,
			NativeUnit:     "clipped pixels %",
			Direction:      MaxTarget,
			ReferenceBound: 0.5,
			Action:         "Adjust lighting or camera exposure settings",
		},
		{
			Name:           "contrast",
			BandEdges:      DefaultBandEdges,
			PassThreshold:  DefaultPassThreshold,
			NativeUnit:     "RMS contrast",
			Direction:      MinTarget,
			ReferenceBound: 0.20,
			Action:         "Improve lighting conditions or post-process contrast",
		},
		{
			Name:           "geometry",
			BandEdges:      DefaultBandEdges,
			PassThreshold:  DefaultPassThreshold,
			NativeUnit:     "skew degrees",
			Direction:      MaxTarget,
			ReferenceBound: 1.0,
			Action:         "Straighten the document or adjust the camera angle",
		},
		{
			Name:           "noise",
			BandEdges:      DefaultBandEdges,
			PassThreshold:  DefaultPassThreshold,
			NativeUnit:     "noise sigma",
			Direction:      MaxTarget,
			ReferenceBound: 0.04,
			Action:         "Use a lower ISO setting or better lighting",
		},
		{
			Name:           "color",
			BandEdges:      DefaultBandEdges,
			PassThreshold:  DefaultPassThreshold,
			NativeUnit:     "hue cast degrees",
			Direction:      MaxTarget,
			ReferenceBound: 6.0,
			Action:         "Calibrate white balance to remove the color cast",
		},
		{
			Name:           "resolution",
			BandEdges:      DefaultBandEdges,
			PassThreshold:  DefaultPassThreshold,
			NativeUnit:     "dpi",
			Direction:      MinTarget,
			ReferenceBound: 300,
			Action:         "Scan or photograph at a higher DPI",
		},
		{
			Name:           "format_integrity",
			BandEdges:      DefaultBandEdges,
			PassThreshold:  DefaultPassThreshold,
			NativeUnit:     "bits per channel",
			Direction:      MinTarget,
			ReferenceBound: 8,
			Action:         "Re-export the file at full bit depth",
		},
		{
			Name:           "border_background",
			BandEdges:      DefaultBandEdges,
			PassThreshold:  DefaultPassThreshold,
			NativeUnit:     "margin ratio",
			Direction:      MinTarget,
			ReferenceBound: 0.10,
			Action:         "Ensure a black background and proper margins",
		},
		{
			Name:           "foreign_objects",
			BandEdges:      foreignObjectsBandEdges,
			PassThreshold:  DefaultPassThreshold,
			NativeUnit:     "detected objects",
			Direction:      MaxTarget,
			ReferenceBound: 0,
			Action:         "Remove hands, clips, or other objects from frame",
		},
		{
			Name:           "completeness",
			BandEdges:      DefaultBandEdges,
			PassThreshold:  DefaultPassThreshold,
			NativeUnit:     "coverage ratio",
			Direction:      MinTarget,
			ReferenceBound: 0.90,
			Action:         "Capture the full document with margins on all sides",
		},
	})
}

// defaultProfile is applied to metric names the catalog does not know,
// keeping the engine open to new dimensions.
func defaultProfile(name string) MetricProfile {
	return MetricProfile{
		Name:          name,
		BandEdges:     DefaultBandEdges,
		PassThreshold: DefaultPassThreshold,
		Direction:     MinTarget,
		Action:        FallbackAction(name),
	}
}

// FallbackAction returns the generic recommendation text for metrics
// without a catalog entry.
func FallbackAction(name string) string {
	return "Improve " + name + " quality"
}

// Profile returns the profile for a metric name. Unknown names receive
// the default profile.
func (c *Catalog) Profile(name string) MetricProfile {
	if p, ok := c.profiles[name]; ok {
		return p
	}
	return defaultProfile(name)
}

// Has reports whether the catalog carries a profile for name.
func (c *Catalog) Has(name string) bool {
	_, ok := c.profiles[name]
	return ok
}

// Names returns the catalog's metric names in canonical report order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.order)
}

// SortNames orders metric names canonically: catalog order first, then
// unknown names alphabetically. The input slice is not modified.
func (c *Catalog) SortNames(names []string) []string {
	rank := make(map[string]int, len(c.order))
	for i, n := range c.order {
		rank[n] = i
	}
	sorted := slices.Clone(names)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, iok := rank[sorted[i]]
		rj, jok := rank[sorted[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		default:
			return sorted[i] < sorted[j]
		}
	})
	return sorted
}

// Fingerprint returns a deterministic string covering every profile's
// tuning. Cache keys include it so config overrides invalidate entries.
func (c *Catalog) Fingerprint() string {
	var b strings.Builder
	for _, name := range c.order {
		p := c.profiles[name]
		fmt.Fprintf(&b, "%s|%g,%g,%g|%g|%s;",
			name, p.BandEdges[0], p.BandEdges[1], p.BandEdges[2], p.PassThreshold, p.Direction)
	}
	return b.String()
}

// WithOverrides returns a copy of the catalog with per-metric tuning
// replaced. Overrides for unknown names add tuned default profiles, so
// input documents using the same name pick them up.
func (c *Catalog) WithOverrides(overrides map[string]ProfileOverride) *Catalog {
	if len(overrides) == 0 {
		return c
	}
	profiles := make(map[string]MetricProfile, len(c.profiles)+len(overrides))
	maps.Copy(profiles, c.profiles)
	order := slices.Clone(c.order)

	var extra []string
	for name, ovr := range overrides {
		p, ok := profiles[name]
		if !ok {
			p = defaultProfile(name)
			extra = append(extra, name)
		}
		if ovr.PassThreshold != nil {
			p.PassThreshold = *ovr.PassThreshold
		}
		if ovr.BandEdges != nil {
			p.BandEdges = *ovr.BandEdges
		}
		profiles[name] = p
	}
	sort.Strings(extra)
	order = append(order, extra...)

	return &Catalog{profiles: profiles, order: order}
}
