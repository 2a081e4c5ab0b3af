package schema

// CatalogMetric represents one metric profile for display purposes.
type CatalogMetric struct {
	Name           string          `json:"name"`
	DisplayName    string          `json:"display_name"`
	PassThreshold  float64         `json:"pass_threshold"`
	BandEdges      [3]float64      `json:"band_edges"`
	NativeUnit     string          `json:"native_unit"`
	Direction      TargetDirection `json:"direction"`
	ReferenceBound float64         `json:"reference_bound"`
	Action         string          `json:"action"`
}

// CatalogRenderModel contains all processed data needed for displaying the
// metric catalog.
type CatalogRenderModel struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Metrics     []CatalogMetric `json:"metrics"`
}

// BuildCatalogRenderModel flattens catalog profiles into display rows in
// canonical metric order.
func BuildCatalogRenderModel(catalog *Catalog) *CatalogRenderModel {
	names := catalog.Names()
	metrics := make([]CatalogMetric, len(names))

	for i, name := range names {
		p := catalog.Profile(name)
		metrics[i] = CatalogMetric{
			Name:           p.Name,
			DisplayName:    FormatMetricName(p.Name),
			PassThreshold:  p.PassThreshold,
			BandEdges:      p.BandEdges,
			NativeUnit:     p.NativeUnit,
			Direction:      p.Direction,
			ReferenceBound: p.ReferenceBound,
			Action:         p.Action,
		}
	}

	return &CatalogRenderModel{
		Title:       "Scangrade Metric Catalog",
		Description: "Scoring profiles for every graded quality metric",
		Metrics:     metrics,
	}
}
