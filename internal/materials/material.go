// Package materials scores sustainable building materials against a site's
// emissions profile. Reference data comes from the material catalog; scores
// and savings figures are computed per request and never stored.
package materials

// Supplier describes who provides a material.
type Supplier struct {
	Name     string
	Rating   float64 // 1–5; zero means unrated
	Location string
}

// EcoImpact captures the environmental attributes of a material.
type EcoImpact struct {
	CarbonFootprint float64 // kg CO₂e per unit
	WaterUsage      float64 // liters per unit
	Recyclability   float64 // 0–100 percent
	Renewable       bool
	Local           bool
}

// Material is one catalog entry. Catalog rows are immutable reference data.
type Material struct {
	ID       string
	Name     string
	Category string
	Cost     float64
	Unit     string
	Eco      EcoImpact
	Supplier *Supplier
}

// Profile is the caller's emissions context used to rank candidates.
type Profile struct {
	// HighImpactCategories are the material categories where the caller's
	// emissions are concentrated; matches earn the category component.
	HighImpactCategories []string
	// EstimatedQuantity sizes the potential-savings display figure.
	EstimatedQuantity float64
}

// Scored pairs a material with its computed ranking figures.
type Scored struct {
	Material
	RecommendationScore float64
	PotentialSavings    float64
}
