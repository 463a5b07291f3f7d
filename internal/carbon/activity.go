// Package carbon implements the carbon accounting engine: emission factors,
// activity evaluation, trend aggregation, forecasting, and efficiency grading.
// Every function in this package is pure; callers supply fully materialized
// inputs and receive freshly computed outputs.
package carbon

import "time"

// ActivityType identifies what kind of site event a record describes. The
// type implies the measurement unit of Record.Value (kWh, km, liters, kg, m³).
type ActivityType string

const (
	// Emission-generating activity types.
	TypeEnergy    ActivityType = "energy"
	TypeTransport ActivityType = "transport"
	TypeMachinery ActivityType = "machinery"
	TypeWaste     ActivityType = "waste"
	TypeWater     ActivityType = "water"

	// Savings-generating activity types.
	TypeRenewable  ActivityType = "renewable"
	TypeMaterial   ActivityType = "material"
	TypeRecycling  ActivityType = "recycling"
	TypeWaterReuse ActivityType = "waterReuse"
)

// FuelType modifies how energy consumption is priced. Machinery always runs
// at the diesel rate regardless of this field.
type FuelType string

const (
	FuelGrid   FuelType = "grid"
	FuelDiesel FuelType = "diesel"
)

// IsSavings reports whether the activity type offsets emissions rather than
// producing them. Unknown types classify as emission-generating, though they
// still evaluate to zero impact.
func (t ActivityType) IsSavings() bool {
	switch t {
	case TypeRenewable, TypeMaterial, TypeRecycling, TypeWaterReuse:
		return true
	default:
		return false
	}
}

// Known reports whether the type is part of the fixed enumeration.
func (t ActivityType) Known() bool {
	switch t {
	case TypeEnergy, TypeTransport, TypeMachinery, TypeWaste, TypeWater,
		TypeRenewable, TypeMaterial, TypeRecycling, TypeWaterReuse:
		return true
	default:
		return false
	}
}

// Record is one logged site event. Records are append-only: once created they
// are never mutated, and every derived figure is recomputed from the full set.
type Record struct {
	ID          string
	Timestamp   time.Time
	Type        ActivityType
	Value       float64
	FuelType    FuelType // energy only; empty means grid
	StandardEF  *float64 // material only; kg CO₂e per unit of the conventional choice
	SustainEF   *float64 // material only; kg CO₂e per unit of the substitute
	Description string
}
