package carbon

import "math"

// Impact is the single signed outcome of evaluating one record. Exactly one
// of Emissions or Savings is non-zero; a record never produces both.
type Impact struct {
	Emissions float64
	Savings   float64
}

// Evaluator turns activity records into impact figures using an injected
// factor table. It carries no mutable state and is safe for concurrent use.
type Evaluator struct {
	factors Factors
}

// NewEvaluator constructs an Evaluator around the given factor table.
func NewEvaluator(factors Factors) *Evaluator {
	return &Evaluator{factors: factors}
}

// Evaluate computes the impact of a single record.
//
// Malformed quantities (negative, NaN, ±Inf) sanitize to zero so one bad
// record cannot corrupt an aggregate report. Unknown activity types and
// material records missing either emission factor evaluate to zero impact
// rather than failing; both degrade paths increment a diagnostic counter so
// operators can see how often they fire.
func (e *Evaluator) Evaluate(rec Record) Impact {
	value := sanitize(rec.Value)
	if value != rec.Value {
		recordSanitizedValue(string(rec.Type))
	}

	switch rec.Type {
	case TypeEnergy:
		factor := e.factors.GridElectricity
		if rec.FuelType == FuelDiesel {
			factor = e.factors.DieselFuel
		}
		return Impact{Emissions: value * factor}
	case TypeTransport:
		return Impact{Emissions: value * e.factors.Transport}
	case TypeMachinery:
		// Site machinery is diesel-powered; the fuel type field is ignored.
		return Impact{Emissions: value * e.factors.DieselFuel}
	case TypeWaste:
		return Impact{Emissions: value * e.factors.WasteLandfill}
	case TypeWater:
		return Impact{Emissions: value * e.factors.WaterSupply}
	case TypeRenewable:
		// On-site generation displaces grid draw.
		return Impact{Savings: value * e.factors.GridElectricity}
	case TypeMaterial:
		if rec.StandardEF == nil || rec.SustainEF == nil {
			recordMissingMaterialEF()
			return Impact{}
		}
		std := sanitizeFinite(*rec.StandardEF)
		sus := sanitizeFinite(*rec.SustainEF)
		// May be negative when the substitute is worse; not clamped.
		return Impact{Savings: value * (std - sus)}
	case TypeRecycling:
		// Diverted from landfill.
		return Impact{Savings: value * e.factors.WasteLandfill}
	case TypeWaterReuse:
		return Impact{Savings: value * e.factors.WaterSupply}
	default:
		recordUnknownActivityType(string(rec.Type))
		return Impact{}
	}
}

// sanitize normalizes a quantity: negative, NaN, and infinite values become 0.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// sanitizeFinite zeroes NaN and infinities but keeps negative values, which
// are legitimate for emission factor deltas.
func sanitizeFinite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
