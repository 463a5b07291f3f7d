package carbon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestEvaluateGridEnergy(t *testing.T) {
	e := NewEvaluator(DefaultFactors())

	impact := e.Evaluate(Record{Type: TypeEnergy, Value: 100, FuelType: FuelGrid})
	require.Equal(t, 50.0, impact.Emissions)
	require.Zero(t, impact.Savings)
}

func TestEvaluateEnergyDefaultsToGrid(t *testing.T) {
	e := NewEvaluator(DefaultFactors())

	impact := e.Evaluate(Record{Type: TypeEnergy, Value: 100})
	require.Equal(t, 50.0, impact.Emissions)
}

func TestEvaluateDieselEnergy(t *testing.T) {
	e := NewEvaluator(DefaultFactors())

	impact := e.Evaluate(Record{Type: TypeEnergy, Value: 10, FuelType: FuelDiesel})
	require.InDelta(t, 26.8, impact.Emissions, 1e-9)
}

func TestEvaluateMachineryIgnoresFuelType(t *testing.T) {
	e := NewEvaluator(DefaultFactors())

	withGrid := e.Evaluate(Record{Type: TypeMachinery, Value: 5, FuelType: FuelGrid})
	without := e.Evaluate(Record{Type: TypeMachinery, Value: 5})
	require.Equal(t, without, withGrid)
	require.InDelta(t, 13.4, withGrid.Emissions, 1e-9)
}

func TestEvaluateMaterialSavings(t *testing.T) {
	e := NewEvaluator(DefaultFactors())

	impact := e.Evaluate(Record{Type: TypeMaterial, Value: 10, StandardEF: f64(300), SustainEF: f64(150)})
	require.Zero(t, impact.Emissions)
	require.Equal(t, 1500.0, impact.Savings)
}

func TestEvaluateMaterialMissingEFYieldsZero(t *testing.T) {
	e := NewEvaluator(DefaultFactors())

	require.Zero(t, e.Evaluate(Record{Type: TypeMaterial, Value: 10, StandardEF: f64(300)}))
	require.Zero(t, e.Evaluate(Record{Type: TypeMaterial, Value: 10, SustainEF: f64(150)}))
	require.Zero(t, e.Evaluate(Record{Type: TypeMaterial, Value: 10}))
}

func TestEvaluateMaterialNegativeDeltaNotClamped(t *testing.T) {
	e := NewEvaluator(DefaultFactors())

	impact := e.Evaluate(Record{Type: TypeMaterial, Value: 2, StandardEF: f64(100), SustainEF: f64(150)})
	require.Equal(t, -100.0, impact.Savings)
}

func TestEvaluateExclusivity(t *testing.T) {
	e := NewEvaluator(DefaultFactors())

	records := []Record{
		{Type: TypeEnergy, Value: 10},
		{Type: TypeEnergy, Value: 10, FuelType: FuelDiesel},
		{Type: TypeTransport, Value: 10},
		{Type: TypeMachinery, Value: 10},
		{Type: TypeWaste, Value: 10},
		{Type: TypeWater, Value: 10},
		{Type: TypeRenewable, Value: 10},
		{Type: TypeMaterial, Value: 10, StandardEF: f64(3), SustainEF: f64(1)},
		{Type: TypeRecycling, Value: 10},
		{Type: TypeWaterReuse, Value: 10},
	}

	for _, rec := range records {
		impact := e.Evaluate(rec)
		oneZero := impact.Emissions == 0 || impact.Savings == 0
		require.True(t, oneZero, "type %s produced both emissions and savings", rec.Type)
		if rec.Type.IsSavings() {
			require.Zero(t, impact.Emissions, "type %s", rec.Type)
			require.NotZero(t, impact.Savings, "type %s", rec.Type)
		} else {
			require.NotZero(t, impact.Emissions, "type %s", rec.Type)
			require.Zero(t, impact.Savings, "type %s", rec.Type)
		}
	}
}

func TestEvaluateUnknownTypeIsZero(t *testing.T) {
	e := NewEvaluator(DefaultFactors())

	impact := e.Evaluate(Record{Type: ActivityType("helicopter"), Value: 9000})
	require.Zero(t, impact.Emissions)
	require.Zero(t, impact.Savings)
	require.False(t, ActivityType("helicopter").IsSavings())
	require.False(t, ActivityType("helicopter").Known())
}

func TestEvaluateSanitizesMalformedValues(t *testing.T) {
	e := NewEvaluator(DefaultFactors())

	for _, value := range []float64{-10, math.NaN(), math.Inf(1), math.Inf(-1)} {
		impact := e.Evaluate(Record{Type: TypeEnergy, Value: value})
		require.Zero(t, impact.Emissions, "value %v", value)
		require.Zero(t, impact.Savings, "value %v", value)
	}
}

func TestEvaluateSanitizesMaterialEFs(t *testing.T) {
	e := NewEvaluator(DefaultFactors())

	impact := e.Evaluate(Record{Type: TypeMaterial, Value: 10, StandardEF: f64(math.NaN()), SustainEF: f64(2)})
	require.False(t, math.IsNaN(impact.Savings))
	require.Equal(t, -20.0, impact.Savings)
}

func TestEvaluateCustomFactors(t *testing.T) {
	e := NewEvaluator(Factors{GridElectricity: 1, DieselFuel: 2, Transport: 3, WasteLandfill: 4, WaterSupply: 5})

	require.Equal(t, 30.0, e.Evaluate(Record{Type: TypeTransport, Value: 10}).Emissions)
	require.Equal(t, 50.0, e.Evaluate(Record{Type: TypeWater, Value: 10}).Emissions)
	require.Equal(t, 10.0, e.Evaluate(Record{Type: TypeRenewable, Value: 10}).Savings)
}
