package calc

import (
	"math"
	"testing"

	"github.com/ddreams3d/quoter-service/internal/model"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func singleLinePayload(duration, weight float64) model.ComputationPayload {
	return model.ComputationPayload{
		MachineLines: []model.MachineLineItem{{
			MachineID:            "generic",
			Type:                 model.MachineTypeFDM,
			UnitDurationMinutes:  duration,
			UnitWeightGrams:      weight,
			TotalDurationMinutes: duration,
			TotalWeightGrams:     weight,
		}},
		TotalMachineMinutes: duration,
		TotalWeightGrams:    weight,
		Quantity:            1,
	}
}

func TestCalculate_ExampleScenario(t *testing.T) {
	// One FDM line, 120 min, 50 g, no depreciation, no labor.
	payload := singleLinePayload(120, 50)
	rates := model.RateSettings{
		ElectricityPricePerKwh: 0.6,
		FilamentCostPerKg:      20,
	}

	costs := Calculate(payload, rates)

	nearlyEqual(t, "electricity", costs.Electricity, 0.2*0.6*2)
	nearlyEqual(t, "material", costs.Material, 1.0)
	nearlyEqual(t, "depreciation", costs.Depreciation, 0)
	nearlyEqual(t, "totalDirect", costs.TotalDirect, 1.24)
}

func TestCalculate_RiskIncreasesConsumptionNotRates(t *testing.T) {
	payload := singleLinePayload(120, 50)
	payload.Labor = &model.LaborMinutes{General: 60}
	rates := model.RateSettings{
		ElectricityPricePerKwh: 0.6,
		FilamentCostPerKg:      20,
		LaborHourlyRate:        10,
	}

	base := Calculate(payload, rates)

	risky := payload
	risky.FailureRatePercent = 20
	adjusted := Calculate(risky, rates)

	nearlyEqual(t, "riskFactor", adjusted.RiskFactor, 1.2)
	nearlyEqual(t, "electricity", adjusted.Electricity, base.Electricity*1.2)
	nearlyEqual(t, "material", adjusted.Material, base.Material*1.2)
	nearlyEqual(t, "laborValue", adjusted.LaborValue, base.LaborValue*1.2)
	nearlyEqual(t, "machineMinutes", adjusted.TotalMachineMinutes, base.TotalMachineMinutes*1.2)
	// Fixed fees do not depend on consumption.
	nearlyEqual(t, "startupFee", adjusted.StartupFee, base.StartupFee)
}

func TestCalculate_Idempotent(t *testing.T) {
	payload := singleLinePayload(95, 33)
	payload.FailureRatePercent = 7
	payload.Labor = &model.LaborMinutes{General: 25, Painting: 10, Modeling: 40}
	rates := testRates()

	first := Calculate(payload, rates)
	second := Calculate(payload, rates)

	if first != second {
		t.Fatalf("calculation is not deterministic: %+v vs %+v", first, second)
	}
}

func TestCalculate_DepreciationResolverOrder(t *testing.T) {
	rates := model.RateSettings{
		Machines: []model.MachineProfile{
			{ID: "ender", Type: model.MachineTypeFDM, HourlyRate: 0.5},
			{ID: "prusa", Type: model.MachineTypeFDM, HourlyRate: 1.5},
			{ID: "mars", Type: model.MachineTypeResin, HourlyRate: 0.8},
		},
	}

	lineRate := 2.0
	cases := []struct {
		name string
		line model.MachineLineItem
		want float64
	}{
		{
			"explicit line rate wins",
			model.MachineLineItem{MachineID: "ender", Type: model.MachineTypeFDM, HourlyDepreciationRate: &lineRate},
			2.0,
		},
		{
			"named profile",
			model.MachineLineItem{MachineID: "prusa", Type: model.MachineTypeFDM},
			1.5,
		},
		{
			"type average for unknown machine",
			model.MachineLineItem{MachineID: "ghost", Type: model.MachineTypeFDM},
			1.0,
		},
		{
			"resin average ignores fdm profiles",
			model.MachineLineItem{MachineID: "ghost", Type: model.MachineTypeResin},
			0.8,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nearlyEqual(t, "rate", resolveDepreciationRate(tc.line, rates), tc.want)
		})
	}

	empty := model.RateSettings{}
	nearlyEqual(t, "no machines at all",
		resolveDepreciationRate(model.MachineLineItem{MachineID: "x", Type: model.MachineTypeFDM}, empty), 0)
}

func TestCalculate_LaborTierFallbacks(t *testing.T) {
	payload := singleLinePayload(0, 0)
	payload.Labor = &model.LaborMinutes{General: 60, Painting: 60, Modeling: 60}
	rates := model.RateSettings{LaborHourlyRate: 10}

	costs := Calculate(payload, rates)

	// Painting defaults to 1.5x general, modeling to 2.5x.
	nearlyEqual(t, "laborValue", costs.LaborValue, 10+15+25)

	rates.LaborHourlyRatePainting = 12
	rates.LaborHourlyRateModeling = 20
	costs = Calculate(payload, rates)
	nearlyEqual(t, "explicit tier rates", costs.LaborValue, 10+12+20)
}

func TestCalculate_AggregateLaborFallback(t *testing.T) {
	payload := singleLinePayload(0, 0)
	payload.Labor = nil
	payload.AggregateLaborMinutes = 90
	rates := model.RateSettings{LaborHourlyRate: 10}

	costs := Calculate(payload, rates)

	nearlyEqual(t, "laborValue", costs.LaborValue, 15)
}

func TestCalculate_UnitCosts(t *testing.T) {
	payload := singleLinePayload(120, 50)
	payload.Quantity = 4
	payload.Labor = &model.LaborMinutes{General: 120}
	rates := model.RateSettings{
		ElectricityPricePerKwh: 0.6,
		FilamentCostPerKg:      20,
		LaborHourlyRate:        10,
	}

	costs := Calculate(payload, rates)

	nearlyEqual(t, "unitDirectCost", costs.UnitDirectCost, costs.TotalDirect/4)
	nearlyEqual(t, "unitLaborValue", costs.UnitLaborValue, costs.LaborValue/4)
	nearlyEqual(t, "unitTotalCost", costs.UnitTotalCost, costs.UnitDirectCost+costs.UnitLaborValue)
	// Unit figures never alter the aggregates used for pricing.
	nearlyEqual(t, "totalDirect", costs.TotalDirect, 1.24)
}

func TestCalculate_ResinUsesResinRates(t *testing.T) {
	payload := singleLinePayload(60, 100)
	payload.MachineLines[0].Type = model.MachineTypeResin
	rates := model.RateSettings{
		ElectricityPricePerKwh: 1.0,
		FilamentCostPerKg:      20,
		ResinCostPerKg:         35,
	}

	costs := Calculate(payload, rates)

	nearlyEqual(t, "electricity", costs.Electricity, 0.1*1.0*1)
	nearlyEqual(t, "material", costs.Material, 0.1*35)
}
