package calc

import (
	"github.com/ddreams3d/quoter-service/internal/model"
)

// resolveDepreciationRate picks the hourly depreciation rate for a machine
// line. The chain is strictly ordered: explicit per-line rate, then the named
// machine profile, then the average of all profiles of the same type, then 0.
// Missing rate data degrades to a visible zero instead of failing the
// computation.
func resolveDepreciationRate(line model.MachineLineItem, rates model.RateSettings) float64 {
	if line.HourlyDepreciationRate != nil && *line.HourlyDepreciationRate > 0 {
		return *line.HourlyDepreciationRate
	}
	if profile := rates.MachineByID(line.MachineID); profile != nil {
		return profile.HourlyRate
	}
	return rates.AverageRateForType(line.Type)
}

func materialCostPerKg(t model.MachineType, rates model.RateSettings) float64 {
	if t == model.MachineTypeResin {
		return rates.ResinCostPerKg
	}
	return rates.FilamentCostPerKg
}

// Calculate derives the direct-cost breakdown of a payload against a rates
// snapshot. Pure: same inputs, bit-identical output.
//
// The risk factor inflates every consumption quantity (machine minutes,
// material grams, labor minutes) before it is priced; rates themselves are
// never touched.
func Calculate(payload model.ComputationPayload, rates model.RateSettings) model.CostBreakdown {
	riskFactor := 1 + payload.FailureRatePercent/100

	electricity := 0.0
	depreciation := 0.0
	material := 0.0
	riskAdjustedMinutes := 0.0

	for _, line := range payload.MachineLines {
		duration := line.TotalDurationMinutes * riskFactor
		hours := duration / 60
		riskAdjustedMinutes += duration

		electricity += line.Type.PowerDrawKw() * rates.ElectricityPricePerKwh * hours
		depreciation += resolveDepreciationRate(line, rates) * hours

		weight := line.TotalWeightGrams * riskFactor
		material += (weight / 1000) * materialCostPerKg(line.Type, rates)
	}

	laborValue := 0.0
	if payload.Labor != nil {
		generalHours := payload.Labor.General * riskFactor / 60
		paintingHours := payload.Labor.Painting * riskFactor / 60
		modelingHours := payload.Labor.Modeling * riskFactor / 60

		laborValue += generalHours * rates.LaborHourlyRate
		laborValue += paintingHours * rates.PaintingRate()
		laborValue += modelingHours * rates.ModelingRate()
	} else {
		laborHours := payload.AggregateLaborMinutes * riskFactor / 60
		laborValue = laborHours * rates.LaborHourlyRate
	}

	totalDirect := electricity + depreciation + material +
		payload.ExtraCost + payload.ConsumablesCost + rates.StartupFee

	quantity := payload.Quantity
	if quantity < 1 {
		quantity = 1
	}
	unitDirect := totalDirect / float64(quantity)
	unitLabor := laborValue / float64(quantity)

	return model.CostBreakdown{
		Electricity:         electricity,
		Depreciation:        depreciation,
		Material:            material,
		Extra:               payload.ExtraCost,
		Consumables:         payload.ConsumablesCost,
		StartupFee:          rates.StartupFee,
		TotalDirect:         totalDirect,
		LaborValue:          laborValue,
		RiskFactor:          riskFactor,
		TotalMachineMinutes: riskAdjustedMinutes,
		UnitDirectCost:      unitDirect,
		UnitLaborValue:      unitLabor,
		UnitTotalCost:       unitDirect + unitLabor,
	}
}
