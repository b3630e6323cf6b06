package calc

import (
	"testing"

	"github.com/ddreams3d/quoter-service/internal/model"
)

func floatPtr(v float64) *float64 { return &v }

func TestSimulate_ExampleScenario_PlusTax(t *testing.T) {
	// totalDirect = 1.24, no labor, 40% margin, plus-tax display.
	costs := Calculate(singleLinePayload(120, 50), model.RateSettings{
		ElectricityPricePerKwh: 0.6,
		FilamentCostPerKg:      20,
	})

	result := Simulate(costs, singleLinePayload(120, 50), model.RateSettings{}, PricingInput{
		DesiredMarginPercent: floatPtr(40),
		TaxMode:              model.TaxModePlusTax,
	})

	// 1.24 / 0.6 ≈ 2.0667 → ceil = 3.
	nearlyEqual(t, "netPrice", result.NetPrice, 3)
	nearlyEqual(t, "totalBilled", result.TotalBilled, 3.54)
	nearlyEqual(t, "taxAmount", result.TaxAmount, 0.54)
}

func TestSimulate_TaxIncludedRounding(t *testing.T) {
	costs := model.CostBreakdown{TotalDirect: 10}
	payload := model.ComputationPayload{Quantity: 1}

	result := Simulate(costs, payload, model.RateSettings{}, PricingInput{
		DesiredMarginPercent: floatPtr(50),
		TaxMode:              model.TaxModeTaxIncluded,
	})

	// suggested net = 20, billed = ceil(23.6) = 24, net back-derived.
	nearlyEqual(t, "totalBilled", result.TotalBilled, 24)
	nearlyEqual(t, "netPrice", result.NetPrice, 24/1.18)
	nearlyEqual(t, "invariant", result.TotalBilled, result.NetPrice+result.TaxAmount)
}

func TestSimulate_TaxInvariantBothModes(t *testing.T) {
	costs := model.CostBreakdown{TotalDirect: 37.5, LaborValue: 12.5}
	payload := model.ComputationPayload{Quantity: 1}

	for _, mode := range []model.TaxMode{model.TaxModePlusTax, model.TaxModeTaxIncluded} {
		result := Simulate(costs, payload, model.RateSettings{}, PricingInput{
			DesiredMarginPercent: floatPtr(35),
			TaxMode:              mode,
		})
		nearlyEqual(t, string(mode)+" billed = net + tax", result.TotalBilled, result.NetPrice+result.TaxAmount)
		nearlyEqual(t, string(mode)+" tax = net * 0.18", result.TaxAmount, result.NetPrice*IGVRate)
	}
}

func TestSimulate_MarginIsShareOfPrice(t *testing.T) {
	// 50% margin means cost is half the net price, not price = 1.5x cost.
	costs := model.CostBreakdown{TotalDirect: 50}
	payload := model.ComputationPayload{Quantity: 1}

	result := Simulate(costs, payload, model.RateSettings{}, PricingInput{
		DesiredMarginPercent: floatPtr(50),
		TaxMode:              model.TaxModePlusTax,
	})

	nearlyEqual(t, "netPrice", result.NetPrice, 100)
}

func TestSimulate_MarginAtHundredFallsBack(t *testing.T) {
	costs := model.CostBreakdown{TotalDirect: 50}
	payload := model.ComputationPayload{Quantity: 1}

	result := Simulate(costs, payload, model.RateSettings{}, PricingInput{
		DesiredMarginPercent: floatPtr(100),
		TaxMode:              model.TaxModePlusTax,
	})

	nearlyEqual(t, "netPrice", result.NetPrice, 100)
}

func TestSimulate_ManualOverrideNoRounding(t *testing.T) {
	costs := model.CostBreakdown{TotalDirect: 10, LaborValue: 5}
	payload := model.ComputationPayload{Quantity: 1}

	plusTax := Simulate(costs, payload, model.RateSettings{}, PricingInput{
		ManualPrice: floatPtr(33.33),
		TaxMode:     model.TaxModePlusTax,
	})
	nearlyEqual(t, "net anchored", plusTax.NetPrice, 33.33)
	nearlyEqual(t, "billed", plusTax.TotalBilled, 33.33*1.18)
	if !plusTax.ManualPrice {
		t.Fatal("result should be flagged manual")
	}

	taxIncluded := Simulate(costs, payload, model.RateSettings{}, PricingInput{
		ManualPrice: floatPtr(100),
		TaxMode:     model.TaxModeTaxIncluded,
	})
	nearlyEqual(t, "billed anchored", taxIncluded.TotalBilled, 100)
	nearlyEqual(t, "net back-derived", taxIncluded.NetPrice, 100/1.18)
}

func TestSimulate_ProfitSplit(t *testing.T) {
	costs := model.CostBreakdown{TotalDirect: 10, LaborValue: 5}
	payload := model.ComputationPayload{Quantity: 1}

	result := Simulate(costs, payload, model.RateSettings{}, PricingInput{
		ManualPrice: floatPtr(20),
		TaxMode:     model.TaxModePlusTax,
	})

	nearlyEqual(t, "grossProfit", result.GrossProfit, 10)
	nearlyEqual(t, "businessProfit", result.BusinessProfit, 5)
	nearlyEqual(t, "marginPercent", result.MarginPercent, 25)
}

func TestSimulate_ZeroNetGuard(t *testing.T) {
	result := Simulate(model.CostBreakdown{}, model.ComputationPayload{Quantity: 1}, model.RateSettings{}, PricingInput{
		ManualPrice: floatPtr(0),
		TaxMode:     model.TaxModePlusTax,
	})

	nearlyEqual(t, "marginPercent", result.MarginPercent, 0)
}

func TestDefaultMarginPercent_WholesaleSwitch(t *testing.T) {
	rates := model.RateSettings{WholesaleThreshold: 10, WholesaleMarginPercent: 25}

	atThreshold := model.ComputationPayload{Quantity: 10, IsProductionMode: true}
	nearlyEqual(t, "at threshold", DefaultMarginPercent(atThreshold, rates, StandardMarginPercent), 25)

	below := model.ComputationPayload{Quantity: 9, IsProductionMode: true}
	nearlyEqual(t, "below threshold", DefaultMarginPercent(below, rates, StandardMarginPercent), 40)

	notProduction := model.ComputationPayload{Quantity: 10}
	nearlyEqual(t, "production mode off", DefaultMarginPercent(notProduction, rates, StandardMarginPercent), 40)
}

func TestSimulate_WholesaleDoesNotOverrideManualPrice(t *testing.T) {
	rates := model.RateSettings{WholesaleThreshold: 10, WholesaleMarginPercent: 25}
	payload := model.ComputationPayload{Quantity: 12, IsProductionMode: true}
	costs := model.CostBreakdown{TotalDirect: 100}

	result := Simulate(costs, payload, rates, PricingInput{
		ManualPrice: floatPtr(180),
		TaxMode:     model.TaxModePlusTax,
	})

	nearlyEqual(t, "netPrice", result.NetPrice, 180)
	if !result.ManualPrice {
		t.Fatal("manual entry must win over the wholesale default")
	}
}
