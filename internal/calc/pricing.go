package calc

import (
	"math"

	"github.com/ddreams3d/quoter-service/internal/model"
)

// IGVRate is the Peruvian value-added tax applied to net prices.
const IGVRate = 0.18

// StandardMarginPercent is the default margin suggested below the wholesale
// threshold.
const StandardMarginPercent = 40.0

// PricingInput carries the operator's pricing controls. A manual price wins
// over any margin; a nil margin falls back to the volume-based default.
type PricingInput struct {
	DesiredMarginPercent *float64      `json:"desired_margin_percent,omitempty"`
	ManualPrice          *float64      `json:"manual_price,omitempty"`
	TaxMode              model.TaxMode `json:"tax_mode"`
}

// DefaultMarginPercent picks the margin the simulator starts from: the
// wholesale margin once a production batch reaches the wholesale threshold,
// the standard default otherwise.
func DefaultMarginPercent(payload model.ComputationPayload, rates model.RateSettings, standard float64) float64 {
	if payload.IsProductionMode &&
		rates.WholesaleThreshold > 0 &&
		payload.Quantity >= rates.WholesaleThreshold &&
		rates.WholesaleMarginPercent > 0 {
		return rates.WholesaleMarginPercent
	}
	return standard
}

// suggestedNetPrice applies the margin-of-selling-price formula: a 50% margin
// means cost is half of the net price, not that the price is 1.5x the cost.
func suggestedNetPrice(totalBaseCost, marginPercent float64) float64 {
	if marginPercent >= 100 {
		return totalBaseCost * 2
	}
	return totalBaseCost / (1 - marginPercent/100)
}

// Simulate turns a cost breakdown into a sellable price.
//
// Auto prices are rounded up to whole currency units on the figure the tax
// mode anchors (billed total when tax-included, net when plus-tax) so the
// customer sees a round number; manual prices are taken verbatim. In every
// mode totalBilled = netPrice + taxAmount holds exactly.
func Simulate(costs model.CostBreakdown, payload model.ComputationPayload, rates model.RateSettings, input PricingInput) model.PricingResult {
	taxMode := input.TaxMode
	if taxMode == "" {
		taxMode = model.TaxModePlusTax
	}

	totalBaseCost := costs.TotalDirect + costs.LaborValue

	margin := DefaultMarginPercent(payload, rates, StandardMarginPercent)
	if input.DesiredMarginPercent != nil {
		margin = sanitizeNumber(*input.DesiredMarginPercent)
	}

	var netPrice, totalBilled float64
	manual := input.ManualPrice != nil
	if manual {
		entered := sanitizeNumber(*input.ManualPrice)
		if taxMode == model.TaxModeTaxIncluded {
			totalBilled = entered
			netPrice = totalBilled / (1 + IGVRate)
		} else {
			netPrice = entered
			totalBilled = netPrice * (1 + IGVRate)
		}
	} else {
		suggested := suggestedNetPrice(totalBaseCost, margin)
		if taxMode == model.TaxModeTaxIncluded {
			totalBilled = math.Ceil(suggested * (1 + IGVRate))
			netPrice = totalBilled / (1 + IGVRate)
		} else {
			netPrice = math.Ceil(suggested)
			totalBilled = netPrice * (1 + IGVRate)
		}
	}

	taxAmount := totalBilled - netPrice

	grossProfit := netPrice - costs.TotalDirect
	businessProfit := grossProfit - costs.LaborValue
	actualMargin := 0.0
	if netPrice > 0 {
		actualMargin = businessProfit / netPrice * 100
	}

	return model.PricingResult{
		NetPrice:             netPrice,
		TotalBilled:          totalBilled,
		TaxAmount:            taxAmount,
		DesiredMarginPercent: margin,
		MarginPercent:        actualMargin,
		GrossProfit:          grossProfit,
		BusinessProfit:       businessProfit,
		ManualPrice:          manual,
		TaxMode:              taxMode,
	}
}
