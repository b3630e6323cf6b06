package model

type MachineType string

const (
	MachineTypeFDM   MachineType = "fdm"
	MachineTypeResin MachineType = "resin"
)

// PowerDrawKw returns the assumed power draw of a machine type. FDM printers
// run hotend plus heated bed, resin printers only a UV panel.
func (t MachineType) PowerDrawKw() float64 {
	if t == MachineTypeResin {
		return 0.1
	}
	return 0.2
}

// MachineLineItem is one machine/job segment of a quote. Unit values are what
// the operator entered; total values are unit values scaled by the production
// quantity. Immutable once the payload is built.
type MachineLineItem struct {
	MachineID            string      `json:"machine_id"`
	MachineName          string      `json:"machine_name"`
	Type                 MachineType `json:"type"`
	UnitDurationMinutes  float64     `json:"unit_duration_minutes"`
	UnitWeightGrams      float64     `json:"unit_weight_grams"`
	TotalDurationMinutes float64     `json:"total_duration_minutes"`
	TotalWeightGrams     float64     `json:"total_weight_grams"`
	// HourlyDepreciationRate overrides the settings-based resolution when set.
	HourlyDepreciationRate *float64 `json:"hourly_depreciation_rate,omitempty"`
}

// LaborMinutes is the structured labor breakdown. General and painting minutes
// are quantity-scaled; modeling is a fixed per-project effort and is not.
type LaborMinutes struct {
	General  float64 `json:"general"`
	Painting float64 `json:"painting"`
	Modeling float64 `json:"modeling"`
}

// ComputationPayload is the canonical, quantity-scaled input of one cost
// computation. Built fresh on every input change and never mutated in place.
type ComputationPayload struct {
	MachineLines        []MachineLineItem `json:"machine_lines"`
	TotalMachineMinutes float64           `json:"total_machine_minutes"`
	TotalWeightGrams    float64           `json:"total_weight_grams"`
	// Labor is the structured breakdown; when nil, AggregateLaborMinutes is
	// priced at the general rate instead.
	Labor                 *LaborMinutes `json:"labor,omitempty"`
	AggregateLaborMinutes float64       `json:"aggregate_labor_minutes"`
	ExtraCost             float64       `json:"extra_cost"`
	ConsumablesCost       float64       `json:"consumables_cost"`
	FailureRatePercent    float64       `json:"failure_rate_percent"`
	Quantity              int           `json:"quantity"`
	IsProductionMode      bool          `json:"is_production_mode"`
}

// HasWork reports whether the payload carries any machine consumption at all.
// An all-empty form produces no computation.
func (p ComputationPayload) HasWork() bool {
	return p.TotalMachineMinutes > 0 || p.TotalWeightGrams > 0
}

// Equal is the content-equality guard used to skip redundant recomputation.
// It compares values, not identity; no results are cached.
func (p ComputationPayload) Equal(other ComputationPayload) bool {
	if len(p.MachineLines) != len(other.MachineLines) {
		return false
	}
	for i := range p.MachineLines {
		if !p.MachineLines[i].equal(other.MachineLines[i]) {
			return false
		}
	}
	if (p.Labor == nil) != (other.Labor == nil) {
		return false
	}
	if p.Labor != nil && *p.Labor != *other.Labor {
		return false
	}
	return p.TotalMachineMinutes == other.TotalMachineMinutes &&
		p.TotalWeightGrams == other.TotalWeightGrams &&
		p.AggregateLaborMinutes == other.AggregateLaborMinutes &&
		p.ExtraCost == other.ExtraCost &&
		p.ConsumablesCost == other.ConsumablesCost &&
		p.FailureRatePercent == other.FailureRatePercent &&
		p.Quantity == other.Quantity &&
		p.IsProductionMode == other.IsProductionMode
}

func (m MachineLineItem) equal(other MachineLineItem) bool {
	if (m.HourlyDepreciationRate == nil) != (other.HourlyDepreciationRate == nil) {
		return false
	}
	if m.HourlyDepreciationRate != nil && *m.HourlyDepreciationRate != *other.HourlyDepreciationRate {
		return false
	}
	return m.MachineID == other.MachineID &&
		m.MachineName == other.MachineName &&
		m.Type == other.Type &&
		m.UnitDurationMinutes == other.UnitDurationMinutes &&
		m.UnitWeightGrams == other.UnitWeightGrams &&
		m.TotalDurationMinutes == other.TotalDurationMinutes &&
		m.TotalWeightGrams == other.TotalWeightGrams
}

// CostBreakdown is the derived direct-cost view of a payload. Recomputed
// whenever the payload or rate settings change, never edited.
type CostBreakdown struct {
	Electricity  float64 `json:"electricity"`
	Depreciation float64 `json:"depreciation"`
	Material     float64 `json:"material"`
	Extra        float64 `json:"extra"`
	Consumables  float64 `json:"consumables"`
	StartupFee   float64 `json:"startup_fee"`
	TotalDirect  float64 `json:"total_direct"`
	LaborValue   float64 `json:"labor_value"`
	RiskFactor   float64 `json:"risk_factor"`
	// TotalMachineMinutes is risk-adjusted, for display.
	TotalMachineMinutes float64 `json:"total_machine_minutes"`
	UnitDirectCost      float64 `json:"unit_direct_cost"`
	UnitLaborValue      float64 `json:"unit_labor_value"`
	UnitTotalCost       float64 `json:"unit_total_cost"`
}

type TaxMode string

const (
	TaxModePlusTax     TaxMode = "plus_tax"
	TaxModeTaxIncluded TaxMode = "tax_included"
)

// PricingResult is the simulated sale price derived from a cost breakdown
// plus a margin or a manual price.
type PricingResult struct {
	NetPrice             float64 `json:"net_price"`
	TotalBilled          float64 `json:"total_billed"`
	TaxAmount            float64 `json:"tax_amount"`
	DesiredMarginPercent float64 `json:"desired_margin_percent"`
	// MarginPercent is the margin actually achieved at the final price.
	MarginPercent  float64 `json:"margin_percent"`
	GrossProfit    float64 `json:"gross_profit"`
	BusinessProfit float64 `json:"business_profit"`
	ManualPrice    bool    `json:"manual_price"`
	TaxMode        TaxMode `json:"tax_mode"`
}
