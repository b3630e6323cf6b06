package calc

import (
	"math"

	"github.com/ddreams3d/quoter-service/internal/model"
)

// TimeFields are the raw day/hour/minute fields the operator types.
type TimeFields struct {
	Days    float64 `json:"days"`
	Hours   float64 `json:"hours"`
	Minutes float64 `json:"minutes"`
}

// MachineLineForm is one machine line of the quote form.
type MachineLineForm struct {
	MachineID   string     `json:"machine_id"`
	Time        TimeFields `json:"time"`
	WeightGrams float64    `json:"weight_grams"`
	// HourlyDepreciationRate pins the depreciation rate for this line; when
	// nil the cost calculator resolves it from the settings.
	HourlyDepreciationRate *float64 `json:"hourly_depreciation_rate,omitempty"`
}

// LaborForm holds per-category labor time. Modeling is a fixed per-project
// effort and never scales with the production quantity.
type LaborForm struct {
	General  TimeFields `json:"general"`
	Painting TimeFields `json:"painting"`
	Modeling TimeFields `json:"modeling"`
}

// QuoteForm is the structured form payload supplied by the caller. Extra and
// consumables costs are entered per unit.
type QuoteForm struct {
	MachineLines       []MachineLineForm `json:"machine_lines"`
	Labor              LaborForm         `json:"labor"`
	ExtraCost          float64           `json:"extra_cost"`
	ConsumablesCost    float64           `json:"consumables_cost"`
	FailureRatePercent float64           `json:"failure_rate_percent"`
	Quantity           float64           `json:"quantity"`
	ProductionMode     bool              `json:"production_mode"`
}

// sanitizeNumber is the single normalization point for operator-typed numbers:
// negative, NaN and infinite values become 0 so a half-typed form keeps
// estimating instead of failing.
func sanitizeNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// TotalMinutes normalizes day/hour/minute fields into minutes.
func (t TimeFields) TotalMinutes() float64 {
	return sanitizeNumber(t.Days)*24*60 + sanitizeNumber(t.Hours)*60 + sanitizeNumber(t.Minutes)
}

// normalizeQuantity clamps the production quantity to a whole number of at
// least one unit. Outside production mode the quantity is always 1.
func normalizeQuantity(entered float64, productionMode bool) int {
	if !productionMode {
		return 1
	}
	q := int(math.Floor(sanitizeNumber(entered)))
	if q < 1 {
		return 1
	}
	return q
}

// Aggregate converts a quote form into the canonical computation payload.
// Machine types, names and optional line rates resolve against the settings'
// machine profiles; unknown machines fall back to a generic FDM line.
func Aggregate(form QuoteForm, rates model.RateSettings) model.ComputationPayload {
	quantity := normalizeQuantity(form.Quantity, form.ProductionMode)
	qty := float64(quantity)

	lines := make([]model.MachineLineItem, 0, len(form.MachineLines))
	totalMinutes := 0.0
	totalWeight := 0.0
	for _, lf := range form.MachineLines {
		unitDuration := lf.Time.TotalMinutes()
		unitWeight := sanitizeNumber(lf.WeightGrams)

		line := model.MachineLineItem{
			MachineID:            lf.MachineID,
			MachineName:          "Máquina Genérica",
			Type:                 model.MachineTypeFDM,
			UnitDurationMinutes:  unitDuration,
			UnitWeightGrams:      unitWeight,
			TotalDurationMinutes: unitDuration * qty,
			TotalWeightGrams:     unitWeight * qty,
		}
		if lf.HourlyDepreciationRate != nil {
			rate := sanitizeNumber(*lf.HourlyDepreciationRate)
			line.HourlyDepreciationRate = &rate
		}
		if profile := rates.MachineByID(lf.MachineID); profile != nil {
			line.MachineName = profile.Name
			line.Type = profile.Type
		}

		totalMinutes += line.TotalDurationMinutes
		totalWeight += line.TotalWeightGrams
		lines = append(lines, line)
	}

	labor := model.LaborMinutes{
		General:  form.Labor.General.TotalMinutes() * qty,
		Painting: form.Labor.Painting.TotalMinutes() * qty,
		Modeling: form.Labor.Modeling.TotalMinutes(),
	}

	return model.ComputationPayload{
		MachineLines:          lines,
		TotalMachineMinutes:   totalMinutes,
		TotalWeightGrams:      totalWeight,
		Labor:                 &labor,
		AggregateLaborMinutes: labor.General + labor.Painting + labor.Modeling,
		ExtraCost:             sanitizeNumber(form.ExtraCost) * qty,
		ConsumablesCost:       sanitizeNumber(form.ConsumablesCost) * qty,
		FailureRatePercent:    sanitizeNumber(form.FailureRatePercent),
		Quantity:              quantity,
		IsProductionMode:      form.ProductionMode,
	}
}

// Tracker implements the forward-on-change guard: a payload is forwarded only
// when it has work to price and differs from the last forwarded payload.
type Tracker struct {
	last    model.ComputationPayload
	hasLast bool
}

// ShouldForward reports whether the payload warrants a downstream
// recomputation and records it as the latest forwarded one when it does.
func (t *Tracker) ShouldForward(payload model.ComputationPayload) bool {
	if !payload.HasWork() {
		return false
	}
	if t.hasLast && t.last.Equal(payload) {
		return false
	}
	t.last = payload
	t.hasLast = true
	return true
}
