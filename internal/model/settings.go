package model

// MachineProfile is one configured printer with its hourly depreciation rate.
type MachineProfile struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Type       MachineType `json:"type"`
	HourlyRate float64     `json:"hourly_rate"`
}

// RateSettings is the read-only rates snapshot one computation runs against.
// Quotes persist the snapshot in effect at save time so historical figures
// stay reproducible after rates change.
type RateSettings struct {
	ElectricityPricePerKwh float64 `json:"electricity_price_per_kwh"`
	FilamentCostPerKg      float64 `json:"filament_cost_per_kg"`
	ResinCostPerKg         float64 `json:"resin_cost_per_kg"`
	LaborHourlyRate        float64 `json:"labor_hourly_rate"`
	// Painting and modeling rates default to 1.5x and 2.5x the general rate
	// when left at zero.
	LaborHourlyRatePainting float64          `json:"labor_hourly_rate_painting"`
	LaborHourlyRateModeling float64          `json:"labor_hourly_rate_modeling"`
	StartupFee              float64          `json:"startup_fee"`
	WholesaleThreshold      int              `json:"wholesale_threshold"`
	WholesaleMarginPercent  float64          `json:"wholesale_margin_percent"`
	Machines                []MachineProfile `json:"machines"`
}

// PaintingRate resolves the painting labor rate with its default fallback.
func (s RateSettings) PaintingRate() float64 {
	if s.LaborHourlyRatePainting > 0 {
		return s.LaborHourlyRatePainting
	}
	return s.LaborHourlyRate * 1.5
}

// ModelingRate resolves the modeling labor rate with its default fallback.
func (s RateSettings) ModelingRate() float64 {
	if s.LaborHourlyRateModeling > 0 {
		return s.LaborHourlyRateModeling
	}
	return s.LaborHourlyRate * 2.5
}

// MachineByID returns the named machine profile, or nil when unknown.
func (s RateSettings) MachineByID(id string) *MachineProfile {
	for i := range s.Machines {
		if s.Machines[i].ID == id {
			return &s.Machines[i]
		}
	}
	return nil
}

// AverageRateForType is the average hourly depreciation rate across all
// configured machines of one type, 0 when none exist.
func (s RateSettings) AverageRateForType(t MachineType) float64 {
	sum := 0.0
	count := 0
	for _, m := range s.Machines {
		if m.Type == t {
			sum += m.HourlyRate
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
