package calc

import (
	"math"
	"testing"

	"github.com/ddreams3d/quoter-service/internal/model"
)

func testRates() model.RateSettings {
	return model.RateSettings{
		ElectricityPricePerKwh: 0.6,
		FilamentCostPerKg:      20,
		ResinCostPerKg:         35,
		LaborHourlyRate:        10,
		StartupFee:             0,
		Machines: []model.MachineProfile{
			{ID: "ender", Name: "Ender 3", Type: model.MachineTypeFDM, HourlyRate: 0.5},
			{ID: "mars", Name: "Elegoo Mars", Type: model.MachineTypeResin, HourlyRate: 0.8},
		},
	}
}

func TestAggregate_TimeNormalization(t *testing.T) {
	form := QuoteForm{
		MachineLines: []MachineLineForm{
			{MachineID: "ender", Time: TimeFields{Days: 1, Hours: 2, Minutes: 30}, WeightGrams: 100},
		},
	}

	payload := Aggregate(form, testRates())

	want := 1.0*24*60 + 2*60 + 30
	if payload.MachineLines[0].UnitDurationMinutes != want {
		t.Fatalf("unit duration = %v, want %v", payload.MachineLines[0].UnitDurationMinutes, want)
	}
	if payload.TotalMachineMinutes != want {
		t.Fatalf("total minutes = %v, want %v", payload.TotalMachineMinutes, want)
	}
}

func TestAggregate_MachineResolution(t *testing.T) {
	form := QuoteForm{
		MachineLines: []MachineLineForm{
			{MachineID: "mars", Time: TimeFields{Hours: 1}, WeightGrams: 50},
			{MachineID: "unknown", Time: TimeFields{Hours: 1}, WeightGrams: 50},
		},
	}

	payload := Aggregate(form, testRates())

	if payload.MachineLines[0].Type != model.MachineTypeResin {
		t.Fatalf("line 0 type = %s, want resin", payload.MachineLines[0].Type)
	}
	if payload.MachineLines[0].MachineName != "Elegoo Mars" {
		t.Fatalf("line 0 name = %s", payload.MachineLines[0].MachineName)
	}
	if payload.MachineLines[1].Type != model.MachineTypeFDM {
		t.Fatalf("unknown machine should default to fdm, got %s", payload.MachineLines[1].Type)
	}
}

func TestAggregate_ProductionScaling(t *testing.T) {
	form := QuoteForm{
		MachineLines: []MachineLineForm{
			{MachineID: "ender", Time: TimeFields{Minutes: 120}, WeightGrams: 50},
		},
		Labor: LaborForm{
			General:  TimeFields{Minutes: 30},
			Painting: TimeFields{Minutes: 20},
			Modeling: TimeFields{Minutes: 60},
		},
		ExtraCost:       2,
		ConsumablesCost: 1,
		Quantity:        5,
		ProductionMode:  true,
	}

	payload := Aggregate(form, testRates())

	if payload.Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", payload.Quantity)
	}
	line := payload.MachineLines[0]
	if line.TotalDurationMinutes != 600 || line.TotalWeightGrams != 250 {
		t.Fatalf("line totals = %v min / %v g, want 600 / 250", line.TotalDurationMinutes, line.TotalWeightGrams)
	}
	if payload.Labor.General != 150 || payload.Labor.Painting != 100 {
		t.Fatalf("scaled labor = %v / %v, want 150 / 100", payload.Labor.General, payload.Labor.Painting)
	}
	// Modeling is a fixed per-project effort regardless of batch size.
	if payload.Labor.Modeling != 60 {
		t.Fatalf("modeling minutes = %v, want 60", payload.Labor.Modeling)
	}
	if payload.ExtraCost != 10 || payload.ConsumablesCost != 5 {
		t.Fatalf("extras = %v / %v, want 10 / 5", payload.ExtraCost, payload.ConsumablesCost)
	}
}

func TestAggregate_QuantityClamping(t *testing.T) {
	cases := []struct {
		name       string
		entered    float64
		production bool
		want       int
	}{
		{"off ignores quantity", 7, false, 1},
		{"fractional floors", 3.9, true, 3},
		{"zero clamps to one", 0, true, 1},
		{"negative clamps to one", -4, true, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := QuoteForm{
				MachineLines:   []MachineLineForm{{Time: TimeFields{Minutes: 10}}},
				Quantity:       tc.entered,
				ProductionMode: tc.production,
			}
			payload := Aggregate(form, testRates())
			if payload.Quantity != tc.want {
				t.Fatalf("quantity = %d, want %d", payload.Quantity, tc.want)
			}
		})
	}
}

func TestAggregate_SanitizesInvalidNumbers(t *testing.T) {
	form := QuoteForm{
		MachineLines: []MachineLineForm{
			{Time: TimeFields{Hours: -3, Minutes: 30}, WeightGrams: math.NaN()},
		},
		ExtraCost:          -5,
		FailureRatePercent: math.Inf(1),
	}

	payload := Aggregate(form, testRates())

	if payload.MachineLines[0].UnitDurationMinutes != 30 {
		t.Fatalf("negative hours should coerce to 0, duration = %v", payload.MachineLines[0].UnitDurationMinutes)
	}
	if payload.MachineLines[0].UnitWeightGrams != 0 {
		t.Fatalf("NaN weight should coerce to 0, got %v", payload.MachineLines[0].UnitWeightGrams)
	}
	if payload.ExtraCost != 0 {
		t.Fatalf("negative extra cost should coerce to 0, got %v", payload.ExtraCost)
	}
	if payload.FailureRatePercent != 0 {
		t.Fatalf("infinite failure rate should coerce to 0, got %v", payload.FailureRatePercent)
	}
}

func TestTracker_GateAndEqualityGuard(t *testing.T) {
	tracker := &Tracker{}
	rates := testRates()

	empty := Aggregate(QuoteForm{}, rates)
	if tracker.ShouldForward(empty) {
		t.Fatal("empty form must not be forwarded")
	}

	form := QuoteForm{
		MachineLines: []MachineLineForm{{MachineID: "ender", Time: TimeFields{Minutes: 90}, WeightGrams: 40}},
	}
	first := Aggregate(form, rates)
	if !tracker.ShouldForward(first) {
		t.Fatal("first payload with work must be forwarded")
	}

	same := Aggregate(form, rates)
	if tracker.ShouldForward(same) {
		t.Fatal("identical payload must be skipped")
	}

	form.MachineLines[0].WeightGrams = 41
	changed := Aggregate(form, rates)
	if !tracker.ShouldForward(changed) {
		t.Fatal("changed payload must be forwarded")
	}
}
