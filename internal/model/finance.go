package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentPhase string

const (
	PaymentPhaseFull    PaymentPhase = "full"
	PaymentPhaseDeposit PaymentPhase = "deposit"
)

type RecordStatus string

const (
	RecordStatusPaid    RecordStatus = "paid"
	RecordStatusPending RecordStatus = "pending"
)

// ProductionLine is one machine line of the production snapshot attached to a
// finance record for downstream accounting.
type ProductionLine struct {
	MachineName     string      `json:"machine_name"`
	Type            MachineType `json:"type"`
	DurationMinutes float64     `json:"duration_minutes"`
	WeightGrams     float64     `json:"weight_grams"`
}

// ProductionSnapshot reconstructs what a sale actually consumed, frozen at
// conversion time.
type ProductionSnapshot struct {
	MachineTimeMinutes  float64          `json:"machine_time_minutes"`
	LaborTimeMinutes    float64          `json:"labor_time_minutes"`
	MaterialWeightGrams float64          `json:"material_weight_grams"`
	EnergyCost          float64          `json:"energy_cost"`
	DepreciationCost    float64          `json:"depreciation_cost"`
	MaterialCost        float64          `json:"material_cost"`
	LaborCost           float64          `json:"labor_cost"`
	Lines               []ProductionLine `json:"lines"`
}

// FinanceRecord is one income entry generated by a sale conversion. A deposit
// produces a paid record plus a pending record for the remaining balance; the
// pair shares a GroupID and the pending record carries the later timestamp.
type FinanceRecord struct {
	ID            uuid.UUID          `json:"id"`
	QuoteID       uuid.UUID          `json:"quote_id"`
	GroupID       uuid.UUID          `json:"group_id"`
	Title         string             `json:"title"`
	ClientName    string             `json:"client_name"`
	ClientContact string             `json:"client_contact"`
	Amount        float64            `json:"amount"`
	Currency      string             `json:"currency"`
	Status        RecordStatus       `json:"status"`
	PaymentMethod string             `json:"payment_method"`
	PaymentPhase  PaymentPhase       `json:"payment_phase"`
	Snapshot      ProductionSnapshot `json:"production_snapshot"`
	CreatedAt     time.Time          `json:"created_at"`
}
