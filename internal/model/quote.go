package model

import (
	"time"

	"github.com/google/uuid"
)

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
)

// ValidTransition reports whether a quote may move from its current status to
// the target one. Accepted is the only terminal status with a reverse edge:
// an accepted sale can be cancelled back to draft.
func ValidTransition(from, to QuoteStatus) bool {
	switch from {
	case QuoteStatusDraft:
		return to == QuoteStatusSent
	case QuoteStatusSent:
		return to == QuoteStatusAccepted || to == QuoteStatusRejected
	case QuoteStatusAccepted:
		return to == QuoteStatusDraft
	default:
		return false
	}
}

// QuoteData is the frozen computation snapshot stored with a quote.
type QuoteData struct {
	Payload ComputationPayload `json:"payload"`
	Costs   CostBreakdown      `json:"costs"`
	Pricing PricingResult      `json:"pricing"`
}

type Quote struct {
	ID          uuid.UUID   `json:"id"`
	ClientName  string      `json:"client_name"`
	ClientPhone string      `json:"client_phone"`
	ClientEmail string      `json:"client_email"`
	ProjectName string      `json:"project_name"`
	Status      QuoteStatus `json:"status"`
	NetPrice    float64     `json:"net_price"`
	TotalBilled float64     `json:"total_billed"`
	TaxAmount   float64     `json:"tax_amount"`
	Currency    string      `json:"currency"`
	Data        QuoteData   `json:"data"`
	// Settings is the rate snapshot in effect when the quote was saved.
	Settings  RateSettings `json:"settings"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
