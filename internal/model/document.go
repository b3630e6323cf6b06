package model

// QuoteDocument is the input to the PDF renderer. The flags mirror what a
// customer-facing quote may hide: machine/labor internals and the tax split.
type QuoteDocument struct {
	Quote                Quote
	ShowTechnicalDetails bool
	ShowTaxBreakdown     bool
}
