package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ddreams3d/quoter-service/internal/calc"
	"github.com/ddreams3d/quoter-service/internal/config"
	"github.com/ddreams3d/quoter-service/internal/model"
)

type QuoteStore interface {
	Save(ctx context.Context, quote model.Quote) (*model.Quote, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quote, error)
	ListRecent(ctx context.Context, limit int) ([]model.Quote, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.QuoteStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type FinanceStore interface {
	Create(ctx context.Context, record model.FinanceRecord) (*model.FinanceRecord, error)
	ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]model.FinanceRecord, error)
}

type SettingsStore interface {
	Get(ctx context.Context) (*model.RateSettings, error)
}

type PDFGenerator interface {
	Generate(doc model.QuoteDocument) ([]byte, error)
}

type ExcelGenerator interface {
	Generate(quotes []model.Quote) ([]byte, error)
}

type QuoteService struct {
	quotes          QuoteStore
	finance         FinanceStore
	settings        SettingsStore
	pdf             PDFGenerator
	excel           ExcelGenerator
	defaultMargin   float64
	depositFraction float64
}

func NewQuoteService(
	quotes QuoteStore,
	finance FinanceStore,
	settings SettingsStore,
	pdf PDFGenerator,
	excel ExcelGenerator,
	cfg *config.Config,
) *QuoteService {
	return &QuoteService{
		quotes:          quotes,
		finance:         finance,
		settings:        settings,
		pdf:             pdf,
		excel:           excel,
		defaultMargin:   cfg.Quoter.DefaultMarginPercent,
		depositFraction: cfg.Quoter.DepositFraction,
	}
}

// ComputeResult bundles one full evaluation of the engine.
type ComputeResult struct {
	Payload model.ComputationPayload
	Costs   model.CostBreakdown
	Pricing model.PricingResult
}

// Compute runs the engine once over a form: aggregate, cost, price. Settings
// loaded from the store may be overridden per call (historical snapshots).
func (s *QuoteService) Compute(ctx context.Context, form calc.QuoteForm, pricing calc.PricingInput) (*ComputeResult, error) {
	rates, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.compute(form, pricing, *rates)
}

func (s *QuoteService) compute(form calc.QuoteForm, pricing calc.PricingInput, rates model.RateSettings) (*ComputeResult, error) {
	payload := calc.Aggregate(form, rates)
	if !payload.HasWork() {
		return nil, ErrEmptyQuote
	}

	costs := calc.Calculate(payload, rates)

	if pricing.DesiredMarginPercent == nil && pricing.ManualPrice == nil {
		margin := calc.DefaultMarginPercent(payload, rates, s.defaultMargin)
		pricing.DesiredMarginPercent = &margin
	}
	result := calc.Simulate(costs, payload, rates, pricing)

	return &ComputeResult{
		Payload: payload,
		Costs:   costs,
		Pricing: result,
	}, nil
}

type SaveQuoteInput struct {
	ClientName  string
	ClientPhone string
	ClientEmail string
	ProjectName string
	Form        calc.QuoteForm
	Pricing     calc.PricingInput
}

// Save evaluates the form and persists a draft quote with a full snapshot of
// the payload, breakdown, pricing result and the rate settings in effect, so
// the quote stays reproducible after rates change.
func (s *QuoteService) Save(ctx context.Context, input SaveQuoteInput) (*model.Quote, error) {
	rates, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.compute(input.Form, input.Pricing, *rates)
	if err != nil {
		return nil, err
	}

	quote := model.Quote{
		ClientName:  input.ClientName,
		ClientPhone: input.ClientPhone,
		ClientEmail: input.ClientEmail,
		ProjectName: input.ProjectName,
		Status:      model.QuoteStatusDraft,
		NetPrice:    result.Pricing.NetPrice,
		TotalBilled: result.Pricing.TotalBilled,
		TaxAmount:   result.Pricing.TaxAmount,
		Currency:    "PEN",
		Data: model.QuoteData{
			Payload: result.Payload,
			Costs:   result.Costs,
			Pricing: result.Pricing,
		},
		Settings: *rates,
	}
	return s.quotes.Save(ctx, quote)
}

func (s *QuoteService) ListRecent(ctx context.Context, limit int) ([]model.Quote, error) {
	return s.quotes.ListRecent(ctx, limit)
}

func (s *QuoteService) Get(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	quote, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return quote, nil
}

// UpdateStatus applies one edge of the quote state machine. The snapshot is
// never touched by a status change.
func (s *QuoteService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.QuoteStatus) error {
	switch status {
	case model.QuoteStatusDraft, model.QuoteStatusSent, model.QuoteStatusAccepted, model.QuoteStatusRejected:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	quote, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !model.ValidTransition(quote.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, quote.Status, status)
	}
	return s.quotes.UpdateStatus(ctx, id, status)
}

func (s *QuoteService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.quotes.Delete(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return ErrNotFound
	}
	return err
}

type SaleDetails struct {
	ClientName    string
	PaymentMethod string
	PaymentPhase  model.PaymentPhase
	Amount        float64
}

// ConvertToSale records the income of an accepted quote. A full payment
// creates one paid record; a deposit creates a paid record plus a pending
// record for the remaining balance, linked by a shared group id with the
// pending record timestamped strictly later so listings order stably. The
// quote is marked accepted only after every record persisted — a failed write
// must not leave an accepted quote without its money trail.
func (s *QuoteService) ConvertToSale(ctx context.Context, id uuid.UUID, details SaleDetails) error {
	quote, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	switch details.PaymentPhase {
	case model.PaymentPhaseFull, model.PaymentPhaseDeposit:
	default:
		return fmt.Errorf("%w: unknown payment phase %q", ErrInvalidInput, details.PaymentPhase)
	}

	amount := details.Amount
	if amount <= 0 {
		amount = quote.TotalBilled
		if details.PaymentPhase == model.PaymentPhaseDeposit {
			amount = quote.TotalBilled * s.depositFraction
		}
	}

	clientName := details.ClientName
	if clientName == "" {
		clientName = quote.ClientName
	}
	paymentMethod := details.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "transfer"
	}

	title := fmt.Sprintf("Venta Cotización: %s", quote.ProjectName)
	if details.PaymentPhase == model.PaymentPhaseDeposit {
		title = fmt.Sprintf("Adelanto Cotización: %s", quote.ProjectName)
	}

	groupID := uuid.New()
	paidAt := time.Now().UTC()
	snapshot := buildProductionSnapshot(quote.Data)

	paid := model.FinanceRecord{
		QuoteID:       quote.ID,
		GroupID:       groupID,
		Title:         title,
		ClientName:    clientName,
		ClientContact: clientContact(quote),
		Amount:        amount,
		Currency:      quote.Currency,
		Status:        model.RecordStatusPaid,
		PaymentMethod: paymentMethod,
		PaymentPhase:  details.PaymentPhase,
		Snapshot:      snapshot,
		CreatedAt:     paidAt,
	}
	if _, err := s.finance.Create(ctx, paid); err != nil {
		return err
	}

	if details.PaymentPhase == model.PaymentPhaseDeposit {
		remaining := quote.TotalBilled - amount
		if remaining > 0 {
			pending := model.FinanceRecord{
				QuoteID:       quote.ID,
				GroupID:       groupID,
				Title:         fmt.Sprintf("Saldo Pendiente Cotización: %s", quote.ProjectName),
				ClientName:    clientName,
				ClientContact: clientContact(quote),
				Amount:        remaining,
				Currency:      quote.Currency,
				Status:        model.RecordStatusPending,
				PaymentMethod: paymentMethod,
				PaymentPhase:  details.PaymentPhase,
				Snapshot:      snapshot,
				CreatedAt:     paidAt.Add(time.Millisecond),
			}
			if _, err := s.finance.Create(ctx, pending); err != nil {
				return err
			}
		}
	}

	return s.quotes.UpdateStatus(ctx, quote.ID, model.QuoteStatusAccepted)
}

// ListSaleRecords returns the finance trail of a quote, oldest first.
func (s *QuoteService) ListSaleRecords(ctx context.Context, id uuid.UUID) ([]model.FinanceRecord, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.finance.ListByQuote(ctx, id)
}

func clientContact(quote *model.Quote) string {
	if quote.ClientPhone != "" {
		return quote.ClientPhone
	}
	return quote.ClientEmail
}

func buildProductionSnapshot(data model.QuoteData) model.ProductionSnapshot {
	lines := make([]model.ProductionLine, 0, len(data.Payload.MachineLines))
	for _, line := range data.Payload.MachineLines {
		lines = append(lines, model.ProductionLine{
			MachineName:     line.MachineName,
			Type:            line.Type,
			DurationMinutes: line.TotalDurationMinutes,
			WeightGrams:     line.TotalWeightGrams,
		})
	}
	return model.ProductionSnapshot{
		MachineTimeMinutes:  data.Payload.TotalMachineMinutes,
		LaborTimeMinutes:    data.Payload.AggregateLaborMinutes,
		MaterialWeightGrams: data.Payload.TotalWeightGrams,
		EnergyCost:          data.Costs.Electricity,
		DepreciationCost:    data.Costs.Depreciation,
		MaterialCost:        data.Costs.Material,
		LaborCost:           data.Costs.LaborValue,
		Lines:               lines,
	}
}

type DocumentOptions struct {
	ShowTechnicalDetails bool
	ShowTaxBreakdown     bool
}

// GenerateQuotePDF renders the customer-facing document for a saved quote.
func (s *QuoteService) GenerateQuotePDF(ctx context.Context, id uuid.UUID, options DocumentOptions) ([]byte, string, error) {
	quote, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	content, err := s.pdf.Generate(model.QuoteDocument{
		Quote:                *quote,
		ShowTechnicalDetails: options.ShowTechnicalDetails,
		ShowTaxBreakdown:     options.ShowTaxBreakdown,
	})
	if err != nil {
		return nil, "", err
	}

	name := quote.ClientName
	if name == "" {
		name = "Cliente"
	}
	fileName := fmt.Sprintf("Cotizacion_%s.pdf", sanitizeFileName(name))
	return content, fileName, nil
}

// ExportQuotesExcel renders the recent-quotes workbook.
func (s *QuoteService) ExportQuotesExcel(ctx context.Context, limit int) ([]byte, string, error) {
	quotes, err := s.quotes.ListRecent(ctx, limit)
	if err != nil {
		return nil, "", err
	}
	content, err := s.excel.Generate(quotes)
	if err != nil {
		return nil, "", err
	}
	fileName := fmt.Sprintf("cotizaciones-%s.xlsx", time.Now().UTC().Format("20060102"))
	return content, fileName, nil
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return string(result)
}
