package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ddreams3d/quoter-service/internal/model"
)

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

type quoteRow struct {
	ID               uuid.UUID
	ClientName       string
	ClientPhone      string
	ClientEmail      string
	ProjectName      string
	Status           string
	NetPrice         float64
	TotalBilled      float64
	TaxAmount        float64
	Currency         string
	Data             []byte
	SettingsSnapshot []byte
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (r *QuoteRepository) Save(ctx context.Context, quote model.Quote) (*model.Quote, error) {
	data, err := json.Marshal(quote.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal quote data: %w", err)
	}
	settings, err := json.Marshal(quote.Settings)
	if err != nil {
		return nil, fmt.Errorf("marshal settings snapshot: %w", err)
	}

	var row quoteRow
	err = r.db.WithContext(ctx).Raw(`
		INSERT INTO quotes (
			client_name,
			client_phone,
			client_email,
			project_name,
			status,
			net_price,
			total_billed,
			tax_amount,
			currency,
			data,
			settings_snapshot
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING
			id,
			client_name,
			client_phone,
			client_email,
			project_name,
			status,
			net_price,
			total_billed,
			tax_amount,
			currency,
			data,
			settings_snapshot,
			created_at,
			updated_at
	`,
		quote.ClientName,
		quote.ClientPhone,
		quote.ClientEmail,
		quote.ProjectName,
		quote.Status,
		quote.NetPrice,
		quote.TotalBilled,
		quote.TaxAmount,
		quote.Currency,
		data,
		settings,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return rowToQuote(row)
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	var row quoteRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			client_name,
			client_phone,
			client_email,
			project_name,
			status,
			net_price,
			total_billed,
			tax_amount,
			currency,
			data,
			settings_snapshot,
			created_at,
			updated_at
		FROM quotes
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return rowToQuote(row)
}

// ListRecent returns quotes newest-first.
func (r *QuoteRepository) ListRecent(ctx context.Context, limit int) ([]model.Quote, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows []quoteRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			client_name,
			client_phone,
			client_email,
			project_name,
			status,
			net_price,
			total_billed,
			tax_amount,
			currency,
			data,
			settings_snapshot,
			created_at,
			updated_at
		FROM quotes
		ORDER BY created_at DESC
		LIMIT ?
	`, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	quotes := make([]model.Quote, 0, len(rows))
	for _, row := range rows {
		quote, err := rowToQuote(row)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *quote)
	}
	return quotes, nil
}

func (r *QuoteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.QuoteStatus) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE quotes
		SET status = ?, updated_at = NOW()
		WHERE id = ?
	`, status, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *QuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM quotes WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func rowToQuote(row quoteRow) (*model.Quote, error) {
	quote := model.Quote{
		ID:          row.ID,
		ClientName:  row.ClientName,
		ClientPhone: row.ClientPhone,
		ClientEmail: row.ClientEmail,
		ProjectName: row.ProjectName,
		Status:      model.QuoteStatus(row.Status),
		NetPrice:    row.NetPrice,
		TotalBilled: row.TotalBilled,
		TaxAmount:   row.TaxAmount,
		Currency:    row.Currency,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &quote.Data); err != nil {
			return nil, fmt.Errorf("unmarshal quote data: %w", err)
		}
	}
	if len(row.SettingsSnapshot) > 0 {
		if err := json.Unmarshal(row.SettingsSnapshot, &quote.Settings); err != nil {
			return nil, fmt.Errorf("unmarshal settings snapshot: %w", err)
		}
	}
	return &quote, nil
}
