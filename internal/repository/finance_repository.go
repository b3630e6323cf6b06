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

type FinanceRepository struct {
	db *gorm.DB
}

func NewFinanceRepository(db *gorm.DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

func (r *FinanceRepository) Create(ctx context.Context, record model.FinanceRecord) (*model.FinanceRecord, error) {
	snapshot, err := json.Marshal(record.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal production snapshot: %w", err)
	}

	var row struct {
		ID        uuid.UUID
		CreatedAt time.Time
	}
	err = r.db.WithContext(ctx).Raw(`
		INSERT INTO finance_records (
			quote_id,
			group_id,
			title,
			client_name,
			client_contact,
			amount,
			currency,
			status,
			payment_method,
			payment_phase,
			production_snapshot,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at
	`,
		record.QuoteID,
		record.GroupID,
		record.Title,
		record.ClientName,
		record.ClientContact,
		record.Amount,
		record.Currency,
		record.Status,
		record.PaymentMethod,
		record.PaymentPhase,
		snapshot,
		record.CreatedAt,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	record.ID = row.ID
	record.CreatedAt = row.CreatedAt
	return &record, nil
}

// ListByQuote returns the finance records of one quote, oldest first, so a
// deposit's paid record always precedes its pending balance.
func (r *FinanceRepository) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]model.FinanceRecord, error) {
	var rows []struct {
		ID                 uuid.UUID
		QuoteID            uuid.UUID
		GroupID            uuid.UUID
		Title              string
		ClientName         string
		ClientContact      string
		Amount             float64
		Currency           string
		Status             string
		PaymentMethod      string
		PaymentPhase       string
		ProductionSnapshot []byte
		CreatedAt          time.Time
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			quote_id,
			group_id,
			title,
			client_name,
			client_contact,
			amount,
			currency,
			status,
			payment_method,
			payment_phase,
			production_snapshot,
			created_at
		FROM finance_records
		WHERE quote_id = ?
		ORDER BY created_at ASC
	`, quoteID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]model.FinanceRecord, 0, len(rows))
	for _, row := range rows {
		record := model.FinanceRecord{
			ID:            row.ID,
			QuoteID:       row.QuoteID,
			GroupID:       row.GroupID,
			Title:         row.Title,
			ClientName:    row.ClientName,
			ClientContact: row.ClientContact,
			Amount:        row.Amount,
			Currency:      row.Currency,
			Status:        model.RecordStatus(row.Status),
			PaymentMethod: row.PaymentMethod,
			PaymentPhase:  model.PaymentPhase(row.PaymentPhase),
			CreatedAt:     row.CreatedAt,
		}
		if len(row.ProductionSnapshot) > 0 {
			if err := json.Unmarshal(row.ProductionSnapshot, &record.Snapshot); err != nil {
				return nil, fmt.Errorf("unmarshal production snapshot: %w", err)
			}
		}
		records = append(records, record)
	}
	return records, nil
}
