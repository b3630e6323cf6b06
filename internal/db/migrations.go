package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'quote_status') THEN
			CREATE TYPE quote_status AS ENUM ('draft', 'sent', 'accepted', 'rejected');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'finance_record_status') THEN
			CREATE TYPE finance_record_status AS ENUM ('paid', 'pending');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS quotes (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		client_name VARCHAR(255) NOT NULL DEFAULT '',
		client_phone VARCHAR(64) NOT NULL DEFAULT '',
		client_email VARCHAR(255) NOT NULL DEFAULT '',
		project_name VARCHAR(255) NOT NULL DEFAULT '',
		status quote_status NOT NULL DEFAULT 'draft',
		net_price NUMERIC(18,4) NOT NULL DEFAULT 0,
		total_billed NUMERIC(18,4) NOT NULL DEFAULT 0,
		tax_amount NUMERIC(18,4) NOT NULL DEFAULT 0,
		currency VARCHAR(8) NOT NULL DEFAULT 'PEN',
		data JSONB NOT NULL DEFAULT '{}',
		settings_snapshot JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_status ON quotes (status);`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_created_at ON quotes (created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS finance_records (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		quote_id UUID NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
		group_id UUID NOT NULL,
		title VARCHAR(255) NOT NULL,
		client_name VARCHAR(255) NOT NULL DEFAULT '',
		client_contact VARCHAR(255) NOT NULL DEFAULT '',
		amount NUMERIC(18,4) NOT NULL,
		currency VARCHAR(8) NOT NULL DEFAULT 'PEN',
		status finance_record_status NOT NULL,
		payment_method VARCHAR(32) NOT NULL DEFAULT 'transfer',
		payment_phase VARCHAR(16) NOT NULL DEFAULT 'full',
		production_snapshot JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_finance_records_quote_id ON finance_records (quote_id);`,
	`CREATE INDEX IF NOT EXISTS idx_finance_records_group_id ON finance_records (group_id);`,
	`CREATE TABLE IF NOT EXISTS quoter_settings (
		id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		electricity_price_per_kwh NUMERIC(12,4) NOT NULL DEFAULT 0,
		filament_cost_per_kg NUMERIC(12,4) NOT NULL DEFAULT 0,
		resin_cost_per_kg NUMERIC(12,4) NOT NULL DEFAULT 0,
		labor_hourly_rate NUMERIC(12,4) NOT NULL DEFAULT 0,
		labor_hourly_rate_painting NUMERIC(12,4) NOT NULL DEFAULT 0,
		labor_hourly_rate_modeling NUMERIC(12,4) NOT NULL DEFAULT 0,
		startup_fee NUMERIC(12,4) NOT NULL DEFAULT 0,
		wholesale_threshold INT NOT NULL DEFAULT 0,
		wholesale_margin_percent NUMERIC(5,2) NOT NULL DEFAULT 0
	);`,
	`INSERT INTO quoter_settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING;`,
	`CREATE TABLE IF NOT EXISTS machine_profiles (
		id VARCHAR(64) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		type VARCHAR(16) NOT NULL,
		hourly_rate NUMERIC(12,4) NOT NULL DEFAULT 0
	);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
