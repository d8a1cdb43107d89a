package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS employees (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		document VARCHAR(32),
		phone VARCHAR(32),
		email VARCHAR(255),
		role VARCHAR(32) NOT NULL DEFAULT 'FIELD',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS condominiums (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		cnpj VARCHAR(32),
		address TEXT,
		phone VARCHAR(32)
	);`,
	`CREATE TABLE IF NOT EXISTS grants (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		employee_id UUID NOT NULL REFERENCES employees(id),
		condominium_id UUID NOT NULL REFERENCES condominiums(id),
		description TEXT,
		total_value NUMERIC(18,2) NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_grant_completed CHECK (completed = (completed_at IS NOT NULL))
	);`,
	`CREATE TABLE IF NOT EXISTS withdrawals (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		grant_id UUID NOT NULL REFERENCES grants(id),
		employee_id UUID NOT NULL REFERENCES employees(id),
		amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
		date DATE NOT NULL,
		description TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		condominium_id UUID NOT NULL REFERENCES condominiums(id),
		name VARCHAR(255) NOT NULL,
		total_value NUMERIC(18,2) NOT NULL,
		original_value NUMERIC(18,2),
		entrance_payment NUMERIC(18,2) NOT NULL DEFAULT 0,
		total_area_m2 NUMERIC(12,2) NOT NULL DEFAULT 0,
		billing_mode VARCHAR(16) NOT NULL DEFAULT 'INSTALLMENTS',
		status VARCHAR(32),
		observations TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS installments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id),
		number INT NOT NULL,
		amount NUMERIC(18,2) NOT NULL,
		original_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		due_date DATE NOT NULL,
		payment_date DATE,
		paid_amount NUMERIC(18,2),
		status VARCHAR(16) NOT NULL DEFAULT 'PENDING'
	);`,
	`CREATE TABLE IF NOT EXISTS measurements (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id),
		date DATE NOT NULL,
		executed_area_m2 NUMERIC(12,2) NOT NULL DEFAULT 0,
		executed_percent NUMERIC(5,2) NOT NULL DEFAULT 0,
		value NUMERIC(18,2) NOT NULL,
		paid_amount NUMERIC(18,2),
		payment_status VARCHAR(16) NOT NULL DEFAULT 'PENDING'
	);`,
	`CREATE TABLE IF NOT EXISTS tools (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		code VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		brand VARCHAR(128),
		category VARCHAR(64),
		description TEXT,
		location_note TEXT,
		location VARCHAR(16) NOT NULL DEFAULT 'DEPOT',
		current_employee_id UUID REFERENCES employees(id),
		current_site VARCHAR(255),
		current_condominium_id UUID REFERENCES condominiums(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS tool_history (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		tool_id UUID NOT NULL REFERENCES tools(id),
		type VARCHAR(16) NOT NULL,
		detail TEXT NOT NULL,
		employee_id UUID REFERENCES employees(id),
		condominium_id UUID REFERENCES condominiums(id),
		site VARCHAR(255),
		occurred_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_tools_code ON tools (code);`,
	`CREATE INDEX IF NOT EXISTS idx_grants_employee_id ON grants (employee_id);`,
	`CREATE INDEX IF NOT EXISTS idx_withdrawals_grant_id ON withdrawals (grant_id);`,
	`CREATE INDEX IF NOT EXISTS idx_installments_contract_id ON installments (contract_id);`,
	`CREATE INDEX IF NOT EXISTS idx_measurements_contract_id ON measurements (contract_id);`,
	`CREATE INDEX IF NOT EXISTS idx_tool_history_tool_id ON tool_history (tool_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
