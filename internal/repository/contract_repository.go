package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfarias/obras-backoffice/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, condominium_id, name, total_value, original_value, entrance_payment,
			total_area_m2, billing_mode, status, observations, created_at
		FROM contracts
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&contract).Error; err != nil {
		return nil, err
	}
	if contract.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &contract, nil
}

func (r *ContractRepository) ListContracts(ctx context.Context) ([]model.Contract, error) {
	var rows []model.Contract
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, condominium_id, name, total_value, original_value, entrance_payment,
			total_area_m2, billing_mode, status, observations, created_at
		FROM contracts
		ORDER BY created_at ASC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ContractRepository) ListInstallments(ctx context.Context, contractID uuid.UUID) ([]model.Installment, error) {
	var rows []model.Installment
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, contract_id, number, amount, original_amount, due_date, payment_date, paid_amount, status
		FROM installments
		WHERE contract_id = ?
		ORDER BY number ASC
	`, contractID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ContractRepository) ListMeasurements(ctx context.Context, contractID uuid.UUID) ([]model.Measurement, error) {
	var rows []model.Measurement
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, contract_id, date, executed_area_m2, executed_percent, value, paid_amount, payment_status
		FROM measurements
		WHERE contract_id = ?
		ORDER BY date ASC
	`, contractID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ContractRepository) ListInstallmentsByContracts(
	ctx context.Context,
	contractIDs []uuid.UUID,
) (map[uuid.UUID][]model.Installment, error) {
	result := make(map[uuid.UUID][]model.Installment, len(contractIDs))
	if len(contractIDs) == 0 {
		return result, nil
	}

	var rows []model.Installment
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, contract_id, number, amount, original_amount, due_date, payment_date, paid_amount, status
		FROM installments
		WHERE contract_id = ANY(?)
		ORDER BY number ASC
	`, contractIDs).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, inst := range rows {
		result[inst.ContractID] = append(result[inst.ContractID], inst)
	}
	return result, nil
}

func (r *ContractRepository) ListMeasurementsByContracts(
	ctx context.Context,
	contractIDs []uuid.UUID,
) (map[uuid.UUID][]model.Measurement, error) {
	result := make(map[uuid.UUID][]model.Measurement, len(contractIDs))
	if len(contractIDs) == 0 {
		return result, nil
	}

	var rows []model.Measurement
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, contract_id, date, executed_area_m2, executed_percent, value, paid_amount, payment_status
		FROM measurements
		WHERE contract_id = ANY(?)
		ORDER BY date ASC
	`, contractIDs).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, meas := range rows {
		result[meas.ContractID] = append(result[meas.ContractID], meas)
	}
	return result, nil
}
