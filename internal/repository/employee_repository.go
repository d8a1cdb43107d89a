package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfarias/obras-backoffice/internal/model"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetEmployee(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, document, phone, email, role, created_at
		FROM employees
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&employee).Error; err != nil {
		return nil, err
	}
	if employee.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &employee, nil
}

func (r *EmployeeRepository) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	var rows []model.Employee
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, document, phone, email, role, created_at
		FROM employees
		ORDER BY name ASC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *EmployeeRepository) ListGrantsByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.Grant, error) {
	var rows []model.Grant
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, employee_id, condominium_id, description, total_value, completed, completed_at, created_at
		FROM grants
		WHERE employee_id = ?
		ORDER BY created_at ASC
	`, employeeID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *EmployeeRepository) ListAllGrants(ctx context.Context) ([]model.Grant, error) {
	var rows []model.Grant
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, employee_id, condominium_id, description, total_value, completed, completed_at, created_at
		FROM grants
		ORDER BY created_at ASC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListWithdrawalsByGrants loads the withdrawals for a set of grants, keyed
// by grant.
func (r *EmployeeRepository) ListWithdrawalsByGrants(
	ctx context.Context,
	grantIDs []uuid.UUID,
) (map[uuid.UUID][]model.Withdrawal, error) {
	result := make(map[uuid.UUID][]model.Withdrawal, len(grantIDs))
	if len(grantIDs) == 0 {
		return result, nil
	}

	var rows []model.Withdrawal
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, grant_id, employee_id, amount, date, description
		FROM withdrawals
		WHERE grant_id = ANY(?)
		ORDER BY date ASC
	`, grantIDs).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, w := range rows {
		result[w.GrantID] = append(result[w.GrantID], w)
	}
	return result, nil
}
