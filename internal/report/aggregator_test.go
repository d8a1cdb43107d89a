package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rfarias/obras-backoffice/internal/ledger"
	"github.com/rfarias/obras-backoffice/internal/model"
	"github.com/rfarias/obras-backoffice/internal/money"
)

var now = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func employeeWithGrant(name string, total, withdrawn float64, completed bool, createdAt time.Time) EmployeeSnapshot {
	employeeID := uuid.New()
	grant := model.Grant{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		CondominiumID: uuid.New(),
		TotalValue:    money.FromFloat(total),
		Completed:     completed,
		CreatedAt:     createdAt,
	}
	if completed {
		done := createdAt.AddDate(0, 2, 0)
		grant.CompletedAt = &done
	}
	withdrawals := map[uuid.UUID][]model.Withdrawal{}
	if withdrawn > 0 {
		withdrawals[grant.ID] = []model.Withdrawal{{
			ID:         uuid.New(),
			GrantID:    grant.ID,
			EmployeeID: employeeID,
			Amount:     money.FromFloat(withdrawn),
			Date:       createdAt.AddDate(0, 0, 7),
		}}
	}
	return EmployeeSnapshot{
		Employee:           model.Employee{ID: employeeID, Name: name},
		Grants:             []model.Grant{grant},
		WithdrawalsByGrant: withdrawals,
	}
}

func TestAggregate_Balances(t *testing.T) {
	jan := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)

	employees := []EmployeeSnapshot{
		employeeWithGrant("Carlos", 5000, 3000, false, jan),
		employeeWithGrant("Marcos", 2000, 2600, true, jan), // closed overdrawn: -600 debt
		employeeWithGrant("Paula", 3000, 500, false, mar),
	}

	summary, err := Aggregate(employees, nil, nil, now, Options{})
	require.NoError(t, err)

	require.Equal(t, 3, summary.EmployeeCount)
	require.Equal(t, 2, summary.ActiveEmployeeCount)
	require.Equal(t, 3, summary.GrantCount)
	require.Equal(t, 2, summary.OpenGrantCount)
	require.Equal(t, "8000.00", summary.ActiveTotal.String())
	require.Equal(t, "4500.00", summary.ActiveBalance.String())
	require.Equal(t, "-600.00", summary.ClosedDebt.String())
	require.Equal(t, "3900.00", summary.TotalBalance.String())
	require.Len(t, summary.EmployeeBalances, 3)
}

func TestAggregate_GrantsByMonth(t *testing.T) {
	jan := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	employees := []EmployeeSnapshot{
		employeeWithGrant("a", 1000, 0, false, jan),
		employeeWithGrant("b", 2000, 0, false, jan.AddDate(0, 0, 20)),
		employeeWithGrant("c", 500, 0, false, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
	}

	summary, err := Aggregate(employees, nil, nil, now, Options{})
	require.NoError(t, err)
	require.Len(t, summary.GrantsByMonth, 2)
	require.Equal(t, MonthBucket{Month: "2026-01", Count: 2, Total: money.FromFloat(3000)}, summary.GrantsByMonth[0])
	require.Equal(t, "2026-03", summary.GrantsByMonth[1].Month)
}

func TestAggregate_TopActiveGrants(t *testing.T) {
	jan := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	employees := []EmployeeSnapshot{
		employeeWithGrant("small", 1000, 900, false, jan),
		employeeWithGrant("big", 9000, 1000, false, jan),
		employeeWithGrant("mid", 4000, 1000, false, jan),
		employeeWithGrant("closed", 9999, 0, true, jan), // excluded: not open
	}

	summary, err := Aggregate(employees, nil, nil, now, Options{TopGrants: 2})
	require.NoError(t, err)
	require.Len(t, summary.TopActiveGrants, 2)
	require.Equal(t, "big", summary.TopActiveGrants[0].EmployeeName)
	require.Equal(t, "8000.00", summary.TopActiveGrants[0].Balance.String())
	require.Equal(t, "mid", summary.TopActiveGrants[1].EmployeeName)
}

func TestAggregate_ContractsAndTools(t *testing.T) {
	installmentContract := model.Contract{
		ID:          uuid.New(),
		TotalValue:  money.FromFloat(10000),
		BillingMode: model.BillingInstallments,
	}
	paidAt := now.AddDate(0, -1, 0)
	paid := money.FromFloat(2500)
	ambiguous := model.Contract{
		ID:          uuid.New(),
		TotalValue:  money.FromFloat(8000),
		BillingMode: model.BillingMeasurements,
	}

	contracts := []ContractSnapshot{
		{
			Contract: installmentContract,
			Installments: []model.Installment{
				{
					ID: uuid.New(), ContractID: installmentContract.ID, Number: 1,
					Amount: money.FromFloat(2500), DueDate: now.AddDate(0, -2, 0), PaymentDate: &paidAt,
					PaidAmount: &paid,
				},
				{
					ID: uuid.New(), ContractID: installmentContract.ID, Number: 2,
					Amount: money.FromFloat(2500), DueDate: now.AddDate(0, 0, -2),
				},
			},
		},
		{
			Contract: ambiguous,
			Installments: []model.Installment{{
				ID: uuid.New(), ContractID: ambiguous.ID, Number: 1,
				Amount: money.FromFloat(1000), DueDate: now.AddDate(0, 1, 0),
			}},
			Measurements: []model.Measurement{{
				ID: uuid.New(), ContractID: ambiguous.ID,
				ExecutedPercent: 25, Value: money.FromFloat(2000),
				PaymentStatus: model.PaymentStatusPaid,
			}},
		},
	}

	tools := []model.Tool{
		{ID: uuid.New(), Location: model.ToolLocationDepot, Category: "eletrica"},
		{ID: uuid.New(), Location: model.ToolLocationDepot, Category: "manual"},
		{ID: uuid.New(), Location: model.ToolLocationWithEmployee, Category: "eletrica"},
		{ID: uuid.New(), Location: model.ToolLocationMaintenance},
	}

	summary, err := Aggregate(nil, contracts, tools, now, Options{})
	require.NoError(t, err)

	require.Equal(t, "18000.00", summary.ContractTotal.String())
	require.Equal(t, "4500.00", summary.ContractPaid.String())
	require.Equal(t, 1, summary.InstallmentBilled)
	require.Equal(t, 1, summary.AmbiguousBilling)
	require.Equal(t, 0, summary.MeasurementBilled)
	require.Equal(t, 1, summary.OverdueInstallments)

	require.Equal(t, 2, summary.ToolsByLocation[model.ToolLocationDepot])
	require.Equal(t, 1, summary.ToolsByLocation[model.ToolLocationWithEmployee])
	require.Equal(t, 1, summary.ToolsByLocation[model.ToolLocationMaintenance])
	require.Equal(t, 2, summary.ToolsByCategory["eletrica"])
}

func TestAggregate_PropagatesLedgerErrors(t *testing.T) {
	employeeID := uuid.New()
	foreign := model.Grant{ID: uuid.New(), EmployeeID: uuid.New(), TotalValue: money.FromFloat(100)}
	snap := EmployeeSnapshot{
		Employee: model.Employee{ID: employeeID, Name: "x"},
		Grants:   []model.Grant{foreign},
	}

	_, err := Aggregate([]EmployeeSnapshot{snap}, nil, nil, now, Options{})
	require.ErrorIs(t, err, ledger.ErrInconsistentOwnership)
}
