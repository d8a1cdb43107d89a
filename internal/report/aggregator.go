// Package report composes the per-entity calculators into system-wide
// statistics. Pure aggregation over caller-loaded snapshots; the clock is
// injected and nothing here performs I/O.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rfarias/obras-backoffice/internal/ledger"
	"github.com/rfarias/obras-backoffice/internal/model"
	"github.com/rfarias/obras-backoffice/internal/money"
)

const defaultTopGrants = 5

// EmployeeSnapshot is one employee with the grant data loaded alongside.
type EmployeeSnapshot struct {
	Employee           model.Employee
	Grants             []model.Grant
	WithdrawalsByGrant map[uuid.UUID][]model.Withdrawal
}

// ContractSnapshot is one contract with its billing rows.
type ContractSnapshot struct {
	Contract     model.Contract
	Installments []model.Installment
	Measurements []model.Measurement
}

type Options struct {
	TopGrants int
}

type EmployeeBalanceRow struct {
	EmployeeID   uuid.UUID   `json:"employeeId"`
	EmployeeName string      `json:"employeeName"`
	Summary      ledger.GrantBalanceSummary `json:"summary"`
}

type TopGrant struct {
	GrantID      uuid.UUID   `json:"grantId"`
	EmployeeID   uuid.UUID   `json:"employeeId"`
	EmployeeName string      `json:"employeeName"`
	Total        money.Money `json:"total"`
	Withdrawn    money.Money `json:"withdrawn"`
	Balance      money.Money `json:"balance"`
}

type MonthBucket struct {
	Month string      `json:"month"` // YYYY-MM
	Count int         `json:"count"`
	Total money.Money `json:"total"`
}

type Summary struct {
	GeneratedAt time.Time `json:"generatedAt"`

	EmployeeCount       int `json:"employeeCount"`
	ActiveEmployeeCount int `json:"activeEmployeeCount"`
	GrantCount          int `json:"grantCount"`
	OpenGrantCount      int `json:"openGrantCount"`
	ContractCount       int `json:"contractCount"`
	ToolCount           int `json:"toolCount"`

	ActiveTotal     money.Money `json:"activeTotal"`
	ActiveWithdrawn money.Money `json:"activeWithdrawn"`
	ActiveBalance   money.Money `json:"activeBalance"`
	ClosedDebt      money.Money `json:"closedDebt"`
	TotalBalance    money.Money `json:"totalBalance"`

	ContractTotal       money.Money `json:"contractTotal"`
	ContractPaid        money.Money `json:"contractPaid"`
	ContractPending     money.Money `json:"contractPending"`
	InstallmentBilled   int         `json:"installmentBilled"`
	MeasurementBilled   int         `json:"measurementBilled"`
	AmbiguousBilling    int         `json:"ambiguousBilling"`
	OverdueInstallments int         `json:"overdueInstallments"`

	EmployeeBalances []EmployeeBalanceRow          `json:"employeeBalances"`
	ToolsByLocation  map[model.ToolLocation]int    `json:"toolsByLocation"`
	ToolsByCategory  map[string]int                `json:"toolsByCategory"`
	GrantsByMonth    []MonthBucket                 `json:"grantsByMonth"`
	TopActiveGrants  []TopGrant                    `json:"topActiveGrants"`
}

// EmployeeStatement is the input for the printable per-employee statement.
type EmployeeStatement struct {
	Employee    model.Employee
	Summary     ledger.GrantBalanceSummary
	Grants      []model.Grant
	GeneratedAt time.Time
}

// Aggregate runs the calculators over whole collections and groups the
// results for the dashboard.
func Aggregate(
	employees []EmployeeSnapshot,
	contracts []ContractSnapshot,
	tools []model.Tool,
	now time.Time,
	opts Options,
) (Summary, error) {
	topN := opts.TopGrants
	if topN <= 0 {
		topN = defaultTopGrants
	}

	summary := Summary{
		GeneratedAt:      now,
		EmployeeCount:    len(employees),
		ContractCount:    len(contracts),
		ToolCount:        len(tools),
		EmployeeBalances: make([]EmployeeBalanceRow, 0, len(employees)),
		ToolsByLocation:  make(map[model.ToolLocation]int),
		ToolsByCategory:  make(map[string]int),
	}

	months := make(map[string]*MonthBucket)
	var topCandidates []TopGrant

	for _, snap := range employees {
		balances, err := ledger.ComputeGrantBalances(snap.Employee.ID, snap.Grants, snap.WithdrawalsByGrant)
		if err != nil {
			return Summary{}, err
		}
		summary.EmployeeBalances = append(summary.EmployeeBalances, EmployeeBalanceRow{
			EmployeeID:   snap.Employee.ID,
			EmployeeName: snap.Employee.Name,
			Summary:      balances,
		})

		summary.GrantCount += len(snap.Grants)
		summary.OpenGrantCount += balances.OpenGrantCount
		summary.ActiveTotal = summary.ActiveTotal.Add(balances.ActiveTotal)
		summary.ActiveWithdrawn = summary.ActiveWithdrawn.Add(balances.ActiveWithdrawn)
		summary.ActiveBalance = summary.ActiveBalance.Add(balances.ActiveBalance)
		summary.ClosedDebt = summary.ClosedDebt.Add(balances.ClosedDebt)
		summary.TotalBalance = summary.TotalBalance.Add(balances.TotalBalance)
		if balances.IsActive {
			summary.ActiveEmployeeCount++
		}

		for _, grant := range snap.Grants {
			key := grant.CreatedAt.Format("2006-01")
			bucket, ok := months[key]
			if !ok {
				bucket = &MonthBucket{Month: key}
				months[key] = bucket
			}
			bucket.Count++
			bucket.Total = bucket.Total.Add(grant.TotalValue)
		}

		for _, gb := range balances.Grants {
			if gb.Completed {
				continue
			}
			topCandidates = append(topCandidates, TopGrant{
				GrantID:      gb.GrantID,
				EmployeeID:   snap.Employee.ID,
				EmployeeName: snap.Employee.Name,
				Total:        gb.Total,
				Withdrawn:    gb.Withdrawn,
				Balance:      gb.Balance,
			})
		}
	}

	for _, snap := range contracts {
		settlement, err := ledger.ComputeContractSettlement(snap.Contract, snap.Installments, snap.Measurements, now)
		if err != nil {
			return Summary{}, err
		}
		summary.ContractTotal = summary.ContractTotal.Add(snap.Contract.TotalValue)
		summary.ContractPaid = summary.ContractPaid.Add(settlement.TotalPaid)
		summary.ContractPending = summary.ContractPending.Add(settlement.Pending)
		summary.OverdueInstallments += settlement.InstallmentCounts.Overdue
		switch {
		case settlement.AmbiguousBilling:
			summary.AmbiguousBilling++
		case snap.Contract.BillingMode == model.BillingMeasurements:
			summary.MeasurementBilled++
		default:
			summary.InstallmentBilled++
		}
	}

	for _, tool := range tools {
		summary.ToolsByLocation[tool.Location]++
		if tool.Category != "" {
			summary.ToolsByCategory[tool.Category]++
		}
	}

	summary.GrantsByMonth = make([]MonthBucket, 0, len(months))
	for _, bucket := range months {
		summary.GrantsByMonth = append(summary.GrantsByMonth, *bucket)
	}
	sort.Slice(summary.GrantsByMonth, func(i, j int) bool {
		return summary.GrantsByMonth[i].Month < summary.GrantsByMonth[j].Month
	})

	sort.Slice(topCandidates, func(i, j int) bool {
		if cmp := topCandidates[i].Balance.Cmp(topCandidates[j].Balance); cmp != 0 {
			return cmp > 0
		}
		return topCandidates[i].GrantID.String() < topCandidates[j].GrantID.String()
	})
	if len(topCandidates) > topN {
		topCandidates = topCandidates[:topN]
	}
	summary.TopActiveGrants = topCandidates

	return summary, nil
}
