// Package ledger holds the balance and settlement calculations that the rest
// of the system renders. Everything here is pure: inputs are caller-supplied
// snapshots, time is injected, and results are only as consistent as the
// snapshot the caller loaded.
package ledger

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rfarias/obras-backoffice/internal/model"
	"github.com/rfarias/obras-backoffice/internal/money"
)

// GrantBalance is the per-grant breakdown shown next to the employee totals.
type GrantBalance struct {
	GrantID   uuid.UUID   `json:"grantId"`
	Total     money.Money `json:"total"`
	Withdrawn money.Money `json:"withdrawn"`
	Balance   money.Money `json:"balance"`
	Completed bool        `json:"completed"`
}

type GrantBalanceSummary struct {
	EmployeeID      uuid.UUID      `json:"employeeId"`
	ActiveTotal     money.Money    `json:"activeTotal"`
	ActiveWithdrawn money.Money    `json:"activeWithdrawn"`
	ActiveBalance   money.Money    `json:"activeBalance"`
	ClosedDebt      money.Money    `json:"closedDebt"`
	TotalBalance    money.Money    `json:"totalBalance"`
	IsActive        bool           `json:"isActive"`
	OpenGrantCount  int            `json:"openGrantCount"`
	Grants          []GrantBalance `json:"grants"`
}

// ComputeGrantBalances reconciles one employee's grants against their
// withdrawals.
//
// Open grants contribute total and withdrawn as-is; an overdrawn open grant
// simply pushes the active balance negative, with no clamping, so the
// running liability stays visible while work is ongoing. Closed grants are
// asymmetric: a positive leftover is forfeited and contributes nothing,
// while an overdraft survives closure as carried debt (min(balance, 0)).
// That asymmetry is a business rule, not an accident.
func ComputeGrantBalances(
	employeeID uuid.UUID,
	grants []model.Grant,
	withdrawalsByGrant map[uuid.UUID][]model.Withdrawal,
) (GrantBalanceSummary, error) {
	summary := GrantBalanceSummary{
		EmployeeID: employeeID,
		Grants:     make([]GrantBalance, 0, len(grants)),
	}

	known := make(map[uuid.UUID]struct{}, len(grants))
	for _, grant := range grants {
		if grant.EmployeeID != employeeID {
			return GrantBalanceSummary{}, fmt.Errorf(
				"%w: grant %s belongs to employee %s", ErrInconsistentOwnership, grant.ID, grant.EmployeeID)
		}
		known[grant.ID] = struct{}{}
	}
	for grantID := range withdrawalsByGrant {
		if _, ok := known[grantID]; !ok {
			return GrantBalanceSummary{}, fmt.Errorf(
				"%w: withdrawals reference grant %s outside the employee's set", ErrInconsistentOwnership, grantID)
		}
	}

	for _, grant := range grants {
		withdrawn := money.Zero()
		for _, w := range withdrawalsByGrant[grant.ID] {
			if w.GrantID != grant.ID || w.EmployeeID != employeeID {
				return GrantBalanceSummary{}, fmt.Errorf(
					"%w: withdrawal %s does not match grant %s", ErrInconsistentOwnership, w.ID, grant.ID)
			}
			if !w.Amount.IsPositive() {
				return GrantBalanceSummary{}, fmt.Errorf(
					"%w: withdrawal %s has non-positive amount %s", ErrInvalidAmount, w.ID, w.Amount)
			}
			withdrawn = withdrawn.Add(w.Amount)
		}

		balance := grant.TotalValue.Sub(withdrawn)
		summary.Grants = append(summary.Grants, GrantBalance{
			GrantID:   grant.ID,
			Total:     grant.TotalValue,
			Withdrawn: withdrawn,
			Balance:   balance,
			Completed: grant.Completed,
		})

		if grant.Completed {
			summary.ClosedDebt = summary.ClosedDebt.Add(balance.ClampNonPositive())
			continue
		}
		summary.ActiveTotal = summary.ActiveTotal.Add(grant.TotalValue)
		summary.ActiveWithdrawn = summary.ActiveWithdrawn.Add(withdrawn)
		summary.OpenGrantCount++
	}

	summary.ActiveBalance = summary.ActiveTotal.Sub(summary.ActiveWithdrawn)
	summary.TotalBalance = summary.ActiveBalance.Add(summary.ClosedDebt)
	summary.IsActive = summary.OpenGrantCount > 0
	return summary, nil
}
