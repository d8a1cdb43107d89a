package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rfarias/obras-backoffice/internal/model"
	"github.com/rfarias/obras-backoffice/internal/money"
)

func newGrant(employeeID uuid.UUID, total float64, completed bool) model.Grant {
	g := model.Grant{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		CondominiumID: uuid.New(),
		TotalValue:    money.FromFloat(total),
		Completed:     completed,
		CreatedAt:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	if completed {
		done := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		g.CompletedAt = &done
	}
	return g
}

func newWithdrawals(grant model.Grant, amounts ...float64) []model.Withdrawal {
	ws := make([]model.Withdrawal, 0, len(amounts))
	for _, a := range amounts {
		ws = append(ws, model.Withdrawal{
			ID:         uuid.New(),
			GrantID:    grant.ID,
			EmployeeID: grant.EmployeeID,
			Amount:     money.FromFloat(a),
			Date:       time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		})
	}
	return ws
}

func TestComputeGrantBalances_OpenGrantNoClamping(t *testing.T) {
	employeeID := uuid.New()
	grant := newGrant(employeeID, 5000, false)
	withdrawals := map[uuid.UUID][]model.Withdrawal{
		grant.ID: newWithdrawals(grant, 1000, 2000),
	}

	summary, err := ComputeGrantBalances(employeeID, []model.Grant{grant}, withdrawals)
	require.NoError(t, err)
	require.Equal(t, "2000.00", summary.ActiveBalance.String())
	require.Equal(t, "5000.00", summary.ActiveTotal.String())
	require.Equal(t, "3000.00", summary.ActiveWithdrawn.String())
	require.True(t, summary.IsActive)
	require.Equal(t, 1, summary.OpenGrantCount)

	// Overdraft on an open grant stays negative, no clamping.
	overdrawn := newGrant(employeeID, 1000, false)
	summary, err = ComputeGrantBalances(employeeID, []model.Grant{overdrawn}, map[uuid.UUID][]model.Withdrawal{
		overdrawn.ID: newWithdrawals(overdrawn, 900, 600),
	})
	require.NoError(t, err)
	require.Equal(t, "-500.00", summary.ActiveBalance.String())
	require.Equal(t, "-500.00", summary.TotalBalance.String())
	require.Equal(t, "0.00", summary.ClosedDebt.String())
}

func TestComputeGrantBalances_ClosedGrantForfeitsLeftover(t *testing.T) {
	employeeID := uuid.New()
	grant := newGrant(employeeID, 1000, true)

	summary, err := ComputeGrantBalances(employeeID, []model.Grant{grant}, map[uuid.UUID][]model.Withdrawal{
		grant.ID: newWithdrawals(grant, 700),
	})
	require.NoError(t, err)

	// 300 leftover is forfeited, not carried.
	require.Equal(t, "0.00", summary.ClosedDebt.String())
	require.Equal(t, "0.00", summary.TotalBalance.String())
	require.False(t, summary.IsActive)
	require.Equal(t, "300.00", summary.Grants[0].Balance.String())
}

func TestComputeGrantBalances_ClosedGrantCarriesDebt(t *testing.T) {
	employeeID := uuid.New()
	grant := newGrant(employeeID, 1000, true)

	summary, err := ComputeGrantBalances(employeeID, []model.Grant{grant}, map[uuid.UUID][]model.Withdrawal{
		grant.ID: newWithdrawals(grant, 1300),
	})
	require.NoError(t, err)
	require.Equal(t, "-300.00", summary.ClosedDebt.String())
	require.Equal(t, "-300.00", summary.TotalBalance.String())
}

func TestComputeGrantBalances_ClosureScenario(t *testing.T) {
	employeeID := uuid.New()

	// While open: total=5000, withdrawn=3000 -> active balance 2000.
	open := newGrant(employeeID, 5000, false)
	withdrawals := map[uuid.UUID][]model.Withdrawal{open.ID: newWithdrawals(open, 1000, 2000)}
	summary, err := ComputeGrantBalances(employeeID, []model.Grant{open}, withdrawals)
	require.NoError(t, err)
	require.Equal(t, "2000.00", summary.ActiveBalance.String())

	// Closed with positive leftover: everything drops to zero.
	closed := open
	closed.Completed = true
	done := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	closed.CompletedAt = &done
	withdrawals = map[uuid.UUID][]model.Withdrawal{closed.ID: newWithdrawals(closed, 1000, 2000)}
	summary, err = ComputeGrantBalances(employeeID, []model.Grant{closed}, withdrawals)
	require.NoError(t, err)
	require.Equal(t, "0.00", summary.TotalBalance.String())
	require.False(t, summary.IsActive)

	// Closed overdrawn: only the overdraft survives.
	withdrawals = map[uuid.UUID][]model.Withdrawal{closed.ID: newWithdrawals(closed, 6000)}
	summary, err = ComputeGrantBalances(employeeID, []model.Grant{closed}, withdrawals)
	require.NoError(t, err)
	require.Equal(t, "-1000.00", summary.TotalBalance.String())
}

func TestComputeGrantBalances_MixedPortfolio(t *testing.T) {
	employeeID := uuid.New()
	open := newGrant(employeeID, 8000, false)
	closedClean := newGrant(employeeID, 1000, true)
	closedOverdrawn := newGrant(employeeID, 2000, true)

	withdrawals := map[uuid.UUID][]model.Withdrawal{
		open.ID:            newWithdrawals(open, 2500),
		closedClean.ID:     newWithdrawals(closedClean, 400),
		closedOverdrawn.ID: newWithdrawals(closedOverdrawn, 2600),
	}

	summary, err := ComputeGrantBalances(employeeID,
		[]model.Grant{open, closedClean, closedOverdrawn}, withdrawals)
	require.NoError(t, err)
	require.Equal(t, "8000.00", summary.ActiveTotal.String())
	require.Equal(t, "5500.00", summary.ActiveBalance.String())
	require.Equal(t, "-600.00", summary.ClosedDebt.String())
	require.Equal(t, "4900.00", summary.TotalBalance.String())
	require.Equal(t, 1, summary.OpenGrantCount)
	require.Len(t, summary.Grants, 3)
}

func TestComputeGrantBalances_NoGrants(t *testing.T) {
	summary, err := ComputeGrantBalances(uuid.New(), nil, nil)
	require.NoError(t, err)
	require.Equal(t, "0.00", summary.TotalBalance.String())
	require.Equal(t, "0.00", summary.ActiveTotal.String())
	require.False(t, summary.IsActive)
	require.Zero(t, summary.OpenGrantCount)
}

func TestComputeGrantBalances_Idempotent(t *testing.T) {
	employeeID := uuid.New()
	grant := newGrant(employeeID, 5000, false)
	withdrawals := map[uuid.UUID][]model.Withdrawal{grant.ID: newWithdrawals(grant, 123.45, 678.90)}

	first, err := ComputeGrantBalances(employeeID, []model.Grant{grant}, withdrawals)
	require.NoError(t, err)
	second, err := ComputeGrantBalances(employeeID, []model.Grant{grant}, withdrawals)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestComputeGrantBalances_RejectsForeignGrant(t *testing.T) {
	employeeID := uuid.New()
	foreign := newGrant(uuid.New(), 1000, false)

	_, err := ComputeGrantBalances(employeeID, []model.Grant{foreign}, nil)
	require.ErrorIs(t, err, ErrInconsistentOwnership)
}

func TestComputeGrantBalances_RejectsUnknownWithdrawalGrant(t *testing.T) {
	employeeID := uuid.New()
	grant := newGrant(employeeID, 1000, false)
	stray := newGrant(employeeID, 1000, false)

	_, err := ComputeGrantBalances(employeeID, []model.Grant{grant}, map[uuid.UUID][]model.Withdrawal{
		stray.ID: newWithdrawals(stray, 100),
	})
	require.ErrorIs(t, err, ErrInconsistentOwnership)
}

func TestComputeGrantBalances_RejectsNonPositiveWithdrawal(t *testing.T) {
	employeeID := uuid.New()
	grant := newGrant(employeeID, 1000, false)
	bad := model.Withdrawal{
		ID:         uuid.New(),
		GrantID:    grant.ID,
		EmployeeID: employeeID,
		Amount:     money.Zero(),
	}

	_, err := ComputeGrantBalances(employeeID, []model.Grant{grant}, map[uuid.UUID][]model.Withdrawal{
		grant.ID: {bad},
	})
	require.ErrorIs(t, err, ErrInvalidAmount)
}
