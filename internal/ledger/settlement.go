package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rfarias/obras-backoffice/internal/model"
	"github.com/rfarias/obras-backoffice/internal/money"
)

type InstallmentCounts struct {
	Paid    int `json:"paid"`
	Overdue int `json:"overdue"`
	Pending int `json:"pending"`
}

type SettlementSummary struct {
	ContractID          uuid.UUID         `json:"contractId"`
	TotalPaid           money.Money       `json:"totalPaid"`
	PaidViaInstallments money.Money       `json:"paidViaInstallments"`
	PaidViaMeasurements money.Money       `json:"paidViaMeasurements"`
	Pending             money.Money       `json:"pending"`
	PercentPaid         float64           `json:"percentPaid"`
	PercentExecuted     float64           `json:"percentExecuted"`
	InstallmentCounts   InstallmentCounts `json:"installmentCounts"`
	MeasurementCount    int               `json:"measurementCount"`
	// AmbiguousBilling is set when the contract carries both installments
	// and measurements; the paid amounts are still summed, matching the
	// historical behavior, but callers should surface a warning because the
	// two lists may mirror each other and double-count.
	AmbiguousBilling bool `json:"ambiguousBilling"`
}

// ValidateBillingMode rejects the degenerate case of a contract billed both
// ways at once.
func ValidateBillingMode(installments []model.Installment, measurements []model.Measurement) error {
	if len(installments) > 0 && len(measurements) > 0 {
		return fmt.Errorf("%w: contract has %d installments and %d measurements",
			ErrAmbiguousBillingMode, len(installments), len(measurements))
	}
	return nil
}

// ComputeContractSettlement turns a contract and its billing rows into the
// paid/pending figures. Today is injected so the overdue counts are
// deterministic.
func ComputeContractSettlement(
	contract model.Contract,
	installments []model.Installment,
	measurements []model.Measurement,
	today time.Time,
) (SettlementSummary, error) {
	summary := SettlementSummary{
		ContractID:       contract.ID,
		MeasurementCount: len(measurements),
		AmbiguousBilling: len(installments) > 0 && len(measurements) > 0,
	}

	for _, inst := range installments {
		if inst.ContractID != contract.ID {
			return SettlementSummary{}, fmt.Errorf(
				"%w: installment %s references contract %s", ErrInconsistentOwnership, inst.ID, inst.ContractID)
		}
		switch ResolveInstallmentStatus(inst, today) {
		case model.InstallmentStatusPaid:
			summary.InstallmentCounts.Paid++
		case model.InstallmentStatusOverdue:
			summary.InstallmentCounts.Overdue++
		default:
			summary.InstallmentCounts.Pending++
		}
		if inst.PaymentDate == nil {
			continue
		}
		paid := inst.Amount
		if inst.PaidAmount != nil {
			paid = *inst.PaidAmount
		}
		summary.PaidViaInstallments = summary.PaidViaInstallments.Add(paid)
	}

	for _, meas := range measurements {
		if meas.ContractID != contract.ID {
			return SettlementSummary{}, fmt.Errorf(
				"%w: measurement %s references contract %s", ErrInconsistentOwnership, meas.ID, meas.ContractID)
		}
		if meas.ExecutedPercent > summary.PercentExecuted {
			summary.PercentExecuted = meas.ExecutedPercent
		}
		if meas.PaymentStatus != model.PaymentStatusPaid {
			continue
		}
		paid := meas.Value
		if meas.PaidAmount != nil {
			paid = *meas.PaidAmount
		}
		summary.PaidViaMeasurements = summary.PaidViaMeasurements.Add(paid)
	}

	summary.TotalPaid = summary.PaidViaInstallments.
		Add(summary.PaidViaMeasurements).
		Add(contract.EntrancePayment)
	summary.Pending = contract.TotalValue.Sub(summary.TotalPaid).ClampNonNegative()
	summary.PercentPaid = summary.TotalPaid.PercentOf(contract.TotalValue)
	return summary, nil
}
