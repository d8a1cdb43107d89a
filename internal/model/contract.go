package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/rfarias/obras-backoffice/internal/money"
)

type BillingMode string

const (
	BillingInstallments BillingMode = "INSTALLMENTS"
	BillingMeasurements BillingMode = "MEASUREMENTS"
)

type InstallmentStatus string

const (
	InstallmentStatusPaid    InstallmentStatus = "PAID"
	InstallmentStatusOverdue InstallmentStatus = "OVERDUE"
	InstallmentStatusPending InstallmentStatus = "PENDING"
)

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusPending PaymentStatus = "PENDING"
)

// Contract is a condominium-level service agreement billed either by fixed
// installments or by progressive work measurements.
type Contract struct {
	ID              uuid.UUID
	CondominiumID   uuid.UUID
	Name            string
	TotalValue      money.Money
	OriginalValue   *money.Money
	EntrancePayment money.Money
	TotalAreaM2     float64
	BillingMode     BillingMode
	Status          string
	Observations    string
	CreatedAt       time.Time
}

// Installment is one scheduled payment of a contract. Status is a stored
// cache that may be stale relative to DueDate; effective status comes from
// ledger.ResolveInstallmentStatus.
type Installment struct {
	ID             uuid.UUID
	ContractID     uuid.UUID
	Number         int
	Amount         money.Money
	OriginalAmount money.Money
	DueDate        time.Time
	PaymentDate    *time.Time
	PaidAmount     *money.Money
	Status         InstallmentStatus
}

// Measurement is a cumulative progress snapshot (medição) of executed work
// under a measurement-billed contract.
type Measurement struct {
	ID              uuid.UUID
	ContractID      uuid.UUID
	Date            time.Time
	ExecutedAreaM2  float64
	ExecutedPercent float64
	Value           money.Money
	PaidAmount      *money.Money
	PaymentStatus   PaymentStatus
}
