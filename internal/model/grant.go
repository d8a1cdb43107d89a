package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/rfarias/obras-backoffice/internal/money"
)

// Grant is a fixed-value work assignment (empreitada) given to an employee
// for a condominium. CompletedAt is set iff Completed is true.
type Grant struct {
	ID            uuid.UUID
	EmployeeID    uuid.UUID
	CondominiumID uuid.UUID
	Description   string
	TotalValue    money.Money
	Completed     bool
	CompletedAt   *time.Time
	CreatedAt     time.Time
}

// Withdrawal is a cash advance (retirada) taken against a grant. The
// employee reference is denormalized from the grant.
type Withdrawal struct {
	ID          uuid.UUID
	GrantID     uuid.UUID
	EmployeeID  uuid.UUID
	Amount      money.Money
	Date        time.Time
	Description *string
}
