package ledger

import (
	"time"

	"github.com/rfarias/obras-backoffice/internal/model"
)

// ResolveInstallmentStatus derives the effective status of an installment.
// A set payment date is authoritative and always means paid, no matter what
// the stored status field says. Otherwise a due date strictly before today
// means overdue. Only then is the stored status trusted, defaulting to
// pending when unset. Every call site that needs an installment's status
// must go through this function; the stored field is a stale cache.
func ResolveInstallmentStatus(installment model.Installment, today time.Time) model.InstallmentStatus {
	if installment.PaymentDate != nil {
		return model.InstallmentStatusPaid
	}
	if dateOnly(installment.DueDate).Before(dateOnly(today)) {
		return model.InstallmentStatusOverdue
	}
	if installment.Status != "" {
		return installment.Status
	}
	return model.InstallmentStatusPending
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
