package ledger

import (
	"testing"
	"time"

	"github.com/rfarias/obras-backoffice/internal/model"
)

func TestResolveInstallmentStatus(t *testing.T) {
	now := time.Date(2026, 8, 15, 14, 45, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	tests := []struct {
		name        string
		paymentDate *time.Time
		dueDate     time.Time
		stored      model.InstallmentStatus
		want        model.InstallmentStatus
	}{
		{
			name:        "payment date wins over past due date",
			paymentDate: &yesterday,
			dueDate:     now.AddDate(0, -2, 0),
			stored:      model.InstallmentStatusOverdue,
			want:        model.InstallmentStatusPaid,
		},
		{
			name:        "payment date wins over stale stored status",
			paymentDate: &yesterday,
			dueDate:     tomorrow,
			stored:      model.InstallmentStatusPending,
			want:        model.InstallmentStatusPaid,
		},
		{
			name:    "past due without payment is overdue",
			dueDate: yesterday,
			stored:  model.InstallmentStatusPending,
			want:    model.InstallmentStatusOverdue,
		},
		{
			name:    "stale stored paid is not trusted when past due",
			dueDate: yesterday,
			stored:  model.InstallmentStatusPaid,
			want:    model.InstallmentStatusOverdue,
		},
		{
			name:    "due today is not overdue",
			dueDate: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
			want:    model.InstallmentStatusPending,
		},
		{
			name:    "due later today with time component is not overdue",
			dueDate: time.Date(2026, 8, 15, 23, 59, 0, 0, time.UTC),
			want:    model.InstallmentStatusPending,
		},
		{
			name:    "future due falls back to stored status",
			dueDate: tomorrow,
			stored:  model.InstallmentStatusPaid,
			want:    model.InstallmentStatusPaid,
		},
		{
			name:    "unset stored status defaults to pending",
			dueDate: tomorrow,
			want:    model.InstallmentStatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := model.Installment{
				DueDate:     tt.dueDate,
				PaymentDate: tt.paymentDate,
				Status:      tt.stored,
			}
			if got := ResolveInstallmentStatus(inst, now); got != tt.want {
				t.Errorf("ResolveInstallmentStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}
