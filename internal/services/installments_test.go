package services

import (
	"testing"

	"purse/internal/core"
)

func plan(start core.Date, total, remaining int) core.InstallmentPayment {
	return core.InstallmentPayment{
		ID:                "inst-1",
		OriginalExpenseID: "exp-1",
		TotalAmount:       core.Money{Cents: int64(total) * 5000},
		MonthlyAmount:     core.Money{Cents: 5000},
		TotalMonths:       total,
		RemainingMonths:   remaining,
		StartDate:         start,
		Merchant:          "Sofa Shop",
		Category:          "home",
		IsActive:          true,
	}
}

func TestNextPaymentDate(t *testing.T) {
	tests := []struct {
		name      string
		start     core.Date
		remaining int
		want      core.Date
	}{
		{"nothing paid", core.NewDate(2024, 1, 10), 6, core.NewDate(2024, 2, 10)},
		{"two paid", core.NewDate(2024, 1, 10), 4, core.NewDate(2024, 4, 10)},
		{"clamped to short month", core.NewDate(2024, 1, 31), 6, core.NewDate(2024, 2, 29)},
		{"crosses year", core.NewDate(2024, 11, 5), 5, core.NewDate(2025, 1, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextPaymentDate(plan(tt.start, 6, tt.remaining))
			if !got.SameDay(tt.want) {
				t.Errorf("NextPaymentDate() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInstallmentTotals(t *testing.T) {
	active := plan(core.NewDate(2024, 1, 1), 10, 4)
	paused := plan(core.NewDate(2024, 1, 1), 10, 8)
	paused.IsActive = false

	plans := []core.InstallmentPayment{active, paused}

	if got := RemainingTotal(plans); got.Cents != 20000 {
		t.Errorf("RemainingTotal() = %d, want 20000", got.Cents)
	}
	if got := MonthlyInstallmentTotal(plans); got.Cents != 5000 {
		t.Errorf("MonthlyInstallmentTotal() = %d, want 5000", got.Cents)
	}
	if got := InstallmentProgress(active); got != 60 {
		t.Errorf("InstallmentProgress() = %v, want 60", got)
	}
}

func TestRecordInstallmentPayment(t *testing.T) {
	p := plan(core.NewDate(2024, 1, 1), 2, 2)

	p = RecordInstallmentPayment(p)
	if p.RemainingMonths != 1 || !p.IsActive {
		t.Fatalf("after first payment: remaining %d, active %v", p.RemainingMonths, p.IsActive)
	}
	p = RecordInstallmentPayment(p)
	if p.RemainingMonths != 0 || p.IsActive {
		t.Fatalf("after last payment: remaining %d, active %v", p.RemainingMonths, p.IsActive)
	}
	p = RecordInstallmentPayment(p)
	if p.RemainingMonths != 0 {
		t.Errorf("remaining months must not go negative, got %d", p.RemainingMonths)
	}
}

func TestUpcomingInstallments(t *testing.T) {
	today := core.NewDate(2024, 3, 1)
	soon := plan(core.NewDate(2024, 2, 20), 6, 6) // due 2024-03-20
	next := plan(core.NewDate(2024, 1, 15), 6, 5) // due 2024-03-15
	past := plan(core.NewDate(2024, 1, 5), 6, 6)  // due 2024-02-05, past
	far := plan(core.NewDate(2024, 4, 15), 6, 6)  // due 2024-05-15
	done := plan(core.NewDate(2024, 2, 20), 6, 0)
	next.ID, past.ID, far.ID, done.ID = "inst-2", "inst-3", "inst-4", "inst-5"

	got := UpcomingInstallments([]core.InstallmentPayment{soon, next, past, far, done}, today, 30)
	if len(got) != 2 {
		t.Fatalf("got %d charges, want 2: %+v", len(got), got)
	}
	if !got[0].DueDate.SameDay(core.NewDate(2024, 3, 15)) || got[0].Expense.Installment.CurrentMonth != 2 {
		t.Errorf("first = %s month %d, want 2024-03-15 month 2", got[0].DueDate, got[0].Expense.Installment.CurrentMonth)
	}
	if !got[1].DueDate.SameDay(core.NewDate(2024, 3, 20)) {
		t.Errorf("second due = %s, want 2024-03-20", got[1].DueDate)
	}
	if got[1].Expense.Installment.CurrentMonth != 1 {
		t.Errorf("CurrentMonth = %d, want 1", got[1].Expense.Installment.CurrentMonth)
	}
}

func TestUpcomingInstallmentsSkipsPastDue(t *testing.T) {
	unpaid := plan(core.NewDate(2024, 1, 10), 12, 12)
	today := core.NewDate(2024, 6, 1)

	if got := UpcomingInstallments([]core.InstallmentPayment{unpaid}, today, 30); len(got) != 0 {
		t.Fatalf("got %d charges, want none: %+v", len(got), got)
	}

	// paying February through May brings the June payment into view
	for i := 0; i < 4; i++ {
		unpaid = RecordInstallmentPayment(unpaid)
	}
	got := UpcomingInstallments([]core.InstallmentPayment{unpaid}, today, 30)
	if len(got) != 1 || !got[0].DueDate.SameDay(core.NewDate(2024, 6, 10)) {
		t.Errorf("after payments got %+v, want one due 2024-06-10", got)
	}
}
