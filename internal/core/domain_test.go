package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:     NewDate(2025, 1, 1),
		Amount:   Money{Cents: 100},
		Category: "food",
		Merchant: "Bakery",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	sub := NewSubscription(Monthly, NewDate(2025, 1, 1), Date{})
	withSub := good
	withSub.Subscription = &sub
	if err := withSub.Validate(); err != nil {
		t.Fatalf("expected subscription expense ok, got %v", err)
	}

	bads := []Expense{
		{Date: Date{}, Amount: Money{Cents: 1}, Category: "c", Merchant: "m"}, // zero date
		{Date: NewDate(2025, 1, 1), Amount: Money{Cents: 0}, Category: "c", Merchant: "m"},
		{Date: NewDate(2025, 1, 1), Amount: Money{Cents: 1}, Category: "", Merchant: "m"},
		{Date: NewDate(2025, 1, 1), Amount: Money{Cents: 1}, Category: "c", Merchant: " "},
		{Date: NewDate(2025, 1, 1), Amount: Money{Cents: 1}, Category: "c", Merchant: "m",
			Installment: &InstallmentInfo{TotalMonths: 1, MonthlyAmount: Money{Cents: 1}}},
		{Date: NewDate(2025, 1, 1), Amount: Money{Cents: 1}, Category: "c", Merchant: "m",
			Subscription: &SubscriptionInfo{Frequency: Weekly, StartDate: NewDate(2025, 1, 1), IsActive: true}},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestNewSubscriptionDerivesBillingDay(t *testing.T) {
	sub := NewSubscription(Monthly, NewDate(2024, 3, 17), Date{})
	if sub.DayOfMonth != 17 || !sub.IsActive {
		t.Fatalf("unexpected subscription: %+v", sub)
	}
}

func TestRecurringExpenseValidate(t *testing.T) {
	base := RecurringExpense{
		Amount:     Money{Cents: 990},
		Category:   "subscription",
		Merchant:   "Streaming",
		Every:      Monthly,
		DayOfMonth: 15,
		StartDate:  NewDate(2024, 1, 10),
		IsActive:   true,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*RecurringExpense)
		want   error
	}{
		{"monthly without day", func(r *RecurringExpense) { r.DayOfMonth = 0 }, ErrInvalidDayOfMonth},
		{"monthly day 32", func(r *RecurringExpense) { r.DayOfMonth = 32 }, ErrInvalidDayOfMonth},
		{"weekly bad weekday", func(r *RecurringExpense) { r.Every = Weekly; r.DayOfWeek = 7 }, ErrInvalidDayOfWeek},
		{"unknown frequency", func(r *RecurringExpense) { r.Every = "biweekly" }, ErrInvalidFrequency},
		{"zero amount", func(r *RecurringExpense) { r.Amount = Money{} }, ErrInvalidAmount},
		{"end before start", func(r *RecurringExpense) { r.EndDate = NewDate(2023, 12, 31) }, ErrInvalidDateRange},
		{"no merchant", func(r *RecurringExpense) { r.Merchant = "" }, ErrEmptyMerchant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base
			tt.mutate(&r)
			if err := r.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBudgetAndGoalValidate(t *testing.T) {
	b := Budget{Type: BudgetCategory, Amount: Money{Cents: 100}, Period: Monthly}
	if err := b.Validate(); !errors.Is(err, ErrInvalidBudget) {
		t.Fatalf("category budget without category: got %v", err)
	}
	b.CategoryID = "food"
	if err := b.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	b.Period = Yearly
	if err := b.Validate(); !errors.Is(err, ErrInvalidBudget) {
		t.Fatalf("yearly budget: got %v", err)
	}

	g := SpendingGoal{Type: GoalSave, TargetAmount: Money{Cents: 1000}, Period: Daily, Title: "x"}
	if err := g.Validate(); !errors.Is(err, ErrInvalidGoal) {
		t.Fatalf("daily goal: got %v", err)
	}
	g.Period = Yearly
	if err := g.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}
