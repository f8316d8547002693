package sheets

import (
	"testing"

	"purse/internal/core"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		e    core.Expense
		want string
	}{
		{"manual", core.Expense{Category: "food"}, "manual"},
		{"recurring", core.Expense{Category: "utilities", RecurringID: "rec-1"}, "recurring"},
		{"subscription", core.Expense{Category: core.CategorySubscription}, "subscription"},
		{"subscription origin", core.Expense{Category: "entertainment", Subscription: &core.SubscriptionInfo{Frequency: core.Monthly}}, "subscription"},
		{
			"installment",
			core.Expense{Category: "shopping", Installment: &core.InstallmentInfo{TotalMonths: 12, CurrentMonth: 3}},
			"installment 3/12",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.e); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRowParseRow(t *testing.T) {
	e := core.Expense{
		ID:          "exp-7",
		CardID:      "card-1",
		Amount:      core.Money{Cents: 1234},
		Category:    "food",
		Merchant:    "Market",
		Description: "weekly shop",
		Date:        core.NewDate(2024, 3, 9),
	}
	row := Row(e)
	if len(row) != len(Header) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(Header))
	}
	if row[0] != "2024-03-09" || row[4] != "12.34" {
		t.Errorf("row = %v", row)
	}

	cols := make([]string, len(row))
	for i, v := range row {
		cols[i] = v.(string)
	}
	got, ok := ParseRow(cols)
	if !ok {
		t.Fatal("ParseRow() rejected a written row")
	}
	if got.ID != e.ID || got.Amount != e.Amount || !got.Date.SameDay(e.Date) || got.Merchant != e.Merchant {
		t.Errorf("ParseRow() = %+v", got)
	}
}

func TestParseRowRejectsNonExpenseRows(t *testing.T) {
	tests := []struct {
		name string
		cols []string
	}{
		{"header", Header},
		{"empty", nil},
		{"bad amount", []string{"2024-03-09", "Market", "food", "", "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ParseRow(tt.cols); ok {
				t.Errorf("ParseRow(%v) accepted", tt.cols)
			}
		})
	}
}
