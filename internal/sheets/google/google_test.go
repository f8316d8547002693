package google

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"purse/internal/core"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{CredentialsJSON: "{}"})
	if err == nil {
		t.Fatal("expected error for missing spreadsheet ID")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(context.Background(), Options{SpreadsheetID: "test-id"})
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
	if !strings.Contains(err.Error(), "missing service account credentials") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadCredentials(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sa.json")
	if err := os.WriteFile(file, []byte(`{"type":"service_account"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr bool
	}{
		{name: "inline json wins", opts: Options{CredentialsJSON: `{"inline":true}`, CredentialsFile: file}, want: `{"inline":true}`},
		{name: "file", opts: Options{CredentialsFile: file}, want: `{"type":"service_account"}`},
		{name: "missing file", opts: Options{CredentialsFile: filepath.Join(dir, "nope.json")}, wantErr: true},
		{name: "nothing", opts: Options{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loadCredentials(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadCredentials() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("loadCredentials() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClient_AppendValidatesExpense(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheetBase: "Expenses"} // svc is nil

	_, err := c.Append(context.Background(), core.Expense{Date: core.NewDate(2024, 1, 1)})
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("expected validation error, got %v", err)
	}

	_, err = c.Append(context.Background(), core.Expense{
		Date: core.NewDate(2024, 1, 1), Amount: core.Money{Cents: 100}, Category: "food", Merchant: "Cafe",
	})
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("expected uninitialized service error, got %v", err)
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		baseName string
		year     int
		expected string
	}{
		{"Expenses", 2025, "2025 Expenses"},
		{"Ledger", 2024, "2024 Ledger"},
		{"", 2023, ""}, // Empty base returns empty
		{"Test Sheet", 2022, "2022 Test Sheet"},
		{"2025 Already Prefixed", 2024, "2025 Already Prefixed"}, // Already has year prefix
	}

	for _, tt := range tests {
		got := yearPrefixedName(tt.baseName, tt.year)
		if got != tt.expected {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q",
				tt.baseName, tt.year, got, tt.expected)
		}
	}
}

func TestClient_SheetPerYear(t *testing.T) {
	c := &Client{sheetBase: "Expenses"}
	if got := c.sheetName(2024); got != "2024 Expenses" {
		t.Errorf("sheetName(2024) = %q", got)
	}
}

func TestExpensesInMonth(t *testing.T) {
	values := [][]any{
		{"Date", "Merchant", "Category", "Description", "Amount", "Card", "Kind", "ID"},
		{"2024-03-01", "Market", "food", "", "12.50", "card-1", "manual", "exp-1"},
		{"2024-03-15", "Streamy", "subscription", "Monthly subscription - tv", "9.99", "card-1", "subscription", "exp-2"},
		{"2024-04-01", "Market", "food", "", "3.00", "card-1", "manual", "exp-3"},
		{},
		{"2024-03-20", "Broken", "food", "", "n/a"},
	}

	got := expensesInMonth(values, 2024, 3)
	if len(got) != 2 {
		t.Fatalf("got %d expenses, want 2: %+v", len(got), got)
	}
	if got[0].Amount.Cents != 1250 || got[1].ID != "exp-2" {
		t.Errorf("parsed = %+v", got)
	}
}
