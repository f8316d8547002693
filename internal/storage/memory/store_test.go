package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"purse/internal/core"
	"purse/internal/ledger"
)

func expense(id string, d core.Date) core.Expense {
	return core.Expense{
		ID:       id,
		Amount:   core.Money{Cents: 250},
		Category: "food",
		Merchant: "Cafe",
		Date:     d,
	}
}

func TestStore_ExpenseLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.AddExpense(ctx, expense("b", core.NewDate(2024, 2, 1))); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if err := s.AddExpense(ctx, expense("a", core.NewDate(2024, 1, 1))); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if err := s.AddExpense(ctx, expense("a", core.NewDate(2024, 1, 1))); err == nil {
		t.Error("duplicate ID accepted")
	}

	got, err := s.ListExpenses(ctx, ledger.ExpenseFilter{})
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" {
		t.Errorf("ListExpenses() not ordered by date: %+v", got)
	}

	if err := s.DeleteExpense(ctx, "a"); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if _, err := s.GetExpense(ctx, "a"); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("GetExpense after delete: %v", err)
	}
	if err := s.DeleteExpense(ctx, "a"); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("second DeleteExpense: %v", err)
	}
}

func TestStore_CommitGeneratedAtomic(t *testing.T) {
	ctx := context.Background()
	s := New()

	rule := core.RecurringExpense{ID: "rec-1", Every: core.Daily, IsActive: true}
	if err := s.AddRecurring(ctx, rule); err != nil {
		t.Fatalf("AddRecurring: %v", err)
	}

	rule.LastProcessed = core.NewDate(2024, 3, 1)
	err := s.CommitGenerated(ctx,
		[]core.Expense{expense("gen-1", core.NewDate(2024, 3, 1))},
		[]core.RecurringExpense{rule, {ID: "rec-missing"}})
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("CommitGenerated error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetExpense(ctx, "gen-1"); !errors.Is(err, ledger.ErrNotFound) {
		t.Error("expense stored despite failed commit")
	}
	stored, _ := s.GetRecurring(ctx, "rec-1")
	if !stored.LastProcessed.IsEmpty() {
		t.Error("rule advanced despite failed commit")
	}

	if err := s.CommitGenerated(ctx, []core.Expense{expense("gen-1", core.NewDate(2024, 3, 1))}, []core.RecurringExpense{rule}); err != nil {
		t.Fatalf("CommitGenerated: %v", err)
	}
	stored, _ = s.GetRecurring(ctx, "rec-1")
	if !stored.LastProcessed.SameDay(core.NewDate(2024, 3, 1)) {
		t.Errorf("LastProcessed = %s", stored.LastProcessed)
	}
}

func TestStore_Sync(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	for _, id := range []string{"a", "b", "c"} {
		if err := s.AddExpense(ctx, expense(id, core.NewDate(2024, 1, 1))); err != nil {
			t.Fatalf("AddExpense: %v", err)
		}
	}
	if err := s.MarkSynced(ctx, "b"); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}

	pending, _ := s.ListUnsynced(ctx, 10)
	if len(pending) != 2 || pending[0].ID != "a" || pending[1].ID != "c" {
		t.Errorf("ListUnsynced() = %+v", pending)
	}
	pending, _ = s.ListUnsynced(ctx, 1)
	if len(pending) != 1 {
		t.Errorf("limit ignored: %d", len(pending))
	}

	if synced, err := s.IsSynced(ctx, "b"); err != nil || !synced {
		t.Errorf("IsSynced(b) = %v, %v", synced, err)
	}
	if synced, err := s.IsSynced(ctx, "a"); err != nil || synced {
		t.Errorf("IsSynced(a) = %v, %v", synced, err)
	}
	if _, err := s.IsSynced(ctx, "missing"); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("IsSynced(missing) error = %v", err)
	}
}

func TestStore_Persistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "purse.json")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sub := core.NewSubscription(core.Yearly, core.NewDate(2023, 6, 1), core.Date{})
	e := expense("exp-1", core.NewDate(2023, 6, 1))
	e.Subscription = &sub
	if err := s.AddExpense(ctx, e); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if err := s.AddCard(ctx, core.Card{ID: "card-1", Name: "Visa"}); err != nil {
		t.Fatalf("AddCard: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.GetExpense(ctx, "exp-1")
	if err != nil {
		t.Fatalf("GetExpense: %v", err)
	}
	if !got.Date.SameDay(core.NewDate(2023, 6, 1)) {
		t.Errorf("Date = %s", got.Date)
	}
	if got.Subscription == nil || got.Subscription.Frequency != core.Yearly || !got.Subscription.EndDate.IsEmpty() {
		t.Errorf("Subscription = %+v", got.Subscription)
	}
	cards, _ := reopened.ListCards(ctx)
	if len(cards) != 1 {
		t.Errorf("cards = %+v", cards)
	}

	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temporary file left behind: %v", err)
	}
}

func TestOpen_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "purse.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("Open accepted a corrupt file")
	}
}
