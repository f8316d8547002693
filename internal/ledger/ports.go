// Package ledger defines the persistence ports of the expense ledger. Storage
// backends (SQLite, JSON file) implement them; services depend only on these
// interfaces.
package ledger

import (
	"context"
	"errors"

	"purse/internal/core"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ExpenseFilter narrows ListExpenses. Zero fields match everything; date
// bounds are inclusive.
type ExpenseFilter struct {
	From     core.Date
	To       core.Date
	Category string
	CardID   string
}

// Match reports whether e passes the filter.
func (f ExpenseFilter) Match(e core.Expense) bool {
	if !f.From.IsEmpty() && e.Date.Before(f.From.Time) {
		return false
	}
	if !f.To.IsEmpty() && e.Date.After(f.To.Time) {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.CardID != "" && e.CardID != f.CardID {
		return false
	}
	return true
}

// ExpenseStore persists expense records.
type ExpenseStore interface {
	AddExpense(ctx context.Context, e core.Expense) error
	GetExpense(ctx context.Context, id string) (core.Expense, error)
	ListExpenses(ctx context.Context, f ExpenseFilter) ([]core.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
}

// RuleStore persists recurring expense rules.
type RuleStore interface {
	AddRecurring(ctx context.Context, r core.RecurringExpense) error
	GetRecurring(ctx context.Context, id string) (core.RecurringExpense, error)
	ListRecurring(ctx context.Context) ([]core.RecurringExpense, error)
	UpdateRecurring(ctx context.Context, r core.RecurringExpense) error
	DeleteRecurring(ctx context.Context, id string) error
}

// CardStore persists payment cards.
type CardStore interface {
	AddCard(ctx context.Context, c core.Card) error
	ListCards(ctx context.Context) ([]core.Card, error)
	DeleteCard(ctx context.Context, id string) error
}

// PlanStore persists installment plans, budgets and spending goals.
type PlanStore interface {
	AddInstallment(ctx context.Context, p core.InstallmentPayment) error
	ListInstallments(ctx context.Context) ([]core.InstallmentPayment, error)
	UpdateInstallment(ctx context.Context, p core.InstallmentPayment) error

	AddBudget(ctx context.Context, b core.Budget) error
	ListBudgets(ctx context.Context) ([]core.Budget, error)
	DeleteBudget(ctx context.Context, id string) error

	AddGoal(ctx context.Context, g core.SpendingGoal) error
	ListGoals(ctx context.Context) ([]core.SpendingGoal, error)
	UpdateGoal(ctx context.Context, g core.SpendingGoal) error
}

// SyncStore tracks which expenses have been exported to the spreadsheet.
type SyncStore interface {
	ListUnsynced(ctx context.Context, limit int) ([]core.Expense, error)
	MarkSynced(ctx context.Context, id string) error
	IsSynced(ctx context.Context, id string) (bool, error)
}

// Ledger is the full persistence surface of a backend.
type Ledger interface {
	ExpenseStore
	RuleStore
	CardStore
	PlanStore
	SyncStore

	// CommitGenerated stores expenses produced by the evaluators and the
	// advanced rules in one atomic step.
	CommitGenerated(ctx context.Context, expenses []core.Expense, rules []core.RecurringExpense) error

	Close() error
}
