// Package memory implements the ledger in process memory, optionally
// persisted as a JSON snapshot file. It backs the CLI when no database is
// configured and serves as the test double for services.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"purse/internal/core"
	"purse/internal/ledger"
)

type expenseRecord struct {
	core.Expense
	SyncedAt time.Time `json:"SyncedAt,omitempty"`
}

type snapshot struct {
	Cards        []core.Card               `json:"cards"`
	Expenses     []expenseRecord           `json:"expenses"`
	Recurring    []core.RecurringExpense   `json:"recurring"`
	Installments []core.InstallmentPayment `json:"installments"`
	Budgets      []core.Budget             `json:"budgets"`
	Goals        []core.SpendingGoal       `json:"goals"`
}

func (s snapshot) clone() snapshot {
	return snapshot{
		Cards:        append([]core.Card(nil), s.Cards...),
		Expenses:     append([]expenseRecord(nil), s.Expenses...),
		Recurring:    append([]core.RecurringExpense(nil), s.Recurring...),
		Installments: append([]core.InstallmentPayment(nil), s.Installments...),
		Budgets:      append([]core.Budget(nil), s.Budgets...),
		Goals:        append([]core.SpendingGoal(nil), s.Goals...),
	}
}

// Store is a mutex-guarded ledger. Every mutation is applied to a copy,
// written to disk, and only then made visible.
type Store struct {
	mu   sync.RWMutex
	path string
	data snapshot
	now  func() time.Time
}

var _ ledger.Ledger = (*Store)(nil)

// New returns an empty store that is never persisted.
func New() *Store {
	return &Store{now: time.Now}
}

// Open loads the snapshot at path, starting empty when the file does not
// exist yet. Mutations are written back to path.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("decode ledger file %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) mutate(fn func(*snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *Store) persist(data snapshot) error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ledger.ErrNotFound)
}

func duplicate(kind, id string) error {
	return fmt.Errorf("%s %s already exists", kind, id)
}

// --- expenses ---

func (s *Store) AddExpense(_ context.Context, e core.Expense) error {
	return s.mutate(func(d *snapshot) error {
		return addExpense(d, e)
	})
}

func addExpense(d *snapshot, e core.Expense) error {
	for _, r := range d.Expenses {
		if r.ID == e.ID {
			return duplicate("expense", e.ID)
		}
	}
	d.Expenses = append(d.Expenses, expenseRecord{Expense: e})
	return nil
}

func (s *Store) GetExpense(_ context.Context, id string) (core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.data.Expenses {
		if r.ID == id {
			return r.Expense, nil
		}
	}
	return core.Expense{}, notFound("expense", id)
}

func (s *Store) ListExpenses(_ context.Context, f ledger.ExpenseFilter) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Expense
	for _, r := range s.data.Expenses {
		if f.Match(r.Expense) {
			out = append(out, r.Expense)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out, nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	return s.mutate(func(d *snapshot) error {
		for i, r := range d.Expenses {
			if r.ID == id {
				d.Expenses = append(d.Expenses[:i], d.Expenses[i+1:]...)
				return nil
			}
		}
		return notFound("expense", id)
	})
}

// ListUnsynced returns expenses not yet exported, in insertion order.
func (s *Store) ListUnsynced(_ context.Context, limit int) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Expense
	for _, r := range s.data.Expenses {
		if limit > 0 && len(out) >= limit {
			break
		}
		if r.SyncedAt.IsZero() {
			out = append(out, r.Expense)
		}
	}
	return out, nil
}

func (s *Store) IsSynced(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.data.Expenses {
		if r.ID == id {
			return !r.SyncedAt.IsZero(), nil
		}
	}
	return false, notFound("expense", id)
}

func (s *Store) MarkSynced(_ context.Context, id string) error {
	return s.mutate(func(d *snapshot) error {
		for i := range d.Expenses {
			if d.Expenses[i].ID == id {
				d.Expenses[i].SyncedAt = s.now()
				return nil
			}
		}
		return notFound("expense", id)
	})
}

// --- recurring rules ---

func (s *Store) AddRecurring(_ context.Context, r core.RecurringExpense) error {
	return s.mutate(func(d *snapshot) error {
		for _, x := range d.Recurring {
			if x.ID == r.ID {
				return duplicate("recurring expense", r.ID)
			}
		}
		d.Recurring = append(d.Recurring, r)
		return nil
	})
}

func (s *Store) GetRecurring(_ context.Context, id string) (core.RecurringExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.data.Recurring {
		if r.ID == id {
			return r, nil
		}
	}
	return core.RecurringExpense{}, notFound("recurring expense", id)
}

func (s *Store) ListRecurring(_ context.Context) ([]core.RecurringExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.RecurringExpense(nil), s.data.Recurring...), nil
}

func updateRecurring(d *snapshot, r core.RecurringExpense) error {
	for i := range d.Recurring {
		if d.Recurring[i].ID == r.ID {
			d.Recurring[i] = r
			return nil
		}
	}
	return notFound("recurring expense", r.ID)
}

func (s *Store) UpdateRecurring(_ context.Context, r core.RecurringExpense) error {
	return s.mutate(func(d *snapshot) error {
		return updateRecurring(d, r)
	})
}

func (s *Store) DeleteRecurring(_ context.Context, id string) error {
	return s.mutate(func(d *snapshot) error {
		for i, r := range d.Recurring {
			if r.ID == id {
				d.Recurring = append(d.Recurring[:i], d.Recurring[i+1:]...)
				return nil
			}
		}
		return notFound("recurring expense", id)
	})
}

// CommitGenerated applies generated expenses and rule updates together; if
// any step fails nothing is stored.
func (s *Store) CommitGenerated(_ context.Context, expenses []core.Expense, rules []core.RecurringExpense) error {
	return s.mutate(func(d *snapshot) error {
		for _, e := range expenses {
			if err := addExpense(d, e); err != nil {
				return err
			}
		}
		for _, r := range rules {
			if err := updateRecurring(d, r); err != nil {
				return err
			}
		}
		return nil
	})
}

// --- cards ---

func (s *Store) AddCard(_ context.Context, c core.Card) error {
	return s.mutate(func(d *snapshot) error {
		for _, x := range d.Cards {
			if x.ID == c.ID {
				return duplicate("card", c.ID)
			}
		}
		d.Cards = append(d.Cards, c)
		return nil
	})
}

func (s *Store) ListCards(_ context.Context) ([]core.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Card(nil), s.data.Cards...), nil
}

func (s *Store) DeleteCard(_ context.Context, id string) error {
	return s.mutate(func(d *snapshot) error {
		for i, c := range d.Cards {
			if c.ID == id {
				d.Cards = append(d.Cards[:i], d.Cards[i+1:]...)
				return nil
			}
		}
		return notFound("card", id)
	})
}

// --- installments, budgets, goals ---

func (s *Store) AddInstallment(_ context.Context, p core.InstallmentPayment) error {
	return s.mutate(func(d *snapshot) error {
		d.Installments = append(d.Installments, p)
		return nil
	})
}

func (s *Store) ListInstallments(_ context.Context) ([]core.InstallmentPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.InstallmentPayment(nil), s.data.Installments...), nil
}

func (s *Store) UpdateInstallment(_ context.Context, p core.InstallmentPayment) error {
	return s.mutate(func(d *snapshot) error {
		for i := range d.Installments {
			if d.Installments[i].ID == p.ID {
				d.Installments[i] = p
				return nil
			}
		}
		return notFound("installment", p.ID)
	})
}

func (s *Store) AddBudget(_ context.Context, b core.Budget) error {
	return s.mutate(func(d *snapshot) error {
		d.Budgets = append(d.Budgets, b)
		return nil
	})
}

func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Budget(nil), s.data.Budgets...), nil
}

func (s *Store) DeleteBudget(_ context.Context, id string) error {
	return s.mutate(func(d *snapshot) error {
		for i, b := range d.Budgets {
			if b.ID == id {
				d.Budgets = append(d.Budgets[:i], d.Budgets[i+1:]...)
				return nil
			}
		}
		return notFound("budget", id)
	})
}

func (s *Store) AddGoal(_ context.Context, g core.SpendingGoal) error {
	return s.mutate(func(d *snapshot) error {
		d.Goals = append(d.Goals, g)
		return nil
	})
}

func (s *Store) ListGoals(_ context.Context) ([]core.SpendingGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.SpendingGoal(nil), s.data.Goals...), nil
}

func (s *Store) UpdateGoal(_ context.Context, g core.SpendingGoal) error {
	return s.mutate(func(d *snapshot) error {
		for i := range d.Goals {
			if d.Goals[i].ID == g.ID {
				d.Goals[i] = g
				return nil
			}
		}
		return notFound("goal", g.ID)
	})
}
