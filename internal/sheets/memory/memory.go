// Package memory is an in-process spreadsheet. It stands in for Google
// Sheets when no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"purse/internal/core"
	"purse/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows [][]string
}

var (
	_ sheets.ExpenseWriter = (*Store)(nil)
	_ sheets.ExpenseLister = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// Append stores the expense row and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	row := sheets.Row(e)
	cols := make([]string, len(row))
	for i, v := range row {
		cols[i] = fmt.Sprint(v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, cols)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// ListExpenses returns the stored rows dated in the given month.
func (s *Store) ListExpenses(_ context.Context, year int, month int) ([]core.Expense, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month: %d", month)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, cols := range s.rows {
		e, ok := sheets.ParseRow(cols)
		if !ok || e.Date.Year() != year || e.Date.Month() != month {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Len returns the number of appended rows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
