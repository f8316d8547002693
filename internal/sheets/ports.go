package sheets

import (
	"context"

	"purse/internal/core"
)

// Ports for outbound adapters.
type (
	// ExpenseWriter exports a single ledger expense as a spreadsheet row.
	ExpenseWriter interface {
		Append(ctx context.Context, e core.Expense) (rowRef string, err error)
	}

	// ExpenseLister returns the exported expenses for a given month.
	ExpenseLister interface {
		ListExpenses(ctx context.Context, year int, month int) ([]core.Expense, error)
	}
)
