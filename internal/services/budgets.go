package services

import (
	"time"

	"purse/internal/core"
)

// BudgetStatus is a budget evaluated against the expenses of its current period.
type BudgetStatus struct {
	Budget     core.Budget
	Spent      core.Money
	Remaining  core.Money // negative when over budget
	Percentage float64    // capped at 100
	OverBudget bool
}

// PeriodStart returns the first day of the period containing today. Weeks
// start on Sunday.
func PeriodStart(period core.Frequency, today core.Date) core.Date {
	switch period {
	case core.Daily:
		return today
	case core.Weekly:
		return today.AddDays(-int(today.Weekday() - time.Sunday))
	case core.Monthly:
		return core.NewDate(today.Year(), today.Month(), 1)
	case core.Yearly:
		return core.NewDate(today.Year(), 1, 1)
	}
	return today
}

// spentInPeriod sums expenses dated from the start of the period up to today,
// optionally restricted to one category.
func spentInPeriod(expenses []core.Expense, period core.Frequency, category string, today core.Date) core.Money {
	start := PeriodStart(period, today)
	var total int64
	for _, e := range expenses {
		if e.Date.Before(start.Time) || e.Date.After(today.Time) {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		total += e.Amount.Cents
	}
	return core.Money{Cents: total}
}

// EvaluateBudget computes how much of a budget has been used today.
func EvaluateBudget(b core.Budget, expenses []core.Expense, today core.Date) BudgetStatus {
	category := ""
	if b.Type == core.BudgetCategory {
		category = b.CategoryID
	}
	spent := spentInPeriod(expenses, b.Period, category, today)

	st := BudgetStatus{
		Budget:     b,
		Spent:      spent,
		Remaining:  core.Money{Cents: b.Amount.Cents - spent.Cents},
		OverBudget: spent.Cents > b.Amount.Cents,
	}
	if b.Amount.Cents > 0 {
		st.Percentage = min(float64(spent.Cents)/float64(b.Amount.Cents)*100, 100)
	}
	return st
}

// EvaluateBudgets evaluates each budget in order.
func EvaluateBudgets(budgets []core.Budget, expenses []core.Expense, today core.Date) []BudgetStatus {
	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, EvaluateBudget(b, expenses, today))
	}
	return out
}
