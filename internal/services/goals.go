package services

import "purse/internal/core"

// GoalStatus is a spending goal evaluated against its current period.
type GoalStatus struct {
	Goal     core.SpendingGoal
	Current  core.Money
	Progress float64 // 0-100
	Achieved bool
}

// EvaluateGoal computes progress towards a goal. Save goals progress as the
// amount grows; reduce and limit goals progress as it stays under target.
func EvaluateGoal(g core.SpendingGoal, expenses []core.Expense, today core.Date) GoalStatus {
	current := spentInPeriod(expenses, g.Period, g.CategoryID, today)
	st := GoalStatus{Goal: g, Current: current}

	target := float64(g.TargetAmount.Cents)
	cur := float64(current.Cents)
	if g.Type == core.GoalSave {
		st.Achieved = current.Cents >= g.TargetAmount.Cents
		if target > 0 {
			st.Progress = cur / target * 100
		}
	} else {
		st.Achieved = current.Cents <= g.TargetAmount.Cents
		if target > 0 {
			st.Progress = (target - cur) / target * 100
		}
	}
	st.Progress = max(0, min(100, st.Progress))
	return st
}

// EvaluateGoals evaluates the active goals in order.
func EvaluateGoals(goals []core.SpendingGoal, expenses []core.Expense, today core.Date) []GoalStatus {
	var out []GoalStatus
	for _, g := range goals {
		if !g.IsActive {
			continue
		}
		out = append(out, EvaluateGoal(g, expenses, today))
	}
	return out
}
