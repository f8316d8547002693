package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"purse/internal/core"
	"purse/internal/ledger"
	"purse/internal/services"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show a month's spending with budgets, goals and installments",
		RunE:  runSummary,
	}
	cmd.Flags().String("month", "", "month to summarize as YYYY-MM (default: current month)")
	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	monthFlag, _ := cmd.Flags().GetString("month")
	today := app.today()

	year, month, err := parseMonth(monthFlag, today)
	if err != nil {
		return err
	}

	expenses, err := app.ledger.ListExpenses(ctx, ledger.ExpenseFilter{})
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	budgets, err := app.ledger.ListBudgets(ctx)
	if err != nil {
		return fmt.Errorf("list budgets: %w", err)
	}
	goals, err := app.ledger.ListGoals(ctx)
	if err != nil {
		return fmt.Errorf("list goals: %w", err)
	}
	plans, err := app.ledger.ListInstallments(ctx)
	if err != nil {
		return fmt.Errorf("list installments: %w", err)
	}

	out := cmd.OutOrStdout()
	ov := core.SummarizeMonth(expenses, year, month)
	fmt.Fprintf(out, "%s %d: %s across %d expense(s)\n\n", time.Month(month), year, ov.Total, ov.Count)

	if len(ov.ByCategory) > 0 {
		w := newTable(out)
		fmt.Fprintln(w, "CATEGORY\tAMOUNT\tSHARE")
		for _, c := range ov.ByCategory {
			name := c.Name
			if cat, ok := core.LookupCategory(c.Name); ok {
				name = cat.Name
			}
			share := float64(c.Amount.Cents) / float64(ov.Total.Cents) * 100
			fmt.Fprintf(w, "%s\t%s\t%.1f%%\n", name, c.Amount, share)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	// Budgets and goals are evaluated for the current period, whatever month
	// was asked for.
	if statuses := services.EvaluateBudgets(budgets, expenses, today); len(statuses) > 0 {
		fmt.Fprintln(out, "\nBudgets")
		w := newTable(out)
		fmt.Fprintln(w, "SCOPE\tPERIOD\tSPENT\tLIMIT\tREMAINING\tUSED")
		for _, st := range statuses {
			flag := ""
			if st.OverBudget {
				flag = " over"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.0f%%%s\n",
				budgetScope(st.Budget), st.Budget.Period, st.Spent, st.Budget.Amount, st.Remaining, st.Percentage, flag)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if statuses := services.EvaluateGoals(goals, expenses, today); len(statuses) > 0 {
		fmt.Fprintln(out, "\nGoals")
		w := newTable(out)
		fmt.Fprintln(w, "GOAL\tTYPE\tCURRENT\tTARGET\tPROGRESS\tACHIEVED")
		for _, st := range statuses {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f%%\t%t\n",
				st.Goal.Title, st.Goal.Type, st.Current, st.Goal.TargetAmount, st.Progress, st.Achieved)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if monthly := services.MonthlyInstallmentTotal(plans); monthly.Cents > 0 {
		fmt.Fprintf(out, "\nInstallments: %s per month, %s still owed\n",
			monthly, services.RemainingTotal(plans))
	}
	return nil
}

func budgetScope(b core.Budget) string {
	if b.Type == core.BudgetCategory {
		return b.CategoryID
	}
	return "all"
}
