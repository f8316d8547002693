package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"purse/internal/core"
	"purse/internal/sheets"
)

func upcomingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List subscription and installment payments coming up",
		RunE:  runUpcoming,
	}
	cmd.Flags().Int("days", 0, "look-ahead window in days (default from UPCOMING_DAYS)")
	return cmd
}

func runUpcoming(cmd *cobra.Command, _ []string) error {
	days, _ := cmd.Flags().GetInt("days")
	if days <= 0 {
		days = app.cfg.UpcomingDays
	}

	charges, err := app.processor.Upcoming(cmd.Context(), app.now, days)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(charges) == 0 {
		fmt.Fprintf(out, "No payments in the next %d days.\n", days)
		return nil
	}

	today := app.today()
	w := newTable(out)
	fmt.Fprintln(w, "DUE\tIN\tMERCHANT\tAMOUNT\tKIND\tCARD")
	var total core.Money
	for _, c := range charges {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.DueDate, dueIn(core.DaysBetween(today, c.DueDate)), c.Expense.Merchant,
			c.Expense.Amount, sheets.Kind(c.Expense), orDash(c.Expense.CardID))
		total = total.Add(c.Expense.Amount)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d payment(s), %s total\n", len(charges), total)
	return nil
}

func dueIn(days int) string {
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("%dd", days)
	}
}
