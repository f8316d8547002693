package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"purse/internal/core"
	"purse/internal/ledger"
	"purse/internal/services"
	"purse/internal/sheets"
)

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"expenses"},
		Short:   "Record and browse expenses",
	}
	cmd.AddCommand(expenseAddCmd())
	cmd.AddCommand(expenseListCmd())
	cmd.AddCommand(expenseDeleteCmd())
	return cmd
}

func expenseAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Example: `  purse expense add --merchant "Bakery" --amount 4.20 --category food
  purse expense add --merchant "Laptop Store" --amount 1200 --category shopping --installments 12
  purse expense add --merchant "Tunes" --amount 9.99 --category entertainment --subscription monthly`,
		Annotations: map[string]string{publishes: "true"},
		RunE:        runExpenseAdd,
	}
	cmd.Flags().String("merchant", "", "merchant name (required)")
	cmd.Flags().String("amount", "", "full amount, e.g. 12.50 (required)")
	cmd.Flags().String("category", "", "category id (required)")
	cmd.Flags().String("date", "", "expense date as YYYY-MM-DD (default: today)")
	cmd.Flags().String("card", "", "card id")
	cmd.Flags().String("description", "", "description")
	cmd.Flags().Int("installments", 0, "split the amount into this many monthly payments")
	cmd.Flags().String("subscription", "", "mark as a subscription billed monthly or yearly")
	cmd.Flags().String("subscription-end", "", "last date the subscription bills")
	_ = cmd.MarkFlagRequired("merchant")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	cmd.MarkFlagsMutuallyExclusive("installments", "subscription")
	return cmd
}

func runExpenseAdd(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	merchant, _ := f.GetString("merchant")
	amountStr, _ := f.GetString("amount")
	category, _ := f.GetString("category")
	dateStr, _ := f.GetString("date")
	card, _ := f.GetString("card")
	description, _ := f.GetString("description")
	installments, _ := f.GetInt("installments")
	subscription, _ := f.GetString("subscription")
	subEndStr, _ := f.GetString("subscription-end")

	amount, err := core.ParseMoney(amountStr)
	if err != nil {
		return fmt.Errorf("--amount: %w", err)
	}
	date, err := parseOptionalDate(dateStr)
	if err != nil {
		return fmt.Errorf("--date: %w", err)
	}
	if date.IsEmpty() {
		date = app.today()
	}

	in := services.ExpenseInput{
		CardID:            card,
		Amount:            amount,
		Category:          category,
		Merchant:          merchant,
		Description:       description,
		Date:              date,
		InstallmentMonths: installments,
	}
	if subscription != "" {
		if in.Subscription, err = parseFrequency(subscription, core.Monthly, core.Yearly); err != nil {
			return err
		}
		if in.SubscriptionEnd, err = parseOptionalDate(subEndStr); err != nil {
			return fmt.Errorf("--subscription-end: %w", err)
		}
	}

	e, err := app.expenses.CreateExpense(cmd.Context(), in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Recorded %s: %s %s on %s\n", e.ID, e.Merchant, e.Amount, e.Date)
	if e.Installment != nil {
		fmt.Fprintf(out, "Installment plan: %d x %s\n", e.Installment.TotalMonths, e.Installment.MonthlyAmount)
	}
	return nil
}

func expenseListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		RunE:  runExpenseList,
	}
	cmd.Flags().String("month", "", "month as YYYY-MM (default: current month)")
	cmd.Flags().String("from", "", "first date, overrides --month")
	cmd.Flags().String("to", "", "last date, overrides --month")
	cmd.Flags().String("category", "", "only this category")
	cmd.Flags().String("card", "", "only this card")
	return cmd
}

func runExpenseList(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	monthStr, _ := f.GetString("month")
	fromStr, _ := f.GetString("from")
	toStr, _ := f.GetString("to")
	category, _ := f.GetString("category")
	card, _ := f.GetString("card")

	filter := ledger.ExpenseFilter{Category: category, CardID: card}
	from, err := parseOptionalDate(fromStr)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := parseOptionalDate(toStr)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}
	if from.IsEmpty() && to.IsEmpty() {
		year, month, err := parseMonth(monthStr, app.today())
		if err != nil {
			return err
		}
		from = core.NewDate(year, month, 1)
		to = from.AddMonths(1).AddDays(-1)
	}
	filter.From, filter.To = from, to

	expenses, err := app.ledger.ListExpenses(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(expenses) == 0 {
		fmt.Fprintln(out, "No expenses.")
		return nil
	}
	w := newTable(out)
	fmt.Fprintln(w, "DATE\tMERCHANT\tCATEGORY\tAMOUNT\tKIND\tCARD\tID")
	for _, e := range expenses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Date, e.Merchant, e.Category, e.Amount, sheets.Kind(e), orDash(e.CardID), e.ID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d expense(s), %s total\n", len(expenses), core.Sum(expenses))
	return nil
}

func expenseDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.expenses.DeleteExpense(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted expense %s\n", args[0])
			return nil
		},
	}
}
