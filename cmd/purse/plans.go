package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"purse/internal/core"
	"purse/internal/services"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "budgets",
		Aliases: []string{"budget"},
		Short:   "Manage spending budgets",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			budgets, err := app.ledger.ListBudgets(cmd.Context())
			if err != nil {
				return fmt.Errorf("list budgets: %w", err)
			}
			if len(budgets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No budgets.")
				return nil
			}
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tSCOPE\tPERIOD\tLIMIT")
			for _, b := range budgets {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, budgetScope(b), b.Period, b.Amount)
			}
			return w.Flush()
		},
	})

	add := &cobra.Command{
		Use:   "add",
		Short: "Create a budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			amountStr, _ := cmd.Flags().GetString("amount")
			periodStr, _ := cmd.Flags().GetString("period")
			category, _ := cmd.Flags().GetString("category")

			amount, err := core.ParseMoney(amountStr)
			if err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
			period, err := parseFrequency(periodStr, core.Daily, core.Weekly, core.Monthly)
			if err != nil {
				return err
			}
			b := core.Budget{Type: core.BudgetTotal, Amount: amount, Period: period}
			if category != "" {
				b.Type = core.BudgetCategory
				b.CategoryID = category
			}
			created, err := app.expenses.CreateBudget(cmd.Context(), b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created budget %s: %s %s for %s\n",
				created.ID, created.Period, created.Amount, budgetScope(created))
			return nil
		},
	}
	add.Flags().String("amount", "", "spending limit (required)")
	add.Flags().String("period", "monthly", "period: daily, weekly or monthly")
	add.Flags().String("category", "", "limit one category instead of all spending")
	_ = add.MarkFlagRequired("amount")
	cmd.AddCommand(add)
	return cmd
}

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "goals",
		Aliases: []string{"goal"},
		Short:   "Manage spending goals",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List goals with their progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			goals, err := app.ledger.ListGoals(cmd.Context())
			if err != nil {
				return fmt.Errorf("list goals: %w", err)
			}
			if len(goals) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No goals.")
				return nil
			}
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tTITLE\tTYPE\tPERIOD\tTARGET\tCATEGORY\tACTIVE")
			for _, g := range goals {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
					g.ID, g.Title, g.Type, g.Period, g.TargetAmount, orDash(g.CategoryID), g.IsActive)
			}
			return w.Flush()
		},
	})

	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a spending goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, _ := cmd.Flags().GetString("type")
			targetStr, _ := cmd.Flags().GetString("target")
			periodStr, _ := cmd.Flags().GetString("period")
			category, _ := cmd.Flags().GetString("category")

			target, err := core.ParseMoney(targetStr)
			if err != nil {
				return fmt.Errorf("--target: %w", err)
			}
			period, err := parseFrequency(periodStr, core.Weekly, core.Monthly, core.Yearly)
			if err != nil {
				return err
			}
			g, err := app.expenses.CreateGoal(cmd.Context(), core.SpendingGoal{
				Type:         core.GoalType(typ),
				TargetAmount: target,
				Period:       period,
				CategoryID:   category,
				Title:        args[0],
				StartDate:    app.today(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created goal %s: %s\n", g.ID, g.Title)
			return nil
		},
	}
	add.Flags().String("type", string(core.GoalLimit), "goal type: reduce, save or limit")
	add.Flags().String("target", "", "target amount (required)")
	add.Flags().String("period", "monthly", "period: weekly, monthly or yearly")
	add.Flags().String("category", "", "restrict the goal to one category")
	_ = add.MarkFlagRequired("target")
	cmd.AddCommand(add)
	return cmd
}

func installmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "installments",
		Aliases: []string{"plans"},
		Short:   "Browse installment plans",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List installment plans",
		RunE: func(cmd *cobra.Command, _ []string) error {
			plans, err := app.ledger.ListInstallments(cmd.Context())
			if err != nil {
				return fmt.Errorf("list installments: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(plans) == 0 {
				fmt.Fprintln(out, "No installment plans.")
				return nil
			}
			w := newTable(out)
			fmt.Fprintln(w, "ID\tMERCHANT\tMONTHLY\tPAID\tNEXT\tPROGRESS\tACTIVE")
			for _, p := range plans {
				next := "-"
				if p.IsActive && p.RemainingMonths > 0 {
					next = services.NextPaymentDate(p).String()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\t%.0f%%\t%t\n",
					p.ID, p.Merchant, p.MonthlyAmount, services.PaidMonths(p), p.TotalMonths,
					next, services.InstallmentProgress(p), p.IsActive)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s per month, %s still owed\n",
				services.MonthlyInstallmentTotal(plans), services.RemainingTotal(plans))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "pay <id>",
		Short: "Record the next monthly payment of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.expenses.RecordInstallmentPayment(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if p.RemainingMonths == 0 {
				fmt.Fprintf(out, "Installment plan %s (%s) paid off\n", p.ID, p.Merchant)
				return nil
			}
			fmt.Fprintf(out, "Installment plan %s (%s) paid %d/%d, next %s\n",
				p.ID, p.Merchant, services.PaidMonths(p), p.TotalMonths, services.NextPaymentDate(p))
			return nil
		},
	})
	cmd.AddCommand(installmentSetActiveCmd("pause", "Stop tracking a plan's payments", false))
	cmd.AddCommand(installmentSetActiveCmd("resume", "Resume a paused plan", true))
	return cmd
}

func installmentSetActiveCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.expenses.SetInstallmentActive(cmd.Context(), args[0], active)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Installment plan %s (%s) active=%t\n", p.ID, p.Merchant, p.IsActive)
			return nil
		},
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "categories",
		Short:       "List the expense categories",
		Annotations: map[string]string{skipLedger: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tNAME")
			for _, c := range core.Categories {
				fmt.Fprintf(w, "%s\t%s %s\n", c.ID, c.Icon, c.Name)
			}
			return w.Flush()
		},
	}
}
