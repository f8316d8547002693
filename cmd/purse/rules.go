package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"purse/internal/core"
	"purse/internal/rulesfile"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Aliases: []string{"recurring"},
		Short:   "Manage recurring expense rules",
	}
	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesAddCmd())
	cmd.AddCommand(rulesSetActiveCmd("pause", "Stop a rule from firing", false))
	cmd.AddCommand(rulesSetActiveCmd("resume", "Let a paused rule fire again", true))
	cmd.AddCommand(rulesDeleteCmd())
	cmd.AddCommand(rulesImportCmd())
	cmd.AddCommand(rulesExportCmd())
	return cmd
}

func rulesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recurring rules with their next date",
		RunE:  runRulesList,
	}
	cmd.Flags().Bool("all", false, "include paused rules")
	return cmd
}

func runRulesList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	all, _ := cmd.Flags().GetBool("all")

	rules, err := app.ledger.ListRecurring(ctx)
	if err != nil {
		return fmt.Errorf("list rules: %w", err)
	}
	next, err := app.processor.NextRuleDates(ctx, app.now)
	if err != nil {
		return err
	}

	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Merchant < rules[j].Merchant })

	w := newTable(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tMERCHANT\tAMOUNT\tCATEGORY\tSCHEDULE\tLAST\tNEXT\tSTATUS")
	shown := 0
	for _, r := range rules {
		if !r.IsActive && !all {
			continue
		}
		status := "active"
		if !r.IsActive {
			status = "paused"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Merchant, r.Amount, r.Category, schedule(r),
			dateOrDash(r.LastProcessed), dateOrDash(next[r.ID]), status)
		shown++
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if shown == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recurring rules.")
	}
	return nil
}

func rulesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a recurring rule",
		Example: `  purse rules add --merchant "Landlord" --amount 850 --category utilities --every monthly --day 1
  purse rules add --merchant "Gym" --amount 12.50 --category health --every weekly --weekday monday`,
		RunE: runRulesAdd,
	}
	cmd.Flags().String("merchant", "", "merchant name (required)")
	cmd.Flags().String("amount", "", "amount per occurrence, e.g. 12.50 (required)")
	cmd.Flags().String("category", "", "category id (required)")
	cmd.Flags().String("every", "monthly", "frequency: daily, weekly, monthly or yearly")
	cmd.Flags().String("weekday", "", "day of week for weekly rules")
	cmd.Flags().Int("day", 0, "day of month for monthly rules (29-31 fall back to the last day)")
	cmd.Flags().String("start", "", "first date the rule may fire (default: today)")
	cmd.Flags().String("end", "", "last date the rule may fire")
	cmd.Flags().String("card", "", "card id")
	cmd.Flags().String("description", "", "description")
	_ = cmd.MarkFlagRequired("merchant")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func runRulesAdd(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	merchant, _ := f.GetString("merchant")
	amountStr, _ := f.GetString("amount")
	category, _ := f.GetString("category")
	every, _ := f.GetString("every")
	weekday, _ := f.GetString("weekday")
	day, _ := f.GetInt("day")
	startStr, _ := f.GetString("start")
	endStr, _ := f.GetString("end")
	card, _ := f.GetString("card")
	description, _ := f.GetString("description")

	amount, err := core.ParseMoney(amountStr)
	if err != nil {
		return fmt.Errorf("--amount: %w", err)
	}
	freq, err := parseFrequency(every, core.Daily, core.Weekly, core.Monthly, core.Yearly)
	if err != nil {
		return err
	}
	start, err := parseOptionalDate(startStr)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	if start.IsEmpty() {
		start = app.today()
	}
	end, err := parseOptionalDate(endStr)
	if err != nil {
		return fmt.Errorf("--end: %w", err)
	}

	rule := core.RecurringExpense{
		CardID:      card,
		Amount:      amount,
		Category:    category,
		Merchant:    merchant,
		Description: description,
		Every:       freq,
		DayOfMonth:  day,
		StartDate:   start,
		EndDate:     end,
	}
	if freq == core.Weekly {
		if rule.DayOfWeek, err = parseWeekday(weekday); err != nil {
			return err
		}
	}
	if freq == core.Monthly && day == 0 {
		rule.DayOfMonth = start.Day()
	}

	created, err := app.expenses.CreateRecurring(cmd.Context(), rule)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created rule %s: %s %s, %s\n",
		created.ID, created.Merchant, created.Amount, schedule(created))
	return nil
}

func rulesSetActiveCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.expenses.SetRecurringActive(cmd.Context(), args[0], active)
			if err != nil {
				return err
			}
			state := "paused"
			if r.IsActive {
				state = "resumed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rule %s (%s) %s\n", r.ID, r.Merchant, state)
			return nil
		},
	}
}

func rulesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recurring rule",
		Long:  "Delete a recurring rule. Expenses it already generated are kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.expenses.DeleteRecurring(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted rule %s\n", args[0])
			return nil
		},
	}
}

func rulesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.toml>",
		Short: "Create rules from a TOML file",
		Long: `Create one rule per [[rule]] table of a TOML file:

  [[rule]]
  merchant = "Landlord"
  amount = "850.00"
  category = "utilities"
  every = "monthly"
  day_of_month = 1
  start = "2024-01-01"

Every rule is validated before any is stored. Use "-" to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: runRulesImport,
	}
}

func runRulesImport(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open rules file: %w", err)
		}
		defer f.Close()
		r = f
	}

	rules, err := rulesfile.Decode(r)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	for _, rule := range rules {
		paused := !rule.IsActive
		created, err := app.expenses.CreateRecurring(ctx, rule)
		if err != nil {
			return fmt.Errorf("create rule %s: %w", rule.Merchant, err)
		}
		if paused {
			if _, err := app.expenses.SetRecurringActive(ctx, created.ID, false); err != nil {
				return err
			}
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rule(s)\n", len(rules))
	return nil
}

func rulesExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every rule as TOML to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules, err := app.ledger.ListRecurring(cmd.Context())
			if err != nil {
				return fmt.Errorf("list rules: %w", err)
			}
			return rulesfile.Encode(cmd.OutOrStdout(), rules)
		},
	}
}
