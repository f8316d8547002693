package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Generate recurring and subscription expenses due today",
		Long: `Evaluate every active recurring rule and subscription against today's
date and store the expenses that fall due. Running it again on the same
day generates nothing new.`,
		Annotations: map[string]string{publishes: "true"},
		RunE:        runProcess,
	}
	cmd.Flags().Bool("dry-run", false, "show what would be generated without storing it")
	return cmd
}

func runProcess(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	if dryRun {
		due, err := app.processor.Preview(cmd.Context(), app.now)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			fmt.Fprintln(out, "Nothing due.")
			return nil
		}
		w := newTable(out)
		fmt.Fprintln(w, "DATE\tMERCHANT\tCATEGORY\tAMOUNT\tKIND")
		for _, e := range due {
			kind := "recurring"
			if e.RecurringID == "" {
				kind = "subscription"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Date, e.Merchant, e.Category, e.Amount, kind)
		}
		return w.Flush()
	}

	result, err := app.processor.ProcessDueExpenses(cmd.Context(), app.now)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Generated %d expense(s): %d recurring, %d subscription. %d rule(s) advanced.\n",
		result.Total(), len(result.Recurring), len(result.Subscription), result.RulesUpdated)
	return nil
}
