package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"purse/internal/core"
)

func cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cards",
		Aliases: []string{"card"},
		Short:   "Manage payment cards",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cards, err := app.ledger.ListCards(cmd.Context())
			if err != nil {
				return fmt.Errorf("list cards: %w", err)
			}
			if len(cards) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cards.")
				return nil
			}
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tNAME\tNUMBER\tCOLOR")
			for _, c := range cards {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, orDash(c.Number), orDash(c.Color))
			}
			return w.Flush()
		},
	})
	cmd.AddCommand(cardsAddCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card and every expense charged to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.expenses.DeleteCard(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %s and %d expense(s)\n", args[0], n)
			return nil
		},
	})
	return cmd
}

func cardsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, _ := cmd.Flags().GetString("number")
			color, _ := cmd.Flags().GetString("color")
			c, err := app.expenses.CreateCard(cmd.Context(), core.Card{Name: args[0], Number: number, Color: color})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created card %s (%s)\n", c.ID, c.Name)
			return nil
		},
	}
	cmd.Flags().String("number", "", "last digits shown in listings")
	cmd.Flags().String("color", "", "display color")
	return cmd
}
