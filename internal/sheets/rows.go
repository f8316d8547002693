package sheets

import (
	"fmt"
	"strings"

	"purse/internal/core"
)

// Header is the column layout of an exported expense row.
var Header = []string{"Date", "Merchant", "Category", "Description", "Amount", "Card", "Kind", "ID"}

// Kind describes how an expense entered the ledger.
func Kind(e core.Expense) string {
	switch {
	case e.Installment != nil:
		return fmt.Sprintf("installment %d/%d", e.Installment.CurrentMonth, e.Installment.TotalMonths)
	case e.RecurringID != "":
		return "recurring"
	case e.Subscription != nil, e.Category == core.CategorySubscription:
		return "subscription"
	}
	return "manual"
}

// Row renders e in Header order. The amount is a plain decimal so the
// spreadsheet parses it as a number.
func Row(e core.Expense) []any {
	return []any{
		e.Date.String(),
		e.Merchant,
		e.Category,
		e.Description,
		e.Amount.String(),
		e.CardID,
		Kind(e),
		e.ID,
	}
}

// ParseRow reads a row written by Row. Rows that are not expenses, such as
// the header, report false.
func ParseRow(cols []string) (core.Expense, bool) {
	get := func(i int) string {
		if i < len(cols) {
			return strings.TrimSpace(cols[i])
		}
		return ""
	}
	date, err := core.ParseDate(get(0))
	if err != nil {
		return core.Expense{}, false
	}
	amount, err := core.ParseMoney(get(4))
	if err != nil {
		return core.Expense{}, false
	}
	return core.Expense{
		Date:        date,
		Merchant:    get(1),
		Category:    get(2),
		Description: get(3),
		Amount:      amount,
		CardID:      get(5),
		ID:          get(7),
	}, true
}
