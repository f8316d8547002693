package services

import (
	"strings"
	"time"

	"purse/internal/core"
	"purse/internal/ids"
)

// maxLookaheadDays bounds the NextDueDate scan; every supported frequency
// fires at least once in this window unless the rule has ended.
const maxLookaheadDays = 400

// RecurrenceEvaluator decides when recurring expense rules fire. It holds no
// state besides its calendar and identifier generator, so it is safe to call
// repeatedly with the same input.
type RecurrenceEvaluator struct {
	cal core.Calendar
	ids ids.Generator
}

// NewRecurrenceEvaluator creates an evaluator pinned to cal.
func NewRecurrenceEvaluator(cal core.Calendar, gen ids.Generator) *RecurrenceEvaluator {
	if gen == nil {
		gen = ids.UUID{}
	}
	return &RecurrenceEvaluator{cal: cal, ids: gen}
}

// ShouldFire reports whether rule must produce an expense at now.
func (e *RecurrenceEvaluator) ShouldFire(rule core.RecurringExpense, now time.Time) bool {
	return e.dueOn(rule, e.cal.DateOf(now))
}

func (e *RecurrenceEvaluator) dueOn(rule core.RecurringExpense, today core.Date) bool {
	if !rule.IsActive {
		return false
	}
	if today.Before(rule.StartDate.Time) {
		return false
	}
	if !rule.EndDate.IsEmpty() && today.After(rule.EndDate.Time) {
		return false
	}

	// Never fired: due from the start date on
	if rule.LastProcessed.IsEmpty() {
		return true
	}

	checker, err := GetDuenessChecker(rule.Every)
	if err != nil {
		return false
	}
	return checker.IsDue(rule, rule.LastProcessed, today)
}

// NextDueDate returns the first date, today included, on which the rule
// fires. It returns false when the rule is inactive or has ended.
func (e *RecurrenceEvaluator) NextDueDate(rule core.RecurringExpense, now time.Time) (core.Date, bool) {
	today := e.cal.DateOf(now)
	for i := 0; i <= maxLookaheadDays; i++ {
		d := today.AddDays(i)
		if !rule.EndDate.IsEmpty() && d.After(rule.EndDate.Time) {
			return core.Date{}, false
		}
		if e.dueOn(rule, d) {
			return d, true
		}
	}
	return core.Date{}, false
}

// Materialize builds the expense a firing rule produces at now.
func (e *RecurrenceEvaluator) Materialize(rule core.RecurringExpense, now time.Time) core.Expense {
	desc := strings.TrimSpace(rule.Description)
	if desc == "" {
		desc = "recurring expense"
	}
	return core.Expense{
		ID:          e.ids.NewID(ids.PrefixExpense),
		CardID:      rule.CardID,
		Amount:      rule.Amount,
		Category:    rule.Category,
		Merchant:    rule.Merchant,
		Description: core.AutoPrefix + desc,
		Date:        e.cal.DateOf(now),
		CreatedAt:   now,
		RecurringID: rule.ID,
	}
}

// ProcessAll evaluates every rule at now. It returns one new expense per rule
// that fired and the fired rules with LastProcessed advanced; rules that did
// not fire are not returned. The input slice is not modified.
func (e *RecurrenceEvaluator) ProcessAll(rules []core.RecurringExpense, now time.Time) ([]core.Expense, []core.RecurringExpense) {
	var (
		newExpenses []core.Expense
		updated     []core.RecurringExpense
	)
	today := e.cal.DateOf(now)
	for _, rule := range rules {
		if !e.dueOn(rule, today) {
			continue
		}
		newExpenses = append(newExpenses, e.Materialize(rule, now))

		rule.LastProcessed = today
		rule.UpdatedAt = now
		updated = append(updated, rule)
	}
	return newExpenses, updated
}
