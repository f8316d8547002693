package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"purse/internal/amqp"
	"purse/internal/core"
	"purse/internal/ids"
	"purse/internal/ledger"
	plog "purse/internal/log"
)

// EventPublisher announces expenses written to the ledger. It is satisfied
// by *amqp.Client.
type EventPublisher interface {
	PublishExpenseGenerated(ctx context.Context, id, source string) error
}

// ProcessResult summarises one processing pass.
type ProcessResult struct {
	Recurring    []core.Expense
	Subscription []core.Expense
	RulesUpdated int
}

// Total returns the number of generated expenses.
func (r ProcessResult) Total() int {
	return len(r.Recurring) + len(r.Subscription)
}

// Processor runs both evaluators against the ledger and commits their output.
type Processor struct {
	ledger        ledger.Ledger
	recurrence    *RecurrenceEvaluator
	subscriptions *SubscriptionEvaluator
	publisher     EventPublisher
}

// NewProcessor wires a processor. publisher may be nil.
func NewProcessor(l ledger.Ledger, cal core.Calendar, gen ids.Generator, publisher EventPublisher) *Processor {
	return &Processor{
		ledger:        l,
		recurrence:    NewRecurrenceEvaluator(cal, gen),
		subscriptions: NewSubscriptionEvaluator(cal, gen),
		publisher:     publisher,
	}
}

// ProcessDueExpenses generates every recurring and subscription expense due
// at now and stores them together with the advanced rules. Running it again
// for the same day stores nothing new.
func (p *Processor) ProcessDueExpenses(ctx context.Context, now time.Time) (ProcessResult, error) {
	var result ProcessResult

	rules, err := p.ledger.ListRecurring(ctx)
	if err != nil {
		return result, fmt.Errorf("list recurring expenses: %w", err)
	}
	expenses, err := p.ledger.ListExpenses(ctx, ledger.ExpenseFilter{})
	if err != nil {
		return result, fmt.Errorf("list expenses: %w", err)
	}

	recurring, updated := p.recurrence.ProcessAll(rules, now)
	subs := p.subscriptions.GenerateDue(expenses, now)

	if len(recurring) == 0 && len(subs) == 0 {
		slog.DebugContext(ctx, "No recurring or subscription expenses due", "rules", len(rules))
		return result, nil
	}

	generated := make([]core.Expense, 0, len(recurring)+len(subs))
	generated = append(generated, recurring...)
	generated = append(generated, subs...)

	if err := p.ledger.CommitGenerated(ctx, generated, updated); err != nil {
		return result, fmt.Errorf("commit generated expenses: %w", err)
	}

	result = ProcessResult{Recurring: recurring, Subscription: subs, RulesUpdated: len(updated)}

	for _, e := range recurring {
		slog.InfoContext(ctx, "Created expense from recurring rule",
			plog.NewFields().WithExpense(e).WithSource(amqp.SourceRecurring).ToSlice()...)
		p.publish(ctx, e.ID, amqp.SourceRecurring)
	}
	for _, e := range subs {
		slog.InfoContext(ctx, "Created subscription charge",
			plog.NewFields().WithExpense(e).WithSource(amqp.SourceSubscription).ToSlice()...)
		p.publish(ctx, e.ID, amqp.SourceSubscription)
	}

	slog.InfoContext(ctx, "Processed due expenses",
		"recurring", len(recurring),
		"subscription", len(subs),
		"rules_updated", len(updated))

	return result, nil
}

// Preview returns what ProcessDueExpenses would generate at now without
// storing anything.
func (p *Processor) Preview(ctx context.Context, now time.Time) ([]core.Expense, error) {
	rules, err := p.ledger.ListRecurring(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recurring expenses: %w", err)
	}
	expenses, err := p.ledger.ListExpenses(ctx, ledger.ExpenseFilter{})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	recurring, _ := p.recurrence.ProcessAll(rules, now)
	return append(recurring, p.subscriptions.GenerateDue(expenses, now)...), nil
}

// publish failures are logged only; the expense is already stored and the
// sync worker picks it up on its next poll.
func (p *Processor) publish(ctx context.Context, id, source string) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishExpenseGenerated(ctx, id, source); err != nil {
		slog.WarnContext(ctx, "Failed to publish expense generated message",
			"id", id, "error", err)
	}
}

// Upcoming lists subscription and installment charges expected within
// horizonDays of now, soonest first.
func (p *Processor) Upcoming(ctx context.Context, now time.Time, horizonDays int) ([]UpcomingCharge, error) {
	expenses, err := p.ledger.ListExpenses(ctx, ledger.ExpenseFilter{})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	plans, err := p.ledger.ListInstallments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list installments: %w", err)
	}

	charges := p.subscriptions.Upcoming(expenses, now, horizonDays)
	today := p.recurrence.cal.DateOf(now)
	charges = append(charges, UpcomingInstallments(plans, today, horizonDays)...)

	sortCharges(charges)
	return charges, nil
}

// NextRuleDates pairs every active rule with the date it next fires.
func (p *Processor) NextRuleDates(ctx context.Context, now time.Time) (map[string]core.Date, error) {
	rules, err := p.ledger.ListRecurring(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recurring expenses: %w", err)
	}
	out := make(map[string]core.Date, len(rules))
	for _, r := range rules {
		if d, ok := p.recurrence.NextDueDate(r, now); ok {
			out[r.ID] = d
		}
	}
	return out, nil
}
