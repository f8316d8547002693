package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"purse/internal/amqp"
	"purse/internal/core"
	"purse/internal/ids"
	"purse/internal/ledger"
)

// ExpenseInput describes an expense entered by the user.
type ExpenseInput struct {
	CardID      string
	Amount      core.Money // full purchase amount
	Category    string
	Merchant    string
	Description string
	Date        core.Date // zero means today

	// InstallmentMonths splits the purchase into monthly payments when >= 2.
	InstallmentMonths int

	// Subscription marks the expense as a recurring charge (monthly or yearly).
	Subscription    core.Frequency
	SubscriptionEnd core.Date
}

// ExpenseService validates user input, assigns identifiers and timestamps,
// and writes to the ledger.
type ExpenseService struct {
	ledger    ledger.Ledger
	ids       ids.Generator
	cal       core.Calendar
	publisher EventPublisher
	now       func() time.Time
}

func NewExpenseService(l ledger.Ledger, gen ids.Generator, cal core.Calendar, publisher EventPublisher) *ExpenseService {
	if gen == nil {
		gen = ids.UUID{}
	}
	return &ExpenseService{
		ledger:    l,
		ids:       gen,
		cal:       cal,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateExpense saves an expense. Installment purchases also create an
// installment plan and record only the first monthly payment.
func (s *ExpenseService) CreateExpense(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	now := s.now()
	e := core.Expense{
		ID:          s.ids.NewID(ids.PrefixExpense),
		CardID:      in.CardID,
		Amount:      in.Amount,
		Category:    strings.TrimSpace(in.Category),
		Merchant:    strings.TrimSpace(in.Merchant),
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		CreatedAt:   now,
	}
	if e.Date.IsEmpty() {
		e.Date = s.cal.DateOf(now)
	}
	if in.Subscription != "" {
		sub := core.NewSubscription(in.Subscription, e.Date, in.SubscriptionEnd)
		e.Subscription = &sub
	}

	var plan *core.InstallmentPayment
	if in.InstallmentMonths > 0 {
		if err := in.Amount.Validate(); err != nil {
			return core.Expense{}, err
		}
		monthly := splitMonthly(in.Amount, in.InstallmentMonths)
		e.Installment = &core.InstallmentInfo{
			TotalMonths:   in.InstallmentMonths,
			CurrentMonth:  1,
			MonthlyAmount: monthly,
		}
		e.Amount = monthly
		plan = &core.InstallmentPayment{
			ID:                s.ids.NewID(ids.PrefixInstallment),
			OriginalExpenseID: e.ID,
			CardID:            e.CardID,
			TotalAmount:       in.Amount,
			MonthlyAmount:     monthly,
			TotalMonths:       in.InstallmentMonths,
			RemainingMonths:   in.InstallmentMonths,
			StartDate:         e.Date,
			Merchant:          e.Merchant,
			Description:       e.Description,
			Category:          e.Category,
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
	}

	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("invalid expense: %w", err)
	}
	if plan != nil {
		if err := plan.Validate(); err != nil {
			return core.Expense{}, fmt.Errorf("invalid installment plan: %w", err)
		}
	}

	// Save to the ledger first
	if err := s.ledger.AddExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	if plan != nil {
		if err := s.ledger.AddInstallment(ctx, *plan); err != nil {
			return e, fmt.Errorf("save installment plan: %w", err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseGenerated(ctx, e.ID, amqp.SourceManual); err != nil {
			slog.ErrorContext(ctx, "Failed to publish expense message", "id", e.ID, "error", err)
			// Don't fail the request - expense is saved locally
		}
	}

	return e, nil
}

// splitMonthly divides total into months payments, rounded to the cent.
func splitMonthly(total core.Money, months int) core.Money {
	if months <= 0 {
		return total
	}
	m := int64(months)
	return core.Money{Cents: (total.Cents + m/2) / m}
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	if err := s.ledger.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// CreateCard registers a payment card.
func (s *ExpenseService) CreateCard(ctx context.Context, c core.Card) (core.Card, error) {
	c.ID = s.ids.NewID(ids.PrefixCard)
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return core.Card{}, err
	}
	if err := s.ledger.AddCard(ctx, c); err != nil {
		return core.Card{}, fmt.Errorf("save card: %w", err)
	}
	return c, nil
}

// DeleteCard removes a card together with every expense charged to it.
// It returns the number of expenses removed.
func (s *ExpenseService) DeleteCard(ctx context.Context, id string) (int, error) {
	expenses, err := s.ledger.ListExpenses(ctx, ledger.ExpenseFilter{CardID: id})
	if err != nil {
		return 0, fmt.Errorf("list card expenses: %w", err)
	}
	for _, e := range expenses {
		if err := s.ledger.DeleteExpense(ctx, e.ID); err != nil && !errors.Is(err, ledger.ErrNotFound) {
			return 0, fmt.Errorf("delete card expense %s: %w", e.ID, err)
		}
	}
	if err := s.ledger.DeleteCard(ctx, id); err != nil {
		return len(expenses), fmt.Errorf("delete card: %w", err)
	}
	return len(expenses), nil
}

// CreateRecurring validates and stores a new active rule.
func (s *ExpenseService) CreateRecurring(ctx context.Context, r core.RecurringExpense) (core.RecurringExpense, error) {
	now := s.now()
	r.ID = s.ids.NewID(ids.PrefixRecurring)
	r.IsActive = true
	r.LastProcessed = core.Date{}
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.StartDate.IsEmpty() {
		r.StartDate = s.cal.DateOf(now)
	}
	if err := r.Validate(); err != nil {
		return core.RecurringExpense{}, fmt.Errorf("invalid recurring expense: %w", err)
	}
	if err := s.ledger.AddRecurring(ctx, r); err != nil {
		return core.RecurringExpense{}, fmt.Errorf("save recurring expense: %w", err)
	}
	return r, nil
}

// SetRecurringActive pauses or resumes a rule.
func (s *ExpenseService) SetRecurringActive(ctx context.Context, id string, active bool) (core.RecurringExpense, error) {
	r, err := s.ledger.GetRecurring(ctx, id)
	if err != nil {
		return core.RecurringExpense{}, err
	}
	r.IsActive = active
	r.UpdatedAt = s.now()
	if err := s.ledger.UpdateRecurring(ctx, r); err != nil {
		return core.RecurringExpense{}, fmt.Errorf("update recurring expense: %w", err)
	}
	return r, nil
}

func (s *ExpenseService) DeleteRecurring(ctx context.Context, id string) error {
	if err := s.ledger.DeleteRecurring(ctx, id); err != nil {
		return fmt.Errorf("delete recurring expense: %w", err)
	}
	return nil
}

// SetInstallmentActive pauses or resumes an installment plan.
func (s *ExpenseService) SetInstallmentActive(ctx context.Context, id string, active bool) (core.InstallmentPayment, error) {
	return s.updateInstallment(ctx, id, func(p core.InstallmentPayment) (core.InstallmentPayment, error) {
		p.IsActive = active
		return p, nil
	})
}

// RecordInstallmentPayment marks the next monthly payment of a plan as paid.
func (s *ExpenseService) RecordInstallmentPayment(ctx context.Context, id string) (core.InstallmentPayment, error) {
	return s.updateInstallment(ctx, id, func(p core.InstallmentPayment) (core.InstallmentPayment, error) {
		if p.RemainingMonths <= 0 {
			return p, fmt.Errorf("installment %s is already paid off", id)
		}
		return RecordInstallmentPayment(p), nil
	})
}

func (s *ExpenseService) updateInstallment(ctx context.Context, id string, apply func(core.InstallmentPayment) (core.InstallmentPayment, error)) (core.InstallmentPayment, error) {
	plans, err := s.ledger.ListInstallments(ctx)
	if err != nil {
		return core.InstallmentPayment{}, fmt.Errorf("list installments: %w", err)
	}
	for _, p := range plans {
		if p.ID != id {
			continue
		}
		p, err = apply(p)
		if err != nil {
			return core.InstallmentPayment{}, err
		}
		p.UpdatedAt = s.now()
		if err := s.ledger.UpdateInstallment(ctx, p); err != nil {
			return core.InstallmentPayment{}, fmt.Errorf("update installment: %w", err)
		}
		return p, nil
	}
	return core.InstallmentPayment{}, fmt.Errorf("installment %s: %w", id, ledger.ErrNotFound)
}

// CreateBudget validates and stores a budget.
func (s *ExpenseService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	now := s.now()
	b.ID = s.ids.NewID(ids.PrefixBudget)
	b.CreatedAt = now
	b.UpdatedAt = now
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if err := s.ledger.AddBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	return b, nil
}

// CreateGoal validates and stores an active spending goal.
func (s *ExpenseService) CreateGoal(ctx context.Context, g core.SpendingGoal) (core.SpendingGoal, error) {
	now := s.now()
	g.ID = s.ids.NewID(ids.PrefixGoal)
	g.IsActive = true
	g.CreatedAt = now
	g.UpdatedAt = now
	if g.StartDate.IsEmpty() {
		g.StartDate = s.cal.DateOf(now)
	}
	if err := g.Validate(); err != nil {
		return core.SpendingGoal{}, err
	}
	if err := s.ledger.AddGoal(ctx, g); err != nil {
		return core.SpendingGoal{}, fmt.Errorf("save goal: %w", err)
	}
	return g, nil
}

// Close closes the ledger
func (s *ExpenseService) Close() error {
	if s.ledger == nil {
		return nil
	}
	if err := s.ledger.Close(); err != nil {
		return fmt.Errorf("close expense service: %w", err)
	}
	return nil
}
